package seeders

import (
	"fmt"

	"github.com/shashiranjanraj/pdm/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts a handful of sample products for local development.
// Seeding is idempotent: rows are matched by code and never duplicated.
func SeedProducts(db *gorm.DB) error {
	samples := []models.Product{
		{Code: "BATCH-001", Name: "Wireless Mouse", Category: "Electronics", Spec: "2.4GHz, USB-C", Price: decimal.NewFromFloat(29.90), Cost: decimal.NewFromFloat(11.50), Description: "Entry-level wireless mouse."},
		{Code: "BATCH-002", Name: "Mechanical Keyboard", Category: "Electronics", Spec: "87 keys, brown switches", Price: decimal.NewFromFloat(89.00), Cost: decimal.NewFromFloat(42.00), Description: "Tenkeyless mechanical keyboard."},
		{Code: "BATCH-003", Name: "A4 Notebook", Category: "Office", Spec: "120 pages, dotted", Price: decimal.NewFromFloat(4.50), Cost: decimal.NewFromFloat(1.20), Description: "Dotted notebook for sketches."},
		{Code: "BATCH-004", Name: "Desk Lamp", Category: "Office", Spec: "LED, 3 color temps", Price: decimal.NewFromFloat(35.00), Cost: decimal.NewFromFloat(14.80), Description: "Adjustable LED desk lamp."},
		{Code: "BATCH-005", Name: "Travel Mug", Category: "Household", Spec: "450ml, stainless", Price: decimal.NewFromFloat(18.00), Cost: decimal.NewFromFloat(6.30), Description: "Leak-proof travel mug."},
	}

	for _, p := range samples {
		var existing models.Product
		err := db.Where("code = ?", p.Code).Attrs(p).FirstOrCreate(&existing).Error
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.Code, err)
		}
	}
	return nil
}
