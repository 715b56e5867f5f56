package migrations

import (
	"time"

	"github.com/shashiranjanraj/pdm/app/models"
	"github.com/shashiranjanraj/pdm/pkg/migration"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260105000000_create_products_table", &CreateProductsTable{})
	migration.Register("20260214000000_add_image_path_to_products", &AddImagePathToProducts{})
}

// -------- 0001: products --------

// productV1 is the column set of the first release, frozen so this migration
// keeps producing the same table even as models.Product grows. image_path
// arrived later (see 0002).
type productV1 struct {
	ID          uint            `gorm:"primaryKey"`
	Code        string          `gorm:"size:100;uniqueIndex;not null"`
	Name        string          `gorm:"size:255;not null;index"`
	Category    string          `gorm:"size:100"`
	Spec        string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time
}

func (productV1) TableName() string { return "products" }

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&productV1{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0002: image_path --------

// AddImagePathToProducts adds the nullable image_path column to stores
// created before image uploads existed. Existing rows and their values are
// left untouched.
type AddImagePathToProducts struct{}

func (m *AddImagePathToProducts) Up(db *gorm.DB) error {
	migrator := db.Migrator()
	if migrator.HasColumn(&models.Product{}, "image_path") {
		return nil
	}
	return migrator.AddColumn(&models.Product{}, "ImagePath")
}

func (m *AddImagePathToProducts) Down(db *gorm.DB) error {
	return db.Migrator().DropColumn(&models.Product{}, "ImagePath")
}
