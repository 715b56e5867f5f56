package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the single master-data entity. Code is the business key every
// external reference uses; ID is a storage-assigned surrogate and never
// leaves the API as a lookup key.
//
// The field set is the superset of the two historic schema variants
// ("code/spec" and "sku/price/cost"): price and cost are optional and
// default to 0 where an older store predates them.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Code        string          `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Category    string          `gorm:"size:100" json:"category"`
	Spec        string          `gorm:"type:text" json:"spec"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"cost"`
	Description string          `gorm:"type:text" json:"description"`
	ImagePath   string          `gorm:"size:255" json:"image_path"`
	CreatedAt   time.Time       `json:"created_at"` // set by storage on insert, never updated
}

func (p *Product) TableName() string {
	return "products"
}
