package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable menu item.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:text;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	Category    string          `gorm:"column:category;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Cost        decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null;default:0"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	MinStock    int             `gorm:"column:min_stock;not null;default:0"`
	Barcode     *string         `gorm:"column:barcode"`
	ImageURL    string          `gorm:"column:image_url;not null;default:''"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
