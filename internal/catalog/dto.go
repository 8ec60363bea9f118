package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/invenpos/invenpos-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the register facing view of a product. Cost is back office
// data and stays out of it.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	Barcode     *string         `json:"barcode,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsActive    bool            `json:"is_active"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		LowStock:    p.Stock <= p.MinStock,
		Barcode:     p.Barcode,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		UpdatedAt:   p.UpdatedAt,
	}
}
