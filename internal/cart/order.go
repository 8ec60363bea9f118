package cart

import (
	"github.com/google/uuid"
	"github.com/invenpos/invenpos-backend/pkg/pricing"
	"github.com/shopspring/decimal"
)

// Product is the catalog reference the register adds to an order.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// LineItem is one product row in the open order. ID identifies the row and
// stays stable across quantity edits.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Subtotal is unit price times quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return pricing.LineSubtotal(l.UnitPrice, l.Quantity)
}

// Order is a consistent snapshot of the open order. Totals are derived from
// Items and Discount at the time the snapshot was taken.
type Order struct {
	Items        []LineItem      `json:"items"`
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	Totals       pricing.Totals  `json:"totals"`
}

// IsEmpty reports whether the order has no line items.
func (o Order) IsEmpty() bool {
	return len(o.Items) == 0
}

// ItemCount is the number of units across all rows.
func (o Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// Item returns the row with the given id.
func (o Order) Item(itemID uuid.UUID) (LineItem, bool) {
	for _, item := range o.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return LineItem{}, false
}

// ItemForProduct returns the row holding productID.
func (o Order) ItemForProduct(productID string) (LineItem, bool) {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

func buildOrder(items []LineItem, customerID, customerName string, discount decimal.Decimal) Order {
	copied := make([]LineItem, len(items))
	copy(copied, items)

	subtotals := make([]decimal.Decimal, 0, len(copied))
	for _, item := range copied {
		subtotals = append(subtotals, item.Subtotal())
	}

	return Order{
		Items:        copied,
		CustomerID:   customerID,
		CustomerName: customerName,
		Discount:     discount,
		Totals:       pricing.Calculate(subtotals, discount),
	}
}
