package checkout

import (
	"time"

	"github.com/invenpos/invenpos-backend/internal/cart"
	"github.com/invenpos/invenpos-backend/pkg/enums"
	"github.com/invenpos/invenpos-backend/pkg/pricing"
	"github.com/shopspring/decimal"
)

// Transaction is the frozen record of a completed sale.
type Transaction struct {
	OrderID        string              `json:"order_id"`
	Reference      string              `json:"reference"`
	Items          []cart.LineItem     `json:"items"`
	CustomerID     string              `json:"customer_id,omitempty"`
	CustomerName   string              `json:"customer_name,omitempty"`
	Totals         pricing.Totals      `json:"totals"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	AmountTendered *decimal.Decimal    `json:"amount_tendered,omitempty"`
	ChangeDue      decimal.Decimal     `json:"change_due"`
	Status         enums.OrderStatus   `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
}

// Clone returns a deep copy so consumers cannot alias each other's items.
func (t Transaction) Clone() Transaction {
	out := t
	out.Items = make([]cart.LineItem, len(t.Items))
	copy(out.Items, t.Items)
	if t.AmountTendered != nil {
		tendered := *t.AmountTendered
		out.AmountTendered = &tendered
	}
	return out
}
