// Package pricing holds the register's money math. Amounts are exact
// decimals end to end; rounding happens only when formatting for display.
package pricing

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to every order subtotal (8.25%).
var TaxRate = decimal.RequireFromString("0.0825")

// Totals is the derived money summary of an order.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// LineSubtotal returns unitPrice × quantity.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Calculate sums line subtotals, applies TaxRate to the sum and subtracts
// the flat discount. The total never drops below zero.
func Calculate(lineSubtotals []decimal.Decimal, discount decimal.Decimal) Totals {
	subtotal := decimal.Sum(decimal.Zero, lineSubtotals...)
	tax := subtotal.Mul(TaxRate)
	total := decimal.Max(decimal.Zero, subtotal.Add(tax).Sub(discount))
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}

// Change returns the cash due back to the customer, or zero when the
// tendered amount does not cover the total.
func Change(tendered, total decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, tendered.Sub(total))
}

// Covers reports whether tendered pays for total in full.
func Covers(tendered, total decimal.Decimal) bool {
	return tendered.GreaterThanOrEqual(total)
}
