// Package receipts renders completed transactions into receipt documents
// and keeps them available for reprint.
package receipts

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/invenpos/invenpos-backend/internal/checkout"
	"github.com/invenpos/invenpos-backend/pkg/config"
	"github.com/invenpos/invenpos-backend/pkg/pricing"
	"github.com/shopspring/decimal"
)

const (
	guestCustomer = "Guest"
	dateLayout    = "Jan 2, 2006"
	timeLayout    = "3:04 PM"
	footerScan    = "Scan QR code for digital receipt"
	footerThanks  = "Thank you for your business! Please come again"
)

// Business is the header printed on every receipt.
type Business struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// BusinessFromConfig reads the receipt header from config.
func BusinessFromConfig(cfg config.ReceiptConfig) Business {
	return Business{
		Name:    cfg.BusinessName,
		Address: cfg.BusinessAddress,
		Phone:   cfg.BusinessPhone,
		Email:   cfg.BusinessEmail,
	}
}

// Line is one printed item row. Amounts are rounded for display only.
type Line struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// Receipt is the printable view of a Transaction. Transaction carries the
// exact amounts; Lines and the display fields are for the printer.
type Receipt struct {
	OrderID       string               `json:"order_id"`
	Business      Business             `json:"business"`
	CustomerName  string               `json:"customer_name"`
	Date          string               `json:"date"`
	Time          string               `json:"time"`
	Lines         []Line               `json:"lines"`
	Subtotal      string               `json:"subtotal"`
	Tax           string               `json:"tax"`
	Discount      string               `json:"discount,omitempty"`
	Total         string               `json:"total"`
	PaymentMethod string               `json:"payment_method"`
	Tendered      string               `json:"amount_tendered,omitempty"`
	Change        string               `json:"change_due,omitempty"`
	QRCodeData    string               `json:"qr_code_data"`
	Footer        []string             `json:"footer"`
	Transaction   checkout.Transaction `json:"transaction"`
}

// Build renders txn under the business header. Times print in loc; nil
// means UTC.
func Build(txn checkout.Transaction, business Business, loc *time.Location) Receipt {
	if loc == nil {
		loc = time.UTC
	}
	created := txn.CreatedAt.In(loc)

	customer := strings.TrimSpace(txn.CustomerName)
	if customer == "" {
		customer = guestCustomer
	}

	lines := make([]Line, 0, len(txn.Items))
	for _, item := range txn.Items {
		lines = append(lines, Line{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   pricing.FormatCurrency(item.UnitPrice),
			Subtotal:    pricing.FormatCurrency(item.Subtotal()),
		})
	}

	r := Receipt{
		OrderID:       txn.OrderID,
		Business:      business,
		CustomerName:  customer,
		Date:          created.Format(dateLayout),
		Time:          created.Format(timeLayout),
		Lines:         lines,
		Subtotal:      pricing.FormatCurrency(txn.Totals.Subtotal),
		Tax:           pricing.FormatCurrency(txn.Totals.Tax),
		Total:         pricing.FormatCurrency(txn.Totals.Total),
		PaymentMethod: titleCase(txn.PaymentMethod.String()),
		QRCodeData:    txn.Reference,
		Footer:        []string{footerScan, footerThanks},
		Transaction:   txn.Clone(),
	}
	if txn.Totals.Discount.GreaterThan(decimal.Zero) {
		r.Discount = pricing.FormatCurrency(txn.Totals.Discount.Neg())
	}
	if txn.AmountTendered != nil {
		r.Tendered = pricing.FormatCurrency(*txn.AmountTendered)
		r.Change = pricing.FormatCurrency(txn.ChangeDue)
	}
	return r
}

// Text renders the receipt as fixed width lines for a thermal printer.
// Widths count runes; long text wraps so no line exceeds width.
func (r Receipt) Text(width int) string {
	if width < 32 {
		width = 32
	}
	var b strings.Builder
	rule := strings.Repeat("-", width)

	phone := r.Business.Phone
	if strings.TrimSpace(phone) != "" {
		phone = "Tel: " + phone
	}
	for _, s := range []string{r.Business.Name, r.Business.Address, phone, r.Business.Email} {
		b.WriteString(center(s, width))
	}
	b.WriteString(rule + "\n")
	b.WriteString(pair("Order #:", r.OrderID, width))
	b.WriteString(pair("Date:", r.Date, width))
	b.WriteString(pair("Time:", r.Time, width))
	b.WriteString(pair("Customer:", r.CustomerName, width))
	b.WriteString(rule + "\n")

	for _, line := range r.Lines {
		b.WriteString(pair(strconv.Itoa(line.Quantity)+" x "+line.ProductName, line.Subtotal, width))
	}
	b.WriteString(rule + "\n")
	b.WriteString(pair("Subtotal:", r.Subtotal, width))
	b.WriteString(pair("Tax:", r.Tax, width))
	if r.Discount != "" {
		b.WriteString(pair("Discount:", r.Discount, width))
	}
	b.WriteString(pair("TOTAL:", r.Total, width))
	b.WriteString(pair("Payment Method:", r.PaymentMethod, width))
	if r.Tendered != "" {
		b.WriteString(pair("Tendered:", r.Tendered, width))
		b.WriteString(pair("Change:", r.Change, width))
	}
	b.WriteString(rule + "\n")
	for _, s := range r.Footer {
		b.WriteString(center(s, width))
	}
	return b.String()
}

// pair right-aligns value after label. A label too long for the row wraps,
// with value on the first row.
func pair(label, value string, width int) string {
	value = truncate(value, width-2)
	avail := min(width-utf8.RuneCountInString(value)-1, width-2)
	rows := wrap(label, avail)
	if len(rows) == 0 {
		rows = []string{""}
	}
	var b strings.Builder
	gap := width - utf8.RuneCountInString(rows[0]) - utf8.RuneCountInString(value)
	b.WriteString(rows[0] + strings.Repeat(" ", gap) + value + "\n")
	for _, row := range rows[1:] {
		b.WriteString("  " + row + "\n")
	}
	return b.String()
}

// center wraps s to width and centers each row. Blank input prints nothing.
func center(s string, width int) string {
	var b strings.Builder
	for _, row := range wrap(s, width) {
		pad := (width - utf8.RuneCountInString(row)) / 2
		b.WriteString(strings.Repeat(" ", pad) + row + "\n")
	}
	return b.String()
}

// wrap splits s on whitespace into rows of at most width runes. Words
// longer than a row are split.
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var rows []string
	var row []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		if len(row) > 0 && len(row)+1+len(w) > width {
			rows = append(rows, string(row))
			row = row[:0]
		}
		for len(w) > width {
			if len(row) > 0 {
				rows = append(rows, string(row))
				row = row[:0]
			}
			rows = append(rows, string(w[:width]))
			w = w[width:]
		}
		if len(w) == 0 {
			continue
		}
		if len(row) > 0 {
			row = append(row, ' ')
		}
		row = append(row, w...)
	}
	if len(row) > 0 {
		rows = append(rows, string(row))
	}
	return rows
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max < 0 || len(r) <= max {
		return s
	}
	return string(r[:max])
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
