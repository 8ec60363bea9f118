// Package cart accumulates products into the register's single open order.
package cart

import (
	"sync"

	"github.com/google/uuid"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Cart owns the open order. Every method leaves the order consistent and
// returns the resulting snapshot. Safe for concurrent use.
type Cart struct {
	mu           sync.Mutex
	items        []LineItem
	customerID   string
	customerName string
	discount     decimal.Decimal
	newID        func() uuid.UUID
}

// Option customizes a Cart.
type Option func(*Cart)

// WithIDGenerator overrides how line item ids are minted.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(c *Cart) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New returns an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{
		discount: decimal.Zero,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddItem appends the product with quantity 1, or bumps the quantity of the
// row already holding it. The unit price is captured on first add only.
func (c *Cart) AddItem(p Product) Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexOfProduct(p.ID); idx >= 0 {
		c.items[idx].Quantity++
		return c.snapshotLocked()
	}

	c.items = append(c.items, LineItem{
		ID:          c.newID(),
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		Quantity:    1,
	})
	return c.snapshotLocked()
}

// SetQuantity overwrites a row's quantity. Zero or less removes the row;
// unknown ids leave the order untouched.
func (c *Cart) SetQuantity(itemID uuid.UUID, quantity int) Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(itemID)
		return c.snapshotLocked()
	}
	if idx := c.indexOfItem(itemID); idx >= 0 {
		c.items[idx].Quantity = quantity
	}
	return c.snapshotLocked()
}

// RemoveItem drops a row. Unknown ids are ignored.
func (c *Cart) RemoveItem(itemID uuid.UUID) Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(itemID)
	return c.snapshotLocked()
}

// SetDiscount replaces the flat discount. Negative amounts are rejected and
// the order is left as it was.
func (c *Cart) SetDiscount(amount decimal.Decimal) (Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount.IsNegative() {
		return c.snapshotLocked(), pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative").
			WithDetails(map[string]any{"amount": amount.String()})
	}
	c.discount = amount
	return c.snapshotLocked(), nil
}

// SetCustomer attaches customer metadata. Empty values unset the field.
func (c *Cart) SetCustomer(customerID, customerName string) Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.customerID = customerID
	c.customerName = customerName
	return c.snapshotLocked()
}

// Clear resets the cart to an empty order.
func (c *Cart) Clear() Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	return c.snapshotLocked()
}

// Snapshot returns a copy of the current order.
func (c *Cart) Snapshot() Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

// Settle hands a snapshot of the order to fn while holding the cart lock.
// The cart is cleared only when fn returns nil, so no mutation can land
// between the snapshot and the reset.
func (c *Cart) Settle(fn func(Order) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := fn(c.snapshotLocked()); err != nil {
		return err
	}
	c.resetLocked()
	return nil
}

func (c *Cart) snapshotLocked() Order {
	return buildOrder(c.items, c.customerID, c.customerName, c.discount)
}

func (c *Cart) resetLocked() {
	c.items = nil
	c.customerID = ""
	c.customerName = ""
	c.discount = decimal.Zero
}

func (c *Cart) removeLocked(itemID uuid.UUID) {
	idx := c.indexOfItem(itemID)
	if idx < 0 {
		return
	}
	c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
}

func (c *Cart) indexOfItem(itemID uuid.UUID) int {
	for i := range c.items {
		if c.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOfProduct(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
