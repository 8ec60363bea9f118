// Package pos drives the register's open order on behalf of HTTP callers.
package pos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/invenpos/invenpos-backend/internal/cart"
	"github.com/invenpos/invenpos-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	OpAddItem     = "add_item"
	OpSetQuantity = "set_quantity"
	OpRemoveItem  = "remove_item"
	OpSetDiscount = "set_discount"
	OpSetCustomer = "set_customer"
	OpClear       = "clear"
)

type productResolver interface {
	Reference(ctx context.Context, id uuid.UUID) (cart.Product, error)
}

type orderStore interface {
	AddItem(p cart.Product) cart.Order
	SetQuantity(itemID uuid.UUID, quantity int) cart.Order
	RemoveItem(itemID uuid.UUID) cart.Order
	SetDiscount(amount decimal.Decimal) (cart.Order, error)
	SetCustomer(customerID, customerName string) cart.Order
	Clear() cart.Order
	Snapshot() cart.Order
}

type mutationRecorder interface {
	IncMutation(op string)
}

// Service exposes open order operations. Every call returns the order as
// it stands afterwards.
type Service interface {
	Order(ctx context.Context) cart.Order
	AddProduct(ctx context.Context, productID uuid.UUID) (cart.Order, error)
	SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (cart.Order, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) (cart.Order, error)
	SetDiscount(ctx context.Context, amount decimal.Decimal) (cart.Order, error)
	SetCustomer(ctx context.Context, input CustomerInput) (cart.Order, error)
	Clear(ctx context.Context) cart.Order
}

// CustomerInput attaches optional customer metadata to the order.
type CustomerInput struct {
	CustomerID   string
	CustomerName string
}

// ServiceParams bundles the dependencies of the register service.
type ServiceParams struct {
	Cart     orderStore
	Products productResolver
	Logger   *logger.Logger
	Metrics  mutationRecorder
}

type service struct {
	cart     orderStore
	products productResolver
	logg     *logger.Logger
	metrics  mutationRecorder
}

func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cart:     params.Cart,
		products: params.Products,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) Order(context.Context) cart.Order {
	return s.cart.Snapshot()
}

func (s *service) AddProduct(ctx context.Context, productID uuid.UUID) (cart.Order, error) {
	product, err := s.products.Reference(ctx, productID)
	if err != nil {
		return s.cart.Snapshot(), err
	}
	order := s.cart.AddItem(product)
	s.record(ctx, OpAddItem, order, map[string]any{"product_id": product.ID})
	return order, nil
}

// SetQuantity forwards to the cart. A row removed by another request is a
// no-op, so a stale register screen never sees an error.
func (s *service) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (cart.Order, error) {
	order := s.cart.SetQuantity(itemID, quantity)
	s.record(ctx, OpSetQuantity, order, map[string]any{"item_id": itemID.String(), "quantity": quantity})
	return order, nil
}

func (s *service) RemoveItem(ctx context.Context, itemID uuid.UUID) (cart.Order, error) {
	order := s.cart.RemoveItem(itemID)
	s.record(ctx, OpRemoveItem, order, map[string]any{"item_id": itemID.String()})
	return order, nil
}

func (s *service) SetDiscount(ctx context.Context, amount decimal.Decimal) (cart.Order, error) {
	order, err := s.cart.SetDiscount(amount)
	if err != nil {
		return order, err
	}
	s.record(ctx, OpSetDiscount, order, map[string]any{"discount": amount.String()})
	return order, nil
}

func (s *service) SetCustomer(ctx context.Context, input CustomerInput) (cart.Order, error) {
	order := s.cart.SetCustomer(input.CustomerID, input.CustomerName)
	s.record(ctx, OpSetCustomer, order, map[string]any{"customer_id": input.CustomerID})
	return order, nil
}

func (s *service) Clear(ctx context.Context) cart.Order {
	order := s.cart.Clear()
	s.record(ctx, OpClear, order, nil)
	return order
}

func (s *service) record(ctx context.Context, op string, order cart.Order, fields map[string]any) {
	if s.metrics != nil {
		s.metrics.IncMutation(op)
	}
	all := map[string]any{
		"op":    op,
		"items": order.ItemCount(),
		"total": order.Totals.Total.String(),
	}
	for k, v := range fields {
		all[k] = v
	}
	s.logg.Debug(s.logg.WithFields(ctx, all), "pos.order_mutated")
}
