package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/invenpos/invenpos-backend/internal/cart"
	"github.com/invenpos/invenpos-backend/pkg/enums"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
	"github.com/invenpos/invenpos-backend/pkg/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

type settler interface {
	Snapshot() cart.Order
	Settle(fn func(cart.Order) error) error
}

// Sink receives every completed transaction. Receipt rendering and the
// reprint cache hang off this.
type Sink interface {
	Name() string
	Publish(ctx context.Context, txn Transaction) error
}

type recorder interface {
	ObserveCheckout(paymentMethod string, total float64)
	IncSinkFailure(sink string)
}

// Service finalizes the open order into a Transaction.
type Service interface {
	Checkout(ctx context.Context, input Input) (*Transaction, error)
}

// Input carries the register's checkout request.
type Input struct {
	PaymentMethod  enums.PaymentMethod
	AmountTendered *decimal.Decimal
}

type service struct {
	cart    settler
	ids     IDGenerator
	sinks   []Sink
	metrics recorder
	logg    *logger.Logger
	now     func() time.Time
}

// Option customizes the checkout service.
type Option func(*service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSinks registers transaction consumers, called in order.
func WithSinks(sinks ...Sink) Option {
	return func(s *service) {
		for _, sink := range sinks {
			if sink != nil {
				s.sinks = append(s.sinks, sink)
			}
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m recorder) Option {
	return func(s *service) {
		s.metrics = m
	}
}

// NewService builds the checkout finalizer over the register cart.
func NewService(c settler, ids IDGenerator, logg *logger.Logger, opts ...Option) (Service, error) {
	if c == nil {
		return nil, fmt.Errorf("cart required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id generator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &service{
		cart: c,
		ids:  ids,
		logg: logg,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) Checkout(ctx context.Context, input Input) (*Transaction, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]any{"payment_method": input.PaymentMethod.String()})
	}
	if input.AmountTendered != nil && input.AmountTendered.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount tendered must not be negative")
	}

	// The order id comes from Redis, so it is allocated before the cart lock
	// is taken. The snapshot check keeps ordinary rejections from burning a
	// number; only a race with a concurrent edit can leave a gap.
	if _, _, err := tender(s.cart.Snapshot(), input); err != nil {
		return nil, err
	}
	orderID, err := s.ids.NextOrderID(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order id")
	}

	var txn Transaction
	err = s.cart.Settle(func(order cart.Order) error {
		tendered, change, err := tender(order, input)
		if err != nil {
			return err
		}
		txn = Transaction{
			OrderID:        orderID,
			Reference:      s.ids.Reference(orderID),
			Items:          order.Items,
			CustomerID:     order.CustomerID,
			CustomerName:   order.CustomerName,
			Totals:         order.Totals,
			PaymentMethod:  input.PaymentMethod,
			AmountTendered: tendered,
			ChangeDue:      change,
			Status:         enums.OrderStatusCompleted,
			CreatedAt:      s.now().UTC(),
		}
		return nil
	})
	if err != nil {
		s.logg.Warn(s.logg.WithOrderID(ctx, orderID), "checkout.order_id_skipped")
		return nil, err
	}

	ctx = s.logg.WithFields(s.logg.WithOrderID(ctx, txn.OrderID), map[string]any{
		"payment_method": txn.PaymentMethod.String(),
		"total":          txn.Totals.Total.String(),
		"items":          len(txn.Items),
	})
	s.logg.Info(ctx, "checkout.completed")

	if s.metrics != nil {
		s.metrics.ObserveCheckout(txn.PaymentMethod.String(), txn.Totals.Total.InexactFloat64())
	}

	if err := s.publish(ctx, txn); err != nil {
		s.logg.Error(ctx, "checkout.receipt_sinks_failed", err)
	}

	out := txn.Clone()
	return &out, nil
}

// tender checks that the order can be settled with the given payment and
// returns the recorded tender and change.
func tender(order cart.Order, input Input) (*decimal.Decimal, decimal.Decimal, error) {
	if order.IsEmpty() {
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot check out an empty order")
	}
	if input.PaymentMethod != enums.PaymentMethodCash || input.AmountTendered == nil {
		return nil, decimal.Zero, nil
	}
	if !pricing.Covers(*input.AmountTendered, order.Totals.Total) {
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount tendered is less than total").
			WithDetails(map[string]any{
				"amount_tendered": input.AmountTendered.String(),
				"total":           order.Totals.Total.String(),
			})
	}
	amount := *input.AmountTendered
	return &amount, pricing.Change(amount, order.Totals.Total), nil
}

// publish fans the transaction out to every sink. Sink failures never undo
// the sale.
func (s *service) publish(ctx context.Context, txn Transaction) error {
	var errs error
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, txn.Clone()); err != nil {
			if s.metrics != nil {
				s.metrics.IncSinkFailure(sink.Name())
			}
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return errs
}
