package receipts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/invenpos/invenpos-backend/internal/checkout"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
	"github.com/invenpos/invenpos-backend/pkg/redis"
)

const sinkName = "receipts"

type cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	PushCapped(ctx context.Context, key string, value any, limit int64, ttl time.Duration) error
	Range(ctx context.Context, key string, limit int64) ([]string, error)
	ReceiptKey(orderID string) string
	RecentReceiptsKey() string
}

// Service renders receipts for completed sales and serves reprints from a
// Redis cache. Cached receipts expire; they are not a durable record.
type Service struct {
	cache       cache
	business    Business
	ttl         time.Duration
	recentLimit int64
	loc         *time.Location
	logg        *logger.Logger
}

// ServiceParams bundles the receipt service dependencies.
type ServiceParams struct {
	Cache       cache
	Business    Business
	TTL         time.Duration
	RecentLimit int
	Location    *time.Location
	Logger      *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Cache == nil {
		return nil, fmt.Errorf("receipt cache required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.TTL <= 0 {
		return nil, fmt.Errorf("receipt ttl must be positive")
	}
	return &Service{
		cache:       params.Cache,
		business:    params.Business,
		ttl:         params.TTL,
		recentLimit: int64(params.RecentLimit),
		loc:         params.Location,
		logg:        params.Logger,
	}, nil
}

// Name identifies the service as a checkout sink.
func (s *Service) Name() string { return sinkName }

// Publish renders txn and caches the receipt for reprint.
func (s *Service) Publish(ctx context.Context, txn checkout.Transaction) error {
	receipt := Build(txn, s.business, s.loc)
	payload, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}
	if err := s.cache.Set(ctx, s.cache.ReceiptKey(txn.OrderID), payload, s.ttl); err != nil {
		return fmt.Errorf("cache receipt: %w", err)
	}
	if err := s.cache.PushCapped(ctx, s.cache.RecentReceiptsKey(), txn.OrderID, s.recentLimit, s.ttl); err != nil {
		return fmt.Errorf("track recent receipt: %w", err)
	}
	s.logg.Debug(s.logg.WithOrderID(ctx, txn.OrderID), "receipts.cached")
	return nil
}

// Get returns the cached receipt for orderID.
func (s *Service) Get(ctx context.Context, orderID string) (*Receipt, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	raw, err := s.cache.Get(ctx, s.cache.ReceiptKey(orderID))
	if redis.IsNil(err) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found").
			WithDetails(map[string]any{"order_id": orderID})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receipt")
	}
	var receipt Receipt
	if err := json.Unmarshal([]byte(raw), &receipt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode receipt")
	}
	return &receipt, nil
}

// Recent lists cached receipts newest first, skipping any that expired.
func (s *Service) Recent(ctx context.Context, limit int) ([]Receipt, error) {
	if limit <= 0 || int64(limit) > s.recentLimit {
		limit = int(s.recentLimit)
	}
	ids, err := s.cache.Range(ctx, s.cache.RecentReceiptsKey(), int64(limit))
	if err != nil && !redis.IsNil(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent receipts")
	}
	out := make([]Receipt, 0, len(ids))
	for _, id := range ids {
		receipt, err := s.Get(ctx, id)
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *receipt)
	}
	return out, nil
}
