package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/invenpos/invenpos-backend/internal/cart"
	"github.com/invenpos/invenpos-backend/pkg/db/models"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/pagination"
)

type productReader interface {
	List(ctx context.Context, f Filter) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// Service exposes read-only catalog lookups.
type Service interface {
	List(ctx context.Context, input ListInput) (*ProductPage, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Categories(ctx context.Context) ([]string, error)
	Reference(ctx context.Context, id uuid.UUID) (cart.Product, error)
}

// ListInput carries listing query parameters.
type ListInput struct {
	Category string
	Search   string
	pagination.Params
}

type service struct {
	repo productReader
}

func NewService(repo productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ProductPage, error) {
	after, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Limit)

	rows, err := s.repo.List(ctx, Filter{
		Category: input.Category,
		Search:   input.Search,
		Limit:    limit,
		After:    after,
	})
	if err != nil {
		return nil, err
	}

	rows, next := pagination.Trim(rows, limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{Key: p.Name, ID: p.ID}
	})
	page := &ProductPage{Products: make([]ProductDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		page.Products = append(page.Products, toDTO(row))
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*product)
	return &dto, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Reference resolves the id, name and price the register snapshots into
// the open order. Inactive products cannot be sold.
func (s *service) Reference(ctx context.Context, id uuid.UUID) (cart.Product, error) {
	if id == uuid.Nil {
		return cart.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return cart.Product{}, err
	}
	if !product.IsActive {
		return cart.Product{}, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available for sale").
			WithDetails(map[string]any{"product_id": id.String()})
	}
	return cart.Product{
		ID:    product.ID.String(),
		Name:  product.Name,
		Price: product.Price,
	}, nil
}
