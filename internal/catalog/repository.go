package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/invenpos/invenpos-backend/pkg/db/models"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Filter narrows a product listing.
type Filter struct {
	Category        string
	Search          string
	IncludeInactive bool
	Limit           int
	After           *pagination.Cursor
}

// Repository reads products through GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns products ordered by name then id. It fetches one row past
// the limit so callers can detect another page.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR barcode = ?)", pattern, strings.TrimSpace(f.Search))
	}
	if f.After != nil {
		q = q.Where("(name > ?) OR (name = ? AND id > ?)", f.After.Key, f.After.Key, f.After.ID.String())
	}

	var products []models.Product
	if err := q.Order("name ASC").Order("id ASC").Limit(pagination.LimitWithBuffer(f.Limit)).Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &product, nil
}

// Categories lists distinct categories of active products.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
