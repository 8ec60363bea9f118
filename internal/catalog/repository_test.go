package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/invenpos/invenpos-backend/pkg/db/models"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/migrate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var chickenBurgerID = uuid.MustParse("7d0c7f3e-5b1a-4c35-9f61-0d5d8a1b0001")

func openSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Run(context.Background(), sqlDB, "sqlite3", "up"))
	return conn
}

func TestRepositoryListSeededMenu(t *testing.T) {
	repo := NewRepository(openSeededDB(t))
	ctx := context.Background()

	all, err := repo.List(ctx, Filter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, all, 8)
	assert.Equal(t, "Caesar Salad", all[0].Name, "ordered by name")

	burgers, err := repo.List(ctx, Filter{Category: "Burgers", Limit: 50})
	require.NoError(t, err)
	require.Len(t, burgers, 2)

	hits, err := repo.List(ctx, Filter{Search: "BURGER", Limit: 50})
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	byBarcode, err := repo.List(ctx, Filter{Search: "100000000003", Limit: 50})
	require.NoError(t, err)
	require.Len(t, byBarcode, 1)
	assert.Equal(t, "Coca Cola 330ml", byBarcode[0].Name)

	none, err := repo.List(ctx, Filter{Search: "100%", Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, none, "like wildcards in user input are literal")
}

func TestRepositoryFindByID(t *testing.T) {
	repo := NewRepository(openSeededDB(t))
	ctx := context.Background()

	product, err := repo.FindByID(ctx, chickenBurgerID)
	require.NoError(t, err)
	assert.Equal(t, "Chicken Burger", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("8.99")), "price %s", product.Price)
	assert.Equal(t, 45, product.Stock)

	_, err = repo.FindByID(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRepositoryHidesInactive(t *testing.T) {
	conn := openSeededDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", chickenBurgerID.String()).Update("is_active", false).Error)

	active, err := repo.List(ctx, Filter{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, active, 7)

	all, err := repo.List(ctx, Filter{Limit: 50, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestRepositoryCategories(t *testing.T) {
	repo := NewRepository(openSeededDB(t))
	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Appetizers", "Beverages", "Burgers", "Desserts", "Salads", "Sides"}, categories)
}

func TestServicePaginatesSeededMenu(t *testing.T) {
	svc, err := NewService(NewRepository(openSeededDB(t)))
	require.NoError(t, err)
	ctx := context.Background()

	var names []string
	input := ListInput{}
	input.Limit = 3
	for pages := 0; pages < 10; pages++ {
		page, err := svc.List(ctx, input)
		require.NoError(t, err)
		for _, p := range page.Products {
			names = append(names, p.Name)
		}
		if page.NextCursor == "" {
			break
		}
		input.Cursor = page.NextCursor
	}
	require.Len(t, names, 8)
	assert.Equal(t, "Caesar Salad", names[0])
	assert.Equal(t, "Veggie Burger", names[7])
}
