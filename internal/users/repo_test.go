package users

import (
	"context"
	"testing"
	"time"

	"github.com/invenpos/invenpos-backend/pkg/config"
	"github.com/invenpos/invenpos-backend/pkg/enums"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
	"github.com/invenpos/invenpos-backend/pkg/migrate"
	"github.com/invenpos/invenpos-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var cheapPassword = config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Run(context.Background(), sqlDB, "sqlite3", "up"))
	return NewRepository(conn)
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, NewStaff{
		Email:        " Cashier@Example.com ",
		Name:         "Cashier User",
		PasswordHash: "hash",
		Role:         enums.UserRoleCashier,
	})
	require.NoError(t, err)
	assert.Equal(t, "cashier@example.com", created.Email)

	found, err := repo.FindByEmail(ctx, "CASHIER@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.UserRoleCashier, found.Role)
	assert.True(t, found.IsActive)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cashier User", byID.Name)

	_, err = repo.Create(ctx, NewStaff{Email: "cashier@example.com", Name: "Dup", PasswordHash: "x", Role: enums.UserRoleAdmin})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = repo.Create(ctx, NewStaff{Email: "manager@example.com", Name: "Manager", PasswordHash: "x", Role: "manager"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "unknown roles are rejected before insert")
}

func TestRepositoryUpdates(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, NewStaff{Email: "admin@example.com", Name: "Admin", PasswordHash: "old", Role: enums.UserRoleAdmin})
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "new"))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(at))
	assert.Equal(t, "new", reloaded.PasswordHash)
}

func TestSeedDemoUsers(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	seed := config.SeedConfig{
		DemoUsers:       true,
		AdminEmail:      "admin@example.com",
		AdminPassword:   "password",
		CashierEmail:    "cashier@example.com",
		CashierPassword: "password",
	}

	require.NoError(t, SeedDemoUsers(ctx, repo, seed, cheapPassword, logger.Nop()))
	require.NoError(t, SeedDemoUsers(ctx, repo, seed, cheapPassword, logger.Nop()), "seeding is idempotent")

	admin, err := repo.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, admin.Role)
	ok, err := security.VerifyPassword("password", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	cashier, err := repo.FindByEmail(ctx, "cashier@example.com")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleCashier, cashier.Role)
}

func TestSeedDemoUsersDisabled(t *testing.T) {
	repo := openTestRepo(t)
	require.NoError(t, SeedDemoUsers(context.Background(), repo, config.SeedConfig{AdminEmail: "admin@example.com"}, cheapPassword, nil))
	_, err := repo.FindByEmail(context.Background(), "admin@example.com")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
