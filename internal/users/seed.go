package users

import (
	"context"
	"fmt"

	"github.com/invenpos/invenpos-backend/pkg/config"
	"github.com/invenpos/invenpos-backend/pkg/db/models"
	"github.com/invenpos/invenpos-backend/pkg/enums"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
	"github.com/invenpos/invenpos-backend/pkg/security"
)

type seedStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, staff NewStaff) (*models.User, error)
}

// SeedDemoUsers creates the demo admin and cashier accounts when they do
// not exist yet. Existing accounts are left untouched.
func SeedDemoUsers(ctx context.Context, store seedStore, seed config.SeedConfig, pw config.PasswordConfig, logg *logger.Logger) error {
	if !seed.DemoUsers {
		return nil
	}
	demo := []struct {
		email    string
		password string
		name     string
		role     enums.UserRole
	}{
		{seed.AdminEmail, seed.AdminPassword, "Admin User", enums.UserRoleAdmin},
		{seed.CashierEmail, seed.CashierPassword, "Cashier User", enums.UserRoleCashier},
	}

	for _, d := range demo {
		if d.email == "" {
			continue
		}
		_, err := store.FindByEmail(ctx, d.email)
		if err == nil {
			continue
		}
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return err
		}

		hash, err := security.HashPassword(d.password, pw)
		if err != nil {
			return fmt.Errorf("hash demo password for %s: %w", d.email, err)
		}
		if _, err := store.Create(ctx, NewStaff{
			Email:        d.email,
			Name:         d.name,
			PasswordHash: hash,
			Role:         d.role,
		}); err != nil {
			return err
		}
		if logg != nil {
			logg.Info(logg.WithFields(ctx, map[string]any{"email": NormalizeEmail(d.email), "role": d.role.String()}), "users.demo_seeded")
		}
	}
	return nil
}
