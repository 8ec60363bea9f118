package users

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invenpos/invenpos-backend/pkg/db/models"
	"github.com/invenpos/invenpos-backend/pkg/enums"
)

// UserDTO is what the register sees of a signed in staff member.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, LastLoginAt: u.LastLoginAt}
}

// NewStaff is a staff account to create. PasswordHash must already be an
// argon2id encoded hash.
type NewStaff struct {
	Email        string
	Name         string
	PasswordHash string
	Role         enums.UserRole
}

func (n NewStaff) validate() error {
	switch {
	case NormalizeEmail(n.Email) == "":
		return fmt.Errorf("email required")
	case strings.TrimSpace(n.Name) == "":
		return fmt.Errorf("name required")
	case n.PasswordHash == "":
		return fmt.Errorf("password hash required")
	case !n.Role.IsValid():
		return fmt.Errorf("invalid role %q", n.Role)
	}
	return nil
}

func (n NewStaff) model() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(n.Email),
		Name:         strings.TrimSpace(n.Name),
		PasswordHash: n.PasswordHash,
		Role:         n.Role,
		IsActive:     true,
	}
}
