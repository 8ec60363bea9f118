package auth

import (
	"time"

	"github.com/invenpos/invenpos-backend/internal/users"
	"github.com/invenpos/invenpos-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token and the screens the user may open.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *users.UserDTO `json:"user"`
	Screens     []enums.Screen `json:"screens"`
	Landing     enums.Screen   `json:"landing,omitempty"`
}
