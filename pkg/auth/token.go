package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/invenpos/invenpos-backend/pkg/config"
)

var (
	ErrSigningConfig = errors.New("jwt signing config incomplete")
	ErrClaims        = errors.New("access token claims invalid")
)

// clockSkew tolerates register terminals whose clocks drift from the API.
const clockSkew = 30 * time.Second

var signingMethod = jwt.SigningMethodHS256

func checkSigningConfig(cfg config.JWTConfig) error {
	switch {
	case cfg.Secret == "":
		return fmt.Errorf("%w: secret missing", ErrSigningConfig)
	case cfg.Issuer == "":
		return fmt.Errorf("%w: issuer missing", ErrSigningConfig)
	case cfg.Expiration() <= 0:
		return fmt.Errorf("%w: expiration must be positive", ErrSigningConfig)
	}
	return nil
}

// MintAccessToken signs an HS256 token for payload valid from now for the
// configured lifetime. The token id becomes the session key.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := checkSigningConfig(cfg); err != nil {
		return "", err
	}
	if payload.UserID == uuid.Nil {
		return "", fmt.Errorf("%w: user id missing", ErrClaims)
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("%w: role %q", ErrClaims, payload.Role)
	}

	id := strings.TrimSpace(payload.JTI)
	if id == "" {
		id = uuid.NewString()
	}

	claims := AccessTokenClaims{
		UserID: payload.UserID,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    cfg.Issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration())),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature, issuer and expiry, then checks that
// the subject, user id, role and token id are coherent.
func ParseAccessToken(cfg config.JWTConfig, raw string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: secret missing", ErrSigningConfig)
	}

	claims := &AccessTokenClaims{}
	keyFunc := func(*jwt.Token) (any, error) { return []byte(cfg.Secret), nil }
	if _, err := jwt.ParseWithClaims(raw, claims, keyFunc,
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	); err != nil {
		return nil, err
	}

	switch {
	case claims.ID == "":
		return nil, fmt.Errorf("%w: token id missing", ErrClaims)
	case !claims.Role.IsValid():
		return nil, fmt.Errorf("%w: role %q", ErrClaims, claims.Role)
	case claims.UserID == uuid.Nil || claims.Subject != claims.UserID.String():
		return nil, fmt.Errorf("%w: subject does not match user", ErrClaims)
	}
	return claims, nil
}
