package controllers

import (
	"net/http"

	"github.com/invenpos/invenpos-backend/api/middleware"
	"github.com/invenpos/invenpos-backend/api/responses"
	"github.com/invenpos/invenpos-backend/api/validators"
	"github.com/invenpos/invenpos-backend/internal/access"
	"github.com/invenpos/invenpos-backend/internal/auth"
	"github.com/invenpos/invenpos-backend/pkg/enums"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
)

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the caller's session. It runs behind the auth
// middleware, which puts the token jti in the context.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}
		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type meResponse struct {
	UserID  string         `json:"user_id"`
	Role    enums.UserRole `json:"role"`
	Screens []enums.Screen `json:"screens"`
	Landing enums.Screen   `json:"landing,omitempty"`
}

// AuthMe reports who the caller is and which screens the role may open.
func AuthMe(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing role"))
			return
		}
		landing, _ := access.Landing(role)
		responses.WriteSuccess(w, meResponse{
			UserID:  middleware.UserIDFromContext(r.Context()),
			Role:    role,
			Screens: access.Screens(role),
			Landing: landing,
		})
	}
}
