package middleware

import (
	"net/http"

	"github.com/invenpos/invenpos-backend/api/responses"
	"github.com/invenpos/invenpos-backend/internal/access"
	"github.com/invenpos/invenpos-backend/pkg/enums"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
)

// RequireScreen rejects callers whose role may not open screen. It must run
// after Auth.
func RequireScreen(screen enums.Screen, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := enums.ParseUserRole(RoleFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing role"))
				return
			}
			if !access.Allowed(role, screen) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeForbidden, "role %s may not open %s", role, screen))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
