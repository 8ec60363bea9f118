package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/invenpos/invenpos-backend/api/responses"
	"github.com/invenpos/invenpos-backend/pkg/config"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is the dependency check used by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-InvenPOS-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis. Any failure is a 503 with the
// failing dependency named in the details.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger, redisPinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-InvenPOS-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]Pinger{
			"database": dbPinger,
			"redis":    redisPinger,
		}
		failed := map[string]string{}
		for name, pinger := range checks {
			if pinger == nil {
				failed[name] = "not configured"
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				failed[name] = err.Error()
			}
		}

		if len(failed) > 0 {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failed)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
