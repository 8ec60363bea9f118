package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/invenpos/invenpos-backend/api/controllers"
	"github.com/invenpos/invenpos-backend/api/middleware"
	"github.com/invenpos/invenpos-backend/internal/auth"
	"github.com/invenpos/invenpos-backend/internal/catalog"
	checkoutsvc "github.com/invenpos/invenpos-backend/internal/checkout"
	"github.com/invenpos/invenpos-backend/internal/pos"
	"github.com/invenpos/invenpos-backend/pkg/auth/session"
	"github.com/invenpos/invenpos-backend/pkg/config"
	"github.com/invenpos/invenpos-backend/pkg/enums"
	"github.com/invenpos/invenpos-backend/pkg/logger"
	"github.com/invenpos/invenpos-backend/pkg/metrics"
	"github.com/invenpos/invenpos-backend/pkg/redis"
)

// RedisStore is the slice of the redis client the HTTP layer uses for
// readiness, login throttling and idempotency.
type RedisStore interface {
	redis.Pinger
	redis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Services groups the domain services behind the routes.
type Services struct {
	Auth     auth.Service
	Catalog  catalog.Service
	POS      pos.Service
	Checkout checkoutsvc.Service
	Receipts controllers.ReceiptReader
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisStore RedisStore,
	sessionManager session.AccessSessionChecker,
	services Services,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		middleware.ByClientIP(cfg.AuthRateLimit.LoginIPLimit),
		middleware.ByJSONField("email", cfg.AuthRateLimit.LoginEmailLimit),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisStore))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(loginPolicy, redisStore, logg)).Post("/auth/login", controllers.AuthLogin(services.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))

			r.Post("/auth/logout", controllers.AuthLogout(services.Auth, logg))
			r.Get("/me", controllers.AuthMe(logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.CatalogList(services.Catalog, logg))
				r.Get("/categories", controllers.CatalogCategories(services.Catalog, logg))
				r.Get("/{productId}", controllers.CatalogGet(services.Catalog, logg))
			})

			r.Route("/pos", func(r chi.Router) {
				r.Use(middleware.RequireScreen(enums.ScreenPOS, logg))
				// Idempotency keys on the full route pattern, which is only
				// known once the endpoint has matched.
				idempotent := middleware.Idempotency(redisStore, logg)

				r.Route("/order", func(r chi.Router) {
					r.Get("/", controllers.POSOrder(services.POS, logg))
					r.Delete("/", controllers.POSClear(services.POS, logg))
					r.With(idempotent).Post("/items", controllers.POSAddItem(services.POS, logg))
					r.Patch("/items/{itemId}", controllers.POSSetQuantity(services.POS, logg))
					r.Delete("/items/{itemId}", controllers.POSRemoveItem(services.POS, logg))
					r.Put("/discount", controllers.POSSetDiscount(services.POS, logg))
					r.Put("/customer", controllers.POSSetCustomer(services.POS, logg))
				})
				r.With(idempotent).Post("/checkout", controllers.Checkout(services.Checkout, logg))
			})

			r.Route("/receipts", func(r chi.Router) {
				r.Use(middleware.RequireScreen(enums.ScreenPOS, logg))
				r.Get("/", controllers.ReceiptRecent(services.Receipts, logg))
				r.Get("/{orderId}", controllers.ReceiptGet(services.Receipts, logg))
			})
		})
	})

	return r
}
