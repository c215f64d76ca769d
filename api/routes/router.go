package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/superbox-backend/api/controllers"
	"github.com/angelmondragon/superbox-backend/api/middleware"
	"github.com/angelmondragon/superbox-backend/internal/cart"
	"github.com/angelmondragon/superbox-backend/internal/checkout"
	"github.com/angelmondragon/superbox-backend/internal/profile"
	"github.com/angelmondragon/superbox-backend/internal/submissions"
	"github.com/angelmondragon/superbox-backend/pkg/config"
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
	"github.com/angelmondragon/superbox-backend/pkg/redis"
)

// Dependencies are the collaborators the HTTP surface needs.
type Dependencies struct {
	DB              controllers.Pinger
	Redis           controllers.Pinger
	Idempotency     redis.IdempotencyStore
	Backend         controllers.BreakerReporter
	Gatherer        prometheus.Gatherer
	CartService     cart.Service
	CheckoutService checkout.Service
	ProfileService  profile.Service
	Submissions     submissions.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.Backend))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	idempotent := middleware.Idempotency(deps.Idempotency, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/customers/me", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(deps.ProfileService, logg))
			r.Put("/", controllers.ProfileComplete(deps.ProfileService, logg))
		})

		r.Route("/w/{tenant}", func(r chi.Router) {
			r.Use(middleware.Tenant(logg))
			r.Use(middleware.RequireRole(logg, enums.ActorRoleCustomer, enums.ActorRoleAdmin))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.CartService, logg))
				r.With(idempotent).Put("/", controllers.CartReplace(deps.CartService, logg))
				r.Post("/items/{itemId}/quantity", controllers.CartChangeQuantity(deps.CartService, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveLine(deps.CartService, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.With(idempotent).Post("/", controllers.CheckoutStart(deps.CheckoutService, logg))
				r.Get("/{sessionId}", controllers.CheckoutFetch(deps.CheckoutService, logg))
				r.Put("/{sessionId}/method", controllers.CheckoutSelectMethod(deps.CheckoutService, logg))
				r.With(idempotent).Post("/{sessionId}/submit", controllers.CheckoutSubmit(deps.CheckoutService, logg))
			})

			r.Get("/payments", controllers.PaymentHistory(deps.Submissions, logg))
		})
	})

	return r
}
