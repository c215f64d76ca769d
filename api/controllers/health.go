package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/superbox-backend/api/responses"
	"github.com/angelmondragon/superbox-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type Pinger interface {
	Ping(context.Context) error
}

// BreakerReporter exposes the backend circuit breaker state.
type BreakerReporter interface {
	BreakerState() string
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Superbox-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis. The breaker state is reported
// but an open breaker does not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, cache Pinger, backend BreakerReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Superbox-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false
		for name, p := range map[string]Pinger{"database": db, "redis": cache} {
			if p == nil {
				checks[name] = "skipped"
				continue
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				failed = true
				if logg != nil {
					logg.Error(logg.WithField(ctx, "component", name), "readiness check failed", err)
				}
				continue
			}
			checks[name] = "up"
		}
		if backend != nil {
			checks["backend_breaker"] = backend.BreakerState()
		}

		if failed {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "not ready").WithDetails(checks))
			return
		}
		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
