package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is implemented by every dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backoffice-Env", cfg.App.Env)
		responses.WriteSuccess(w, "live", map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, redis. redis may be nil.
func HealthReady(cfg *config.Config, logg *logger.Logger, database Pinger, redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backoffice-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "disabled"}
		var errs error
		if database == nil {
			checks["database"] = "missing"
			errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
		} else if err := database.Ping(ctx); err != nil {
			checks["database"] = "down"
			errs = multierr.Append(errs, err)
		}
		if redis != nil {
			checks["redis"] = "ok"
			if err := redis.Ping(ctx); err != nil {
				checks["redis"] = "down"
				errs = multierr.Append(errs, err)
			}
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, "ready", map[string]any{"status": "ready", "checks": checks})
	}
}
