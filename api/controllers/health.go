package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/pkg/config"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CardChase-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings postgres and redis; either failing answers 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger, redisPinger pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CardChase-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "ok"}
		var failed *pkgerrors.Error
		for name, p := range map[string]pinger{"database": dbPinger, "redis": redisPinger} {
			if p == nil {
				checks[name] = "not configured"
				continue
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "unavailable"
				failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable")
			}
		}
		if failed != nil {
			responses.WriteError(ctx, logg, w, failed.WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
