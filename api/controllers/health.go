package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/loyalteez/saas-demo-backend/api/responses"
	"github.com/loyalteez/saas-demo-backend/pkg/config"
	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
)

const envHeader = "X-Loyalteez-Env"

const readyTimeout = 2 * time.Second

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(context.Context) error
}

// RewardsStatus reports whether reward tracking has a usable brand.
type RewardsStatus interface {
	Configured() bool
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings redis when one is wired. Missing brand configuration is
// reported but does not fail readiness; those requests answer 500 on their own.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient Pinger, rewards RewardsStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			err := redisClient.Ping(ctx)
			cancel()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}
		if rewards != nil {
			if rewards.Configured() {
				checks["rewards"] = "ok"
			} else {
				checks["rewards"] = "unconfigured"
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
