package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/bugie-app/bugie-backend/api/responses"
	"github.com/bugie-app/bugie-backend/pkg/config"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bugie-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency and fails with 503 on the first miss.
func HealthReady(cfg *config.Config, checks map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bugie-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status := map[string]string{"status": "ready"}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unreachable").WithDetails(map[string]string{"dependency": name}))
				return
			}
			status[name] = "ok"
		}
		responses.WriteSuccess(w, status)
	}
}
