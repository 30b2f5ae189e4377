package controllers

import (
	"net/http"

	"github.com/zaidansari/attarmart-backend/api/responses"
	"github.com/zaidansari/attarmart-backend/pkg/config"
	"github.com/zaidansari/attarmart-backend/pkg/db"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
	"github.com/zaidansari/attarmart-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AttarMart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AttarMart-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = "unavailable"
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "unavailable"
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
