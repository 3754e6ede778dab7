package controllers

import (
	"net/http"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/responses"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/config"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db"
	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/logger"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopFlow-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, database db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopFlow-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
