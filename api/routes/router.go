package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/controllers"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/middleware"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/internal/catalog"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/internal/pricing"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/internal/variations"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/config"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/logger"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/metrics"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *redis.Client
	Catalog   catalog.Service
	Variation variations.Service
	Pricing   pricing.Service
	Quotes    *metrics.QuoteMetrics
	Registry  *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	quotePolicy := middleware.NewRateLimitPolicy(
		"quote",
		cfg.RateLimit.QuoteWindow,
		cfg.RateLimit.QuoteIPLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.StoreScope(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Post("/", controllers.CreateProduct(deps.Catalog, logg))

			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(deps.Catalog, logg))
				r.Patch("/", controllers.UpdateProduct(deps.Catalog, logg))
				r.Delete("/", controllers.DeleteProduct(deps.Catalog, logg))
				r.Put("/tiers", controllers.ReplaceTiers(deps.Catalog, logg))

				r.With(middleware.RateLimit(quotePolicy, deps.Redis, logg)).
					Post("/quote", controllers.QuoteProduct(deps.Pricing, deps.Quotes, logg))

				r.Route("/variations", func(r chi.Router) {
					r.Post("/session", controllers.OpenVariationSession(deps.Variation, logg))

					r.Route("/session/{sessionID}", func(r chi.Router) {
						r.Delete("/", controllers.DiscardVariationSession(deps.Variation, logg))
						r.Post("/commit", controllers.CommitVariationSession(deps.Variation, deps.Quotes, logg))
						r.Get("/statistics", controllers.CombinationStatistics(deps.Variation, logg))
						r.Post("/generate", controllers.GenerateCombinations(deps.Variation, logg))
						r.Post("/bulk", controllers.BulkEditCombinations(deps.Variation, logg))

						r.Route("/combinations", func(r chi.Router) {
							r.Post("/", controllers.AddCombination(deps.Variation, logg))
							r.Post("/remove", controllers.RemoveCombination(deps.Variation, logg))
							r.Post("/toggle", controllers.ToggleCombination(deps.Variation, logg))
							r.Patch("/{variationID}", controllers.UpdateCombination(deps.Variation, logg))
						})
					})
				})
			})
		})
	})

	return r
}
