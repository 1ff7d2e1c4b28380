package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"argus/internal/api/handlers"
	apimiddleware "argus/internal/api/middleware"
	"argus/internal/config"
	"argus/internal/infrastructure/cache"
	"argus/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)

		pub.Get("/api/v1/stats", r.handlers.Stats.Get)
	})

	// WebSocket endpoint for real-time scan events
	router.Get("/ws/events", r.handlers.Streaming.HandleWebSocket)

	// API v1 routes (authenticated)
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(apimiddleware.APIKeyAuth(r.config.Auth.APIKey))

		// Device inventory
		api.Post("/inventory/report", r.handlers.Inventory.Report)

		// Scan trigger and results
		api.Post("/scan", r.handlers.Scan.Trigger)
		api.Get("/scan/results", r.handlers.Scan.Results)
		api.Get("/scan/results/{package}", r.handlers.Scan.Result)

		// Recommendations
		api.Get("/recommendations", r.handlers.Recommendations.List)

		// User feedback
		api.Post("/feedback/import", r.handlers.Feedback.Import)
		api.Post("/feedback/{package}", r.handlers.Feedback.Record)

		// Exclusions
		api.Get("/exclusions", r.handlers.Exclusions.List)
		api.Post("/exclusions/{package}", r.handlers.Exclusions.Add)
		api.Delete("/exclusions/{package}", r.handlers.Exclusions.Remove)

		// Privacy report
		api.Get("/privacy/report", r.handlers.Privacy.Report)

		// Security optimization advice
		api.Post("/optimize/{package}", r.handlers.Optimize.Optimize)

		// Streaming introspection
		api.Get("/streaming/stats", r.handlers.Streaming.GetStats)
	})

	return router
}
