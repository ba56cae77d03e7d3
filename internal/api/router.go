// Package api provides the HTTP API for Wanderlist.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/api/handler"
	"github.com/wanderlist/wanderlist/internal/api/middleware"
	"github.com/wanderlist/wanderlist/internal/auth"
	"github.com/wanderlist/wanderlist/internal/backup"
	"github.com/wanderlist/wanderlist/internal/client/resilience"
	"github.com/wanderlist/wanderlist/internal/enrich"
	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/internal/notification"
	"github.com/wanderlist/wanderlist/internal/radar"
	"github.com/wanderlist/wanderlist/internal/route"
	"github.com/wanderlist/wanderlist/internal/settings"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	AuthService         *auth.Service
	ItemService         *item.Service
	NotificationService *notification.Service
	SettingsService     *settings.Service
	BackupService       *backup.Service
	PlannerManager      *route.Manager
	RadarManager        *radar.Manager
	Enricher            enrich.Provider
	ProviderRegistry    *resilience.Registry
	DB                  handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "wanderlist-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ProviderRegistry, cfg.DB)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	itemHandler := handler.NewItemHandler(cfg.ItemService)
	notificationHandler := handler.NewNotificationHandler(cfg.NotificationService)
	settingsHandler := handler.NewSettingsHandler(cfg.SettingsService)
	backupHandler := handler.NewBackupHandler(cfg.BackupService)
	plannerHandler := handler.NewPlannerHandler(cfg.PlannerManager)
	radarHandler := handler.NewRadarHandler(cfg.RadarManager, cfg.Logger)
	draftHandler := handler.NewDraftHandler(cfg.Enricher)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByUser(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/token", authHandler.ExchangeToken)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)

			// Items
			r.Route("/items", func(r chi.Router) {
				r.Get("/", itemHandler.ListItems)
				r.Post("/", itemHandler.CreateItem)
				r.Route("/{itemId}", func(r chi.Router) {
					r.Get("/", itemHandler.GetItem)
					r.Put("/", itemHandler.UpdateItem)
					r.Delete("/", itemHandler.DeleteItem)
					r.Put("/completion", itemHandler.SetCompletion)

					// Planner session for this item
					r.Route("/planner", func(r chi.Router) {
						r.Post("/", plannerHandler.OpenPlanner)
						r.Get("/", plannerHandler.GetPlanner)
						r.Delete("/", plannerHandler.ClosePlanner)
						r.Post("/stops", plannerHandler.AddStop)
						r.Route("/stops/{index}", func(r chi.Router) {
							r.Delete("/", plannerHandler.RemoveStop)
							r.Post("/move", plannerHandler.MoveStop)
							r.Put("/completion", plannerHandler.SetStopCompletion)
						})
						r.Put("/start-location", plannerHandler.SetStartLocation)
						r.Put("/current-location", plannerHandler.SetCurrentLocation)
						r.Get("/stats", plannerHandler.GetStats)
						r.Get("/navigation-url", plannerHandler.GetNavigationURL)
						r.Post("/save", plannerHandler.SavePlanner)

						// AI-backed operations - expensive compute
						r.With(expensiveRateLimit).Post("/regenerate", plannerHandler.Regenerate)
						r.With(expensiveRateLimit).Post("/suggest", plannerHandler.SuggestStops)
						r.With(expensiveRateLimit).Post("/optimize", plannerHandler.Optimize)
					})
				})
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.ListNotifications)
				r.Delete("/", notificationHandler.ClearNotifications)
				r.Post("/read-all", notificationHandler.MarkAllRead)
				r.Post("/{notificationId}/read", notificationHandler.MarkRead)
			})

			// Settings
			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.UpdateSettings)

			// Cloud backup
			r.Post("/backups", backupHandler.RunBackup)
			r.Get("/backups/latest", backupHandler.RestoreBackup)

			// AI draft enrichment - expensive compute
			r.With(expensiveRateLimit).Post("/drafts", draftHandler.CreateDraft)

			// Proximity radar
			r.Route("/radar", func(r chi.Router) {
				r.Get("/", radarHandler.GetStatus)
				r.Post("/start", radarHandler.Start)
				r.Post("/stop", radarHandler.Stop)
				r.Get("/stream", radarHandler.Stream)
			})
		})
	})

	return r
}
