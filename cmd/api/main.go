// Package main provides the entrypoint for the Wanderlist API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/api"
	"github.com/wanderlist/wanderlist/internal/api/handler"
	"github.com/wanderlist/wanderlist/internal/api/middleware"
	"github.com/wanderlist/wanderlist/internal/auth"
	"github.com/wanderlist/wanderlist/internal/backup"
	"github.com/wanderlist/wanderlist/internal/client/resilience"
	"github.com/wanderlist/wanderlist/internal/database"
	"github.com/wanderlist/wanderlist/internal/enrich"
	"github.com/wanderlist/wanderlist/internal/enrich/gemini"
	"github.com/wanderlist/wanderlist/internal/geocode/nominatim"
	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/internal/notification"
	"github.com/wanderlist/wanderlist/internal/radar"
	"github.com/wanderlist/wanderlist/internal/route"
	"github.com/wanderlist/wanderlist/internal/settings"
	"github.com/wanderlist/wanderlist/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wanderlist-api"

	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Wanderlist API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.ConfigFromEnv(serviceName, Version))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to Postgres when configured, otherwise run on in-memory
	// stores. Memory mode loses all data on restart.
	var (
		itemRepo         item.Repository
		notificationRepo notification.Repository
		settingsRepo     settings.Repository
		backupStore      backup.Store
		dbPinger         handler.Pinger
	)
	if os.Getenv("DB_HOST") != "" {
		dbConfig := database.ConfigFromEnv()
		pool, connErr := database.Connect(ctx, dbConfig)
		if connErr != nil {
			log.Fatal().Err(connErr).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		itemRepo = item.NewPostgresRepository(pool)
		notificationRepo = notification.NewPostgresRepository(pool)
		settingsRepo = settings.NewPostgresRepository(pool)
		backupStore = backup.NewPostgresStore(pool)
		dbPinger = pool
	} else {
		log.Warn().Msg("DB_HOST not set, using in-memory storage")
		itemRepo = item.NewInMemoryRepository()
		notificationRepo = notification.NewInMemoryRepository()
		settingsRepo = settings.NewInMemoryRepository()
		backupStore = backup.NewInMemoryStore()
	}

	// Initialize JWT and device-key auth
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	deviceKey := os.Getenv("WANDERLIST_DEVICE_KEY")
	if deviceKey == "" {
		log.Warn().Msg("WANDERLIST_DEVICE_KEY not set - token exchange will reject all requests")
	}

	userID := os.Getenv("WANDERLIST_USER_ID")
	if userID == "" {
		userID = "usr_local"
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.wanderlist.app",
		Audience:   "wanderlist-api",
	})
	authService := auth.NewService(auth.ServiceConfig{
		JWT:       jwtService,
		DeviceKey: deviceKey,
		UserID:    userID,
		Logger:    log,
	})
	log.Info().Msg("auth service initialized")

	// Initialize domain services
	itemService := item.NewService(itemRepo)
	notificationService := notification.NewService(notificationRepo)
	settingsService := settings.NewService(settingsRepo)
	backupService := backup.NewService(backup.ServiceConfig{
		Items:  itemService,
		Store:  backupStore,
		Logger: log,
	})

	// Upstream providers with health tracking and request metrics
	registry := resilience.NewRegistry()

	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	geocoder := nominatim.NewClient(nominatim.ClientConfig{
		UserAgent: "wanderlist-api/" + Version,
		Registry:  registry,
		Metrics:   providerMetrics,
		Logger:    log,
	})

	var enricher enrich.Provider = enrich.Disabled{}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		geminiClient, geminiErr := gemini.NewClient(ctx, gemini.Config{
			APIKey:  apiKey,
			Model:   os.Getenv("GEMINI_MODEL"),
			Metrics: providerMetrics,
			Logger:  log,
		})
		if geminiErr != nil {
			log.Fatal().Err(geminiErr).Msg("failed to initialize Gemini client")
		}
		enricher = geminiClient
		log.Info().Msg("Gemini enrichment initialized")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set - enrichment endpoints will report unavailable")
	}

	plannerManager := route.NewManager(route.ManagerConfig{
		Items:    itemService,
		Geocoder: geocoder,
		Enricher: enricher,
		Logger:   log,
	})

	sink := notification.NewLogSink(log)
	radarManager := radar.NewManager(radar.ManagerConfig{
		Items:    itemService,
		Ranges:   settingsService,
		Notifier: sink,
		Speech:   sink,
		Log:      notificationService,
		Logger:   log,
	})

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,

		AuthService:         authService,
		ItemService:         itemService,
		NotificationService: notificationService,
		SettingsService:     settingsService,
		BackupService:       backupService,
		PlannerManager:      plannerManager,
		RadarManager:        radarManager,
		Enricher:            enricher,
		ProviderRegistry:    registry,
		DB:                  dbPinger,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
