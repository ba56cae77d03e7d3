// Package main provides the entrypoint for the Wanderlist background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/backup"
	"github.com/wanderlist/wanderlist/internal/database"
	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/internal/notification"
	"github.com/wanderlist/wanderlist/internal/reminder"
	"github.com/wanderlist/wanderlist/internal/telemetry"
	"github.com/wanderlist/wanderlist/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wanderlist-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Wanderlist worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.ConfigFromEnv(serviceName, Version))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	// Storage follows the same convention as the API server: Postgres
	// when DB_HOST is set, in-memory stores otherwise.
	var (
		itemRepo         item.Repository
		notificationRepo notification.Repository
		backupStore      backup.Store
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
			Str("database", dbConfig.Database).
			Msg("database connected")

		itemRepo = item.NewPostgresRepository(pool)
		notificationRepo = notification.NewPostgresRepository(pool)
		backupStore = backup.NewPostgresStore(pool)
	} else {
		log.Warn().Msg("DB_HOST not set, using in-memory storage")
		itemRepo = item.NewInMemoryRepository()
		notificationRepo = notification.NewInMemoryRepository()
		backupStore = backup.NewInMemoryStore()
	}

	// Reminder markers live in Redis so the once-per-window guarantee
	// survives restarts. Falls back to process memory without it.
	var markers reminder.MarkerStore
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		defer redisClient.Close()

		if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
			log.Fatal().Err(pingErr).Str("addr", redisAddr).Msg("failed to connect to redis")
		}
		log.Info().Str("addr", redisAddr).Msg("redis connected")
		markers = reminder.NewRedisMarkerStore(redisClient)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, reminder markers are in-memory only")
		markers = reminder.NewInMemoryMarkerStore()
	}

	userID := os.Getenv("WANDERLIST_USER_ID")
	if userID == "" {
		userID = "usr_local"
	}

	itemService := item.NewService(itemRepo)
	notificationService := notification.NewService(notificationRepo)
	sink := notification.NewLogSink(log)

	checker := reminder.NewChecker(reminder.CheckerConfig{
		Items:    itemService,
		Markers:  markers,
		Notifier: sink,
		Log:      notificationService,
		Logger:   log,
	})

	backupService := backup.NewService(backup.ServiceConfig{
		Items:  itemService,
		Store:  backupStore,
		Logger: log,
	})

	jobs := worker.NewJobs(worker.JobsConfig{
		Reminders:     checker,
		Backups:       backupService,
		DefaultUserID: userID,
		Logger:        log,
	})

	scheduler, err := worker.NewScheduler(worker.SchedulerConfig{
		Jobs:             jobs,
		ReminderSchedule: os.Getenv("REMINDER_SCHEDULE"),
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	scheduler.Start()
	log.Info().Msg("reminder scheduler started")

	// Pub/Sub delivers on-demand jobs (cloud backup requests) when
	// configured. The cron scheduler alone covers reminder checks.
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
		if subscription == "" {
			subscription = "wanderlist-jobs"
		}

		pubsubHandler, psErr := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			Jobs:             jobs,
			Logger:           log,
		})
		if psErr != nil {
			log.Fatal().Err(psErr).Msg("failed to create pub/sub handler")
		}
		defer pubsubHandler.Close()

		go func() {
			log.Info().
				Str("project", projectID).
				Str("subscription", subscription).
				Msg("pub/sub receiver started")
			if recvErr := pubsubHandler.Start(ctx); recvErr != nil {
				log.Error().Err(recvErr).Msg("pub/sub receiver stopped")
			}
		}()
	} else {
		log.Info().Msg("PUBSUB_PROJECT_ID not set, running scheduled jobs only")
	}

	// Health check server for the platform probe
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if serveErr := server.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Fatal().Err(serveErr).Msg("health server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
