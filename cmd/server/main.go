package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ghiemer/qr-redirector/internal/config"
	"github.com/ghiemer/qr-redirector/internal/handlers"
	"github.com/ghiemer/qr-redirector/internal/repository"
	"github.com/ghiemer/qr-redirector/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	var handler slog.Handler
	if cfg.AppEnv == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 3. Run Migrations (postgres only; the json backend and sqlite manage
	// their own schema)
	if cfg.StorageBackend == "database" && strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, ""); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// 4. Initialize Storage
	store, err := repository.NewStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "backend", cfg.StorageBackend)

	// 5. Initialize Redis (optional route cache)
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = repository.InitRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Failed to connect to Redis, continuing without cache", "error", err)
			rdb = nil
		}
	}

	// 6. Initialize Services
	tracker := services.NewClickTracker(store, logger, cfg.ClickCounterEnabled)
	auditLogger := services.NewAuditLogger(cfg.LogDir, cfg.LoggingEnabled, cfg.LogRetentionDays, logger)
	trackWorker := services.NewTrackWorker(tracker, auditLogger, logger)
	resolver := services.NewResolver(store, rdb, trackWorker, logger)
	routeService := services.NewRouteService(store, rdb, logger)
	qrService := services.NewQRService()
	rateLimiter := services.NewIPRateLimiter(5, 10, logger)

	// 7. Initialize Handler
	h := handlers.NewHandler(cfg, logger, resolver, routeService, auditLogger, qrService)

	// 8. Setup Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := h.SetupRouter(rateLimiter)

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	// Background Workers
	go trackWorker.Start(workerCtx)
	go auditLogger.StartJanitor(workerCtx)
	rateLimiter.StartCleanup(workerCtx, 10*time.Minute)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	workerCancel()
	// Let in-flight visits drain before exiting.
	trackWorker.ProcessPending()

	logger.Info("Server exiting")
	return nil
}
