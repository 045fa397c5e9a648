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

	"github.com/joao1975-rgb/qr-tracking/internal/config"
	"github.com/joao1975-rgb/qr-tracking/internal/handlers"
	"github.com/joao1975-rgb/qr-tracking/internal/repository"
	"github.com/joao1975-rgb/qr-tracking/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
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

	// 3. Initialize Database
	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 4. Initialize Redis (optional, campaign cache only)
	rdb, err := repository.InitRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn("Failed to connect to Redis, campaign cache disabled", "error", err)
		rdb = nil
	}

	// 5. Run Migrations
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, ""); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	} else {
		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto migration failed: %w", err)
		}
	}

	// 6. Initialize Services
	campaigns := repository.NewCampaignStore(db)
	devices := repository.NewDeviceStore(db)
	scans := repository.NewScanStore(db)
	tracker := services.NewTrackerService(scans, logger)
	qrService := services.NewQRService()
	backup := services.NewBackupService(cfg, logger)
	rateLimiter := services.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, logger)

	// 7. Initialize Handler
	h := handlers.NewHandler(cfg, logger, db, rdb, campaigns, devices, scans, tracker, qrService, backup)

	// 8. Setup Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := h.SetupRouter(rateLimiter, "web/templates/*", "./web/static")

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Background Context for workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	// Start Background Workers
	go tracker.Start(workerCtx)
	go backup.Start(workerCtx)
	rateLimiter.StartCleanup(10 * time.Minute)

	// Initializing server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "tracking_mode", cfg.TrackingMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	// Graceful shutdown timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	workerCancel()
	// Wait a tiny bit for the scan worker to drain
	time.Sleep(100 * time.Millisecond)

	logger.Info("Server exiting")
	return nil
}
