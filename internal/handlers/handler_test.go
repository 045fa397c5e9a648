package handlers

import (
	"context"
	"log/slog"
	"os"

	"github.com/joao1975-rgb/qr-tracking/internal/config"
	"github.com/joao1975-rgb/qr-tracking/internal/models"
	"github.com/joao1975-rgb/qr-tracking/internal/repository"
	"github.com/joao1975-rgb/qr-tracking/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func setupTestHandler() (*Handler, *gorm.DB) {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	db.AutoMigrate(&models.Campaign{}, &models.PhysicalDevice{}, &models.Scan{}, &models.QRGeneration{})

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{
		TrackingMode:         config.TrackingModeRedirect,
		RedirectDelaySeconds: 3,
		BaseURL:              "http://qr.example.com",
	}

	campaigns := repository.NewCampaignStore(db)
	devices := repository.NewDeviceStore(db)
	scans := repository.NewScanStore(db)
	tracker := services.NewTrackerService(scans, logger)
	go tracker.Start(context.Background())
	qr := services.NewQRService()
	backup := services.NewBackupService(cfg, logger)

	// Use a dummy redis client (not connected) with no retries
	rdb := redis.NewClient(&redis.Options{
		Addr:       "localhost:1",
		MaxRetries: -1,
	})

	h := NewHandler(cfg, logger, db, rdb, campaigns, devices, scans, tracker, qr, backup)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil, "../../web/templates/*.html", "")
}

func seedCampaign(db *gorm.DB, code, client, destination string, active bool) models.Campaign {
	campaign := models.Campaign{
		CampaignCode: code,
		Client:       client,
		Destination:  destination,
		Active:       active,
	}
	db.Create(&campaign)
	return campaign
}

func seedDevice(db *gorm.DB, id, name, location, venue string) models.PhysicalDevice {
	device := models.PhysicalDevice{
		DeviceID:   id,
		DeviceName: name,
		DeviceType: "poster",
		Location:   location,
		Venue:      venue,
		Active:     true,
	}
	db.Create(&device)
	return device
}
