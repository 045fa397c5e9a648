package handlers

import (
	"log/slog"

	"github.com/joao1975-rgb/qr-tracking/internal/config"
	"github.com/joao1975-rgb/qr-tracking/internal/repository"
	"github.com/joao1975-rgb/qr-tracking/internal/services"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handler struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *gorm.DB
	rdb       *redis.Client
	campaigns *repository.CampaignStore
	devices   *repository.DeviceStore
	scans     *repository.ScanStore
	tracker   *services.TrackerService
	qrService *services.QRService
	backup    *services.BackupService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	rdb *redis.Client,
	campaigns *repository.CampaignStore,
	devices *repository.DeviceStore,
	scans *repository.ScanStore,
	tracker *services.TrackerService,
	qrService *services.QRService,
	backup *services.BackupService,
) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		rdb:       rdb,
		campaigns: campaigns,
		devices:   devices,
		scans:     scans,
		tracker:   tracker,
		qrService: qrService,
		backup:    backup,
	}
}
