package services

import (
	"context"
	"log/slog"

	"github.com/joao1975-rgb/qr-tracking/internal/metrics"
	"github.com/joao1975-rgb/qr-tracking/internal/models"
	"github.com/joao1975-rgb/qr-tracking/internal/repository"
)

// TrackerService persists scan rows off the request path. The redirect has
// already been promised to the visitor by the time a scan reaches the worker,
// so insert failures are logged and counted, never surfaced.
type TrackerService struct {
	scans       *repository.ScanStore
	logger      *slog.Logger
	scanChannel chan models.Scan
}

func NewTrackerService(scans *repository.ScanStore, logger *slog.Logger) *TrackerService {
	return &TrackerService{
		scans:       scans,
		logger:      logger,
		scanChannel: make(chan models.Scan, 1000),
	}
}

func (s *TrackerService) Start(ctx context.Context) {
	s.logger.Info("Scan worker starting")
	for {
		select {
		case scan := <-s.scanChannel:
			s.classify(&scan)

			if err := s.scans.Insert(&scan); err != nil {
				metrics.ScanInsertFailuresTotal.Inc()
				s.logger.Error("Failed to record scan",
					"campaign", scan.CampaignCode, "session_id", scan.SessionID, "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Scan worker stopping")
			return
		}
	}
}

// RecordScanAsync queues the scan for the background worker. Non-blocking: a
// full queue drops the event rather than delaying the redirect.
func (s *TrackerService) RecordScanAsync(scan models.Scan) {
	select {
	case s.scanChannel <- scan:
		metrics.ScansRecordedTotal.WithLabelValues(scan.CampaignCode).Inc()
	default:
		metrics.ScansDroppedTotal.Inc()
		s.logger.Warn("Scan channel full, dropping scan event",
			"campaign", scan.CampaignCode, "session_id", scan.SessionID)
	}
}

// RecordScan classifies and inserts inline. Landing mode needs the row id
// before the page renders, so it cannot defer the write.
func (s *TrackerService) RecordScan(scan *models.Scan) error {
	s.classify(scan)
	if err := s.scans.Insert(scan); err != nil {
		metrics.ScanInsertFailuresTotal.Inc()
		return err
	}
	metrics.ScansRecordedTotal.WithLabelValues(scan.CampaignCode).Inc()
	return nil
}

func (s *TrackerService) classify(scan *models.Scan) {
	c := ClassifyUserAgent(scan.UserAgent)
	scan.UserDeviceType = c.DeviceType
	scan.Browser = c.Browser
	scan.OperatingSystem = c.OperatingSystem
}
