package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/joao1975-rgb/qr-tracking/internal/models"
	"github.com/joao1975-rgb/qr-tracking/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTrackerTest(t *testing.T) (*TrackerService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, repository.AutoMigrate(db))

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewTrackerService(repository.NewScanStore(db), logger), db
}

func TestTrackerService_RecordScan(t *testing.T) {
	tracker, db := setupTrackerTest(t)

	scan := models.Scan{
		SessionID:     "sync-sess",
		CampaignCode:  "summer24",
		UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		ScanTimestamp: time.Now(),
	}
	assert.NoError(t, tracker.RecordScan(&scan))
	assert.NotZero(t, scan.ID)

	var got models.Scan
	assert.NoError(t, db.Where("session_id = ?", "sync-sess").First(&got).Error)
	assert.Equal(t, "Desktop", got.UserDeviceType)
	assert.Contains(t, got.Browser, "Chrome")
}

func TestTrackerService_RecordScanAsync(t *testing.T) {
	tracker, db := setupTrackerTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tracker.Start(ctx)

	tracker.RecordScanAsync(models.Scan{
		SessionID:     "async-sess",
		CampaignCode:  "summer24",
		UserAgent:     "Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Mobile/15E148 Safari/604.1",
		ScanTimestamp: time.Now(),
	})

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&models.Scan{}).Where("session_id = ?", "async-sess").Count(&count)
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)

	var got models.Scan
	assert.NoError(t, db.Where("session_id = ?", "async-sess").First(&got).Error)
	assert.Equal(t, "Mobile", got.UserDeviceType)
}
