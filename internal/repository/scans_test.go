package repository

import (
	"testing"
	"time"

	"github.com/joao1975-rgb/qr-tracking/internal/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func newScan(sessionID string) models.Scan {
	return models.Scan{
		SessionID:     sessionID,
		CampaignCode:  "summer24",
		Client:        "Acme",
		Destination:   "https://brand.example/promo",
		UTMSource:     "flyer",
		IPAddress:     "203.0.113.7",
		UserAgent:     "test-agent",
		ScanTimestamp: time.Now().UTC(),
	}
}

func TestScanStore_InsertAndFind(t *testing.T) {
	db := setupTestDB(t)
	store := NewScanStore(db)

	scan := newScan("sess-1")
	assert.NoError(t, store.Insert(&scan))
	assert.NotZero(t, scan.ID)

	got, err := store.FindBySession("sess-1")
	assert.NoError(t, err)
	assert.Equal(t, "summer24", got.CampaignCode)
	assert.Equal(t, "Acme", got.Client)
	assert.Equal(t, "flyer", got.UTMSource)
	assert.False(t, got.RedirectCompleted)
	assert.Nil(t, got.CPUCores)
	assert.Nil(t, got.Timezone)
	assert.Nil(t, got.DurationSeconds)
}

func TestScanStore_UpdateEnrichment(t *testing.T) {
	db := setupTestDB(t)
	store := NewScanStore(db)

	scan := newScan("sess-2")
	assert.NoError(t, store.Insert(&scan))

	t.Run("Unknown Session Is Not An Error", func(t *testing.T) {
		applied, err := store.UpdateEnrichment("no-such-session", Enrichment{CPUCores: intPtr(4)})
		assert.NoError(t, err)
		assert.False(t, applied)

		var count int64
		db.Model(&models.Scan{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Applies Enrichment Columns", func(t *testing.T) {
		tz := "America/Caracas"
		applied, err := store.UpdateEnrichment("sess-2", Enrichment{
			CPUCores: intPtr(8),
			Timezone: &tz,
		})
		assert.NoError(t, err)
		assert.True(t, applied)

		got, err := store.FindBySession("sess-2")
		assert.NoError(t, err)
		assert.Equal(t, 8, *got.CPUCores)
		assert.Equal(t, "America/Caracas", *got.Timezone)
		assert.Equal(t, "summer24", got.CampaignCode)
	})

	t.Run("Last Write Wins", func(t *testing.T) {
		applied, err := store.UpdateEnrichment("sess-2", Enrichment{CPUCores: intPtr(2)})
		assert.NoError(t, err)
		assert.True(t, applied)

		got, _ := store.FindBySession("sess-2")
		assert.Equal(t, 2, *got.CPUCores)
		assert.Nil(t, got.Timezone)
	})
}

func TestScanStore_UpdateCompletion(t *testing.T) {
	db := setupTestDB(t)
	store := NewScanStore(db)

	start := time.Now().UTC().Add(-10 * time.Second)
	scan := newScan("sess-3")
	scan.ScanTimestamp = start
	assert.NoError(t, store.Insert(&scan))

	t.Run("Unknown Session", func(t *testing.T) {
		applied, err := store.UpdateCompletion("no-such-session", time.Now())
		assert.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("Computes Duration", func(t *testing.T) {
		applied, err := store.UpdateCompletion("sess-3", start.Add(3200*time.Millisecond))
		assert.NoError(t, err)
		assert.True(t, applied)

		got, err := store.FindBySession("sess-3")
		assert.NoError(t, err)
		assert.True(t, got.RedirectCompleted)
		assert.NotNil(t, got.RedirectTimestamp)
		assert.InDelta(t, 3.2, *got.DurationSeconds, 0.01)
	})

	t.Run("Idempotent Reapply", func(t *testing.T) {
		applied, err := store.UpdateCompletion("sess-3", start.Add(5*time.Second))
		assert.NoError(t, err)
		assert.True(t, applied)

		got, _ := store.FindBySession("sess-3")
		assert.True(t, got.RedirectCompleted)
		assert.InDelta(t, 5.0, *got.DurationSeconds, 0.01)
	})
}

func TestScanStore_List(t *testing.T) {
	db := setupTestDB(t)
	store := NewScanStore(db)

	for i, code := range []string{"summer24", "summer24", "winter24"} {
		scan := newScan("list-sess-" + string(rune('a'+i)))
		scan.CampaignCode = code
		scan.DeviceID = "screen-001"
		assert.NoError(t, store.Insert(&scan))
	}

	t.Run("Filter By Campaign", func(t *testing.T) {
		scans, total, err := store.List(ScanFilter{CampaignCode: "summer24"})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, scans, 2)
	})

	t.Run("Limit And Offset", func(t *testing.T) {
		scans, total, err := store.List(ScanFilter{Limit: 1, Offset: 2})
		assert.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, scans, 1)
	})
}
