package repository

import (
	"testing"

	"github.com/joao1975-rgb/qr-tracking/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCampaignStore(t *testing.T) {
	db := setupTestDB(t)
	store := NewCampaignStore(db)

	t.Run("Resolve Not Found", func(t *testing.T) {
		_, err := store.Resolve("missing")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("Create and Resolve", func(t *testing.T) {
		campaign := models.Campaign{
			CampaignCode: "summer24",
			Client:       "Acme",
			Destination:  "https://brand.example/promo",
			Active:       true,
		}
		assert.NoError(t, store.Create(&campaign))

		got, err := store.Resolve("summer24")
		assert.NoError(t, err)
		assert.Equal(t, "Acme", got.Client)
		assert.Equal(t, "https://brand.example/promo", got.Destination)
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := store.Exists("summer24")
		assert.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.Exists("missing")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Partial Update Touches Only Supplied Fields", func(t *testing.T) {
		updated, err := store.Update("summer24", CampaignPatch{
			Destination: strPtr("https://brand.example/v2"),
		})
		assert.NoError(t, err)
		assert.Equal(t, "https://brand.example/v2", updated.Destination)
		assert.Equal(t, "Acme", updated.Client)
		assert.True(t, updated.Active)
	})

	t.Run("Update Empty Patch", func(t *testing.T) {
		_, err := store.Update("summer24", CampaignPatch{})
		assert.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("Update Not Found", func(t *testing.T) {
		_, err := store.Update("missing", CampaignPatch{Active: boolPtr(false)})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("Deactivate Keeps Row", func(t *testing.T) {
		applied, err := store.Deactivate("summer24")
		assert.NoError(t, err)
		assert.True(t, applied)

		got, err := store.Resolve("summer24")
		assert.NoError(t, err)
		assert.False(t, got.Active)
	})

	t.Run("Deactivate Not Found", func(t *testing.T) {
		applied, err := store.Deactivate("missing")
		assert.NoError(t, err)
		assert.False(t, applied)
	})
}

func TestDeviceStore(t *testing.T) {
	db := setupTestDB(t)
	store := NewDeviceStore(db)

	device := models.PhysicalDevice{
		DeviceID:   "screen-001",
		DeviceName: "Lobby Screen",
		Location:   "Lobby",
		Venue:      "HQ",
		Active:     true,
	}
	assert.NoError(t, store.Create(&device))

	t.Run("Resolve", func(t *testing.T) {
		got, err := store.Resolve("screen-001")
		assert.NoError(t, err)
		assert.Equal(t, "Lobby Screen", got.DeviceName)
	})

	t.Run("Partial Update", func(t *testing.T) {
		updated, err := store.Update("screen-001", DevicePatch{Venue: strPtr("Annex")})
		assert.NoError(t, err)
		assert.Equal(t, "Annex", updated.Venue)
		assert.Equal(t, "Lobby Screen", updated.DeviceName)
	})

	t.Run("Hard Delete", func(t *testing.T) {
		applied, err := store.Delete("screen-001")
		assert.NoError(t, err)
		assert.True(t, applied)

		_, err = store.Resolve("screen-001")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("Delete Not Found", func(t *testing.T) {
		applied, err := store.Delete("screen-001")
		assert.NoError(t, err)
		assert.False(t, applied)
	})
}
