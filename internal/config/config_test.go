package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Default Values", func(t *testing.T) {
		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "local", cfg.AppEnv)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, TrackingModeRedirect, cfg.TrackingMode)
		assert.Equal(t, 3, cfg.RedirectDelaySeconds)
		assert.Equal(t, 30, cfg.BackupRetentionDays)
	})

	t.Run("Environment Variables", func(t *testing.T) {
		os.Setenv("PORT", "9999")
		os.Setenv("TRACKING_MODE", "landing")
		defer os.Unsetenv("PORT")
		defer os.Unsetenv("TRACKING_MODE")

		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "9999", cfg.Port)
		assert.Equal(t, TrackingModeLanding, cfg.TrackingMode)
	})
}
