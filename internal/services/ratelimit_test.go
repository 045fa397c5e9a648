package services

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("Allows Within Burst", func(t *testing.T) {
		limiter := NewIPRateLimiter(1, 3, logger)
		assert.True(t, limiter.Allow("1.2.3.4"))
		assert.True(t, limiter.Allow("1.2.3.4"))
		assert.True(t, limiter.Allow("1.2.3.4"))
	})

	t.Run("Blocks After Burst", func(t *testing.T) {
		limiter := NewIPRateLimiter(1, 1, logger)
		assert.True(t, limiter.Allow("5.6.7.8"))
		assert.False(t, limiter.Allow("5.6.7.8"))
	})

	t.Run("Independent Per IP", func(t *testing.T) {
		limiter := NewIPRateLimiter(1, 1, logger)
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	})
}
