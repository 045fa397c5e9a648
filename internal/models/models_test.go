package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModels(t *testing.T) {
	t.Run("TableNames", func(t *testing.T) {
		assert.Equal(t, "campaigns", Campaign{}.TableName())
		assert.Equal(t, "physical_devices", PhysicalDevice{}.TableName())
		assert.Equal(t, "scans", Scan{}.TableName())
		assert.Equal(t, "qr_generations", QRGeneration{}.TableName())
	})
}
