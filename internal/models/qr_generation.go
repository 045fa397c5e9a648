package models

import (
	"time"
)

// QRGeneration is an append-only audit row written on each QR image render.
type QRGeneration struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CampaignID       *uint     `json:"campaign_id,omitempty"`
	PhysicalDeviceID *uint     `json:"physical_device_id,omitempty"`
	QRSize           int       `gorm:"column:qr_size" json:"qr_size"`
	GeneratedBy      string    `gorm:"size:255" json:"generated_by"`
	GeneratedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"generated_at"`
}

func (QRGeneration) TableName() string {
	return "qr_generations"
}
