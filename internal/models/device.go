package models

import (
	"time"
)

// PhysicalDevice is a screen, stand or printed display carrying a QR code.
// Scans reference it by DeviceID as a loose foreign key: a scan may point at
// a device that has since been removed.
type PhysicalDevice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DeviceID    string    `gorm:"uniqueIndex;not null;size:100" json:"device_id"`
	DeviceName  string    `gorm:"size:255" json:"device_name"`
	DeviceType  string    `gorm:"size:100" json:"device_type"`
	Location    string    `gorm:"size:255" json:"location"`
	Venue       string    `gorm:"size:255" json:"venue"`
	Description string    `gorm:"type:text" json:"description"`
	Active      bool      `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PhysicalDevice) TableName() string {
	return "physical_devices"
}
