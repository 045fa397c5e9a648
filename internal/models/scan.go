package models

import (
	"time"
)

// Scan is one recorded visit resulting from a tracking request. Campaign and
// device fields are denormalized copies captured at scan time, so later edits
// to campaigns or devices do not rewrite history. Enrichment columns stay
// NULL until the landing page script reports them; SessionID is the join key
// for those late-arriving updates.
type Scan struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"uniqueIndex;not null;size:64" json:"session_id"`

	// Campaign context
	CampaignCode string `gorm:"not null;size:100;index" json:"campaign_code"`
	Client       string `gorm:"size:255" json:"client"`
	Destination  string `gorm:"type:text" json:"destination"`

	// Physical device context
	DeviceID   string `gorm:"size:100;index" json:"device_id"`
	DeviceName string `gorm:"size:255" json:"device_name"`
	Location   string `gorm:"size:255" json:"location"`
	Venue      string `gorm:"size:255" json:"venue"`

	// Visitor classification, derived from the User-Agent header
	UserDeviceType  string `gorm:"size:50" json:"user_device_type"`
	Browser         string `gorm:"size:100" json:"browser"`
	OperatingSystem string `gorm:"size:100" json:"operating_system"`

	// Client-reported enrichment, NULL until the device-data callback
	ScreenResolution *string  `gorm:"size:20" json:"screen_resolution,omitempty"`
	ViewportSize     *string  `gorm:"size:20" json:"viewport_size,omitempty"`
	Timezone         *string  `gorm:"size:100" json:"timezone,omitempty"`
	Language         *string  `gorm:"size:20" json:"language,omitempty"`
	Platform         *string  `gorm:"size:100" json:"platform,omitempty"`
	ConnectionType   *string  `gorm:"size:20" json:"connection_type,omitempty"`
	CPUCores         *int     `gorm:"column:cpu_cores" json:"cpu_cores,omitempty"`
	DevicePixelRatio *float64 `json:"device_pixel_ratio,omitempty"`

	// Marketing attribution, passed through from the tracking URL
	UTMSource   string `gorm:"column:utm_source;size:255;index" json:"utm_source"`
	UTMMedium   string `gorm:"column:utm_medium;size:255" json:"utm_medium"`
	UTMCampaign string `gorm:"column:utm_campaign;size:255" json:"utm_campaign"`
	UTMTerm     string `gorm:"column:utm_term;size:255" json:"utm_term"`
	UTMContent  string `gorm:"column:utm_content;size:255" json:"utm_content"`

	// Network
	IPAddress string `gorm:"size:45" json:"ip_address"`
	UserAgent string `gorm:"type:text" json:"user_agent"`
	Country   string `gorm:"size:100" json:"country"`
	City      string `gorm:"size:100" json:"city"`

	// Timing and outcome
	ScanTimestamp     time.Time  `gorm:"not null;index" json:"scan_timestamp"`
	RedirectCompleted bool       `gorm:"default:false" json:"redirect_completed"`
	RedirectTimestamp *time.Time `json:"redirect_timestamp,omitempty"`
	DurationSeconds   *float64   `json:"duration_seconds,omitempty"`
}

func (Scan) TableName() string {
	return "scans"
}
