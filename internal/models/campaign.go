package models

import (
	"time"
)

// Campaign maps a stable campaign code to a redirect destination.
// Campaigns are never hard-deleted; DELETE deactivates them so historical
// scans keep a valid join target.
type Campaign struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CampaignCode string    `gorm:"uniqueIndex;not null;size:100" json:"campaign_code"`
	Client       string    `gorm:"not null;size:255" json:"client"`
	Destination  string    `gorm:"not null;type:text" json:"destination"`
	Description  string    `gorm:"type:text" json:"description"`
	Active       bool      `gorm:"default:true;index" json:"active"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
