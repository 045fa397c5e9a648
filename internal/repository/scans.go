package repository

import (
	"time"

	"github.com/joao1975-rgb/qr-tracking/internal/models"

	"gorm.io/gorm"
)

// Enrichment is the set of client-reported columns the landing page script
// sends after the redirect. Writes are last-write-wins: every column is
// assigned on each update, nil pointers clearing absent values.
type Enrichment struct {
	ScreenResolution *string
	ViewportSize     *string
	Timezone         *string
	Language         *string
	Platform         *string
	ConnectionType   *string
	CPUCores         *int
	DevicePixelRatio *float64
}

// ScanFilter narrows List. Zero values mean "no filter"; a negative
// Limit disables pagination entirely.
type ScanFilter struct {
	CampaignCode string
	DeviceID     string
	Client       string
	Start        *time.Time
	End          *time.Time
	Limit        int
	Offset       int
}

type ScanStore struct {
	db *gorm.DB
}

func NewScanStore(db *gorm.DB) *ScanStore {
	return &ScanStore{db: db}
}

func (s *ScanStore) Insert(scan *models.Scan) error {
	return s.db.Create(scan).Error
}

func (s *ScanStore) FindBySession(sessionID string) (*models.Scan, error) {
	var scan models.Scan
	if err := s.db.Where("session_id = ?", sessionID).First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

// UpdateEnrichment sets the client-reported columns on the scan row with the
// given session id. Returns false, not an error, when no row matches: the
// callback may race ahead of a deferred insert or reference a session that
// was never persisted, and neither case should fail the caller.
func (s *ScanStore) UpdateEnrichment(sessionID string, e Enrichment) (bool, error) {
	res := s.db.Model(&models.Scan{}).Where("session_id = ?", sessionID).Updates(map[string]interface{}{
		"screen_resolution":  e.ScreenResolution,
		"viewport_size":      e.ViewportSize,
		"timezone":           e.Timezone,
		"language":           e.Language,
		"platform":           e.Platform,
		"connection_type":    e.ConnectionType,
		"cpu_cores":          e.CPUCores,
		"device_pixel_ratio": e.DevicePixelRatio,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateCompletion marks the redirect as completed and recomputes the elapsed
// duration from the original scan timestamp. Re-applying for the same session
// overwrites with a freshly computed duration; it never double-counts.
func (s *ScanStore) UpdateCompletion(sessionID string, completedAt time.Time) (bool, error) {
	scan, err := s.FindBySession(sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	duration := completedAt.Sub(scan.ScanTimestamp).Seconds()
	res := s.db.Model(&models.Scan{}).Where("session_id = ?", sessionID).Updates(map[string]interface{}{
		"redirect_completed": true,
		"redirect_timestamp": completedAt,
		"duration_seconds":   duration,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *ScanStore) List(f ScanFilter) ([]models.Scan, int64, error) {
	q := s.db.Model(&models.Scan{})
	if f.CampaignCode != "" {
		q = q.Where("campaign_code = ?", f.CampaignCode)
	}
	if f.DeviceID != "" {
		q = q.Where("device_id = ?", f.DeviceID)
	}
	if f.Client != "" {
		q = q.Where("client = ?", f.Client)
	}
	if f.Start != nil {
		q = q.Where("scan_timestamp >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("scan_timestamp <= ?", *f.End)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit == 0 {
		limit = 50
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(f.Offset)
	}

	var scans []models.Scan
	err := q.Order("scan_timestamp desc").Find(&scans).Error
	return scans, total, err
}
