package repository

import (
	"errors"

	"github.com/joao1975-rgb/qr-tracking/internal/models"

	"gorm.io/gorm"
)

var ErrNoFields = errors.New("no fields to update")

// CampaignPatch carries the optional fields of a partial update. Only non-nil
// fields are written.
type CampaignPatch struct {
	Client      *string
	Destination *string
	Description *string
	Active      *bool
}

func (p CampaignPatch) Empty() bool {
	return p.Client == nil && p.Destination == nil && p.Description == nil && p.Active == nil
}

type CampaignStore struct {
	db *gorm.DB
}

func NewCampaignStore(db *gorm.DB) *CampaignStore {
	return &CampaignStore{db: db}
}

// Resolve is the point lookup used by the tracking hot path. Inactive
// campaigns resolve too: inactivity only blocks new QR generation, printed
// codes keep redirecting.
func (s *CampaignStore) Resolve(code string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := s.db.Where("campaign_code = ?", code).First(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (s *CampaignStore) List() ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := s.db.Order("created_at desc").Find(&campaigns).Error
	return campaigns, err
}

// Create inserts a new campaign. The unique index on campaign_code is the
// correctness backstop for concurrent creates; callers pre-check for a
// friendlier error message.
func (s *CampaignStore) Create(campaign *models.Campaign) error {
	return s.db.Create(campaign).Error
}

func (s *CampaignStore) Exists(code string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Campaign{}).Where("campaign_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (s *CampaignStore) Update(code string, patch CampaignPatch) (*models.Campaign, error) {
	if patch.Empty() {
		return nil, ErrNoFields
	}

	assignments := map[string]interface{}{}
	if patch.Client != nil {
		assignments["client"] = *patch.Client
	}
	if patch.Destination != nil {
		assignments["destination"] = *patch.Destination
	}
	if patch.Description != nil {
		assignments["description"] = *patch.Description
	}
	if patch.Active != nil {
		assignments["active"] = *patch.Active
	}

	res := s.db.Model(&models.Campaign{}).Where("campaign_code = ?", code).Updates(assignments)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return s.Resolve(code)
}

// Deactivate is the soft delete: the row stays so historical scans keep a
// valid campaign_code target.
func (s *CampaignStore) Deactivate(code string) (bool, error) {
	res := s.db.Model(&models.Campaign{}).Where("campaign_code = ?", code).Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
