package repository

import (
	"github.com/joao1975-rgb/qr-tracking/internal/models"

	"gorm.io/gorm"
)

type DevicePatch struct {
	DeviceName  *string
	DeviceType  *string
	Location    *string
	Venue       *string
	Description *string
	Active      *bool
}

func (p DevicePatch) Empty() bool {
	return p.DeviceName == nil && p.DeviceType == nil && p.Location == nil &&
		p.Venue == nil && p.Description == nil && p.Active == nil
}

type DeviceStore struct {
	db *gorm.DB
}

func NewDeviceStore(db *gorm.DB) *DeviceStore {
	return &DeviceStore{db: db}
}

func (s *DeviceStore) Resolve(deviceID string) (*models.PhysicalDevice, error) {
	var device models.PhysicalDevice
	if err := s.db.Where("device_id = ?", deviceID).First(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *DeviceStore) List() ([]models.PhysicalDevice, error) {
	var devices []models.PhysicalDevice
	err := s.db.Order("created_at desc").Find(&devices).Error
	return devices, err
}

func (s *DeviceStore) Create(device *models.PhysicalDevice) error {
	return s.db.Create(device).Error
}

func (s *DeviceStore) Exists(deviceID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.PhysicalDevice{}).Where("device_id = ?", deviceID).Count(&count).Error
	return count > 0, err
}

func (s *DeviceStore) Update(deviceID string, patch DevicePatch) (*models.PhysicalDevice, error) {
	if patch.Empty() {
		return nil, ErrNoFields
	}

	assignments := map[string]interface{}{}
	if patch.DeviceName != nil {
		assignments["device_name"] = *patch.DeviceName
	}
	if patch.DeviceType != nil {
		assignments["device_type"] = *patch.DeviceType
	}
	if patch.Location != nil {
		assignments["location"] = *patch.Location
	}
	if patch.Venue != nil {
		assignments["venue"] = *patch.Venue
	}
	if patch.Description != nil {
		assignments["description"] = *patch.Description
	}
	if patch.Active != nil {
		assignments["active"] = *patch.Active
	}

	res := s.db.Model(&models.PhysicalDevice{}).Where("device_id = ?", deviceID).Updates(assignments)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return s.Resolve(deviceID)
}

// Delete removes the device row entirely. Scans referencing its device_id are
// untouched; the reference is a loose foreign key.
func (s *DeviceStore) Delete(deviceID string) (bool, error) {
	res := s.db.Where("device_id = ?", deviceID).Delete(&models.PhysicalDevice{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
