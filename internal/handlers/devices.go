package handlers

import (
	"errors"
	"net/http"

	"github.com/joao1975-rgb/qr-tracking/internal/models"
	"github.com/joao1975-rgb/qr-tracking/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type deviceCreateRequest struct {
	DeviceID    string `json:"device_id" binding:"required"`
	DeviceName  string `json:"device_name" binding:"required"`
	DeviceType  string `json:"device_type"`
	Location    string `json:"location"`
	Venue       string `json:"venue"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type deviceUpdateRequest struct {
	DeviceName  *string `json:"device_name"`
	DeviceType  *string `json:"device_type"`
	Location    *string `json:"location"`
	Venue       *string `json:"venue"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (h *Handler) ListDevices(c *gin.Context) {
	devices, err := h.devices.List()
	if err != nil {
		h.logger.Error("Failed to list devices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not list devices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "devices": devices, "total": len(devices)})
}

func (h *Handler) GetDevice(c *gin.Context) {
	device, err := h.devices.Resolve(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "device not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device": device})
}

func (h *Handler) CreateDevice(c *gin.Context) {
	var req deviceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	exists, err := h.devices.Exists(req.DeviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not create device"})
		return
	}
	if exists {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "device id already exists"})
		return
	}

	device := models.PhysicalDevice{
		DeviceID:    req.DeviceID,
		DeviceName:  req.DeviceName,
		DeviceType:  req.DeviceType,
		Location:    req.Location,
		Venue:       req.Venue,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		device.Active = *req.Active
	}

	if err := h.devices.Create(&device); err != nil {
		h.logger.Error("Failed to create device", "device", req.DeviceID, "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "device id already exists"})
		return
	}

	h.logger.Info("Device registered", "device", device.DeviceID, "venue", device.Venue)
	c.JSON(http.StatusCreated, gin.H{"success": true, "device": device})
}

func (h *Handler) UpdateDevice(c *gin.Context) {
	id := c.Param("id")

	var req deviceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	device, err := h.devices.Update(id, repository.DevicePatch{
		DeviceName:  req.DeviceName,
		DeviceType:  req.DeviceType,
		Location:    req.Location,
		Venue:       req.Venue,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "no fields to update"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "device not found"})
		default:
			h.logger.Error("Failed to update device", "device", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not update device"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "device": device})
}

// DeleteDevice removes the registry row. Historical scans keep their
// denormalized device columns, so analytics survive the delete.
func (h *Handler) DeleteDevice(c *gin.Context) {
	id := c.Param("id")

	applied, err := h.devices.Delete(id)
	if err != nil {
		h.logger.Error("Failed to delete device", "device", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not delete device"})
		return
	}
	if !applied {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "device not found"})
		return
	}

	h.logger.Info("Device deleted", "device", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) DeviceStats(c *gin.Context) {
	id := c.Param("id")

	device, err := h.devices.Resolve(id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "device not found"})
		return
	}

	var stats struct {
		TotalScans         int64    `json:"total_scans"`
		CompletedRedirects int64    `json:"completed_redirects"`
		AvgDuration        *float64 `json:"avg_duration"`
		UniqueVisitors     int64    `json:"unique_visitors"`
		Campaigns          int64    `json:"campaigns"`
	}
	h.db.Model(&models.Scan{}).Where("device_id = ?", id).Count(&stats.TotalScans)
	h.db.Model(&models.Scan{}).Where("device_id = ? AND redirect_completed = ?", id, true).Count(&stats.CompletedRedirects)
	h.db.Model(&models.Scan{}).Where("device_id = ?", id).
		Select("AVG(duration_seconds)").Scan(&stats.AvgDuration)
	h.db.Model(&models.Scan{}).Where("device_id = ?", id).
		Distinct("ip_address").Count(&stats.UniqueVisitors)
	h.db.Model(&models.Scan{}).Where("device_id = ?", id).
		Distinct("campaign_code").Count(&stats.Campaigns)

	var campaigns []struct {
		CampaignCode string `json:"campaign_code"`
		Client       string `json:"client"`
		Scans        int    `json:"scans"`
	}
	h.db.Model(&models.Scan{}).Where("device_id = ?", id).
		Select("campaign_code, client, count(*) as scans").
		Group("campaign_code, client").Order("scans desc").Scan(&campaigns)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"device":    device,
		"stats":     stats,
		"campaigns": campaigns,
	})
}
