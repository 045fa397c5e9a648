package handlers

import (
	"errors"
	"net/http"

	"github.com/joao1975-rgb/qr-tracking/internal/models"
	"github.com/joao1975-rgb/qr-tracking/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type campaignCreateRequest struct {
	CampaignCode string `json:"campaign_code" binding:"required"`
	Client       string `json:"client" binding:"required"`
	Destination  string `json:"destination" binding:"required,url"`
	Description  string `json:"description"`
	Active       *bool  `json:"active"`
}

type campaignUpdateRequest struct {
	Client      *string `json:"client"`
	Destination *string `json:"destination"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (h *Handler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.campaigns.List()
	if err != nil {
		h.logger.Error("Failed to list campaigns", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not list campaigns"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "campaigns": campaigns, "total": len(campaigns)})
}

func (h *Handler) CreateCampaign(c *gin.Context) {
	var req campaignCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// Pre-check for a friendly message; the unique index is the real
	// backstop against a concurrent create racing past this.
	exists, err := h.campaigns.Exists(req.CampaignCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not create campaign"})
		return
	}
	if exists {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "campaign code already exists"})
		return
	}

	campaign := models.Campaign{
		CampaignCode: req.CampaignCode,
		Client:       req.Client,
		Destination:  req.Destination,
		Description:  req.Description,
		Active:       true,
	}
	if req.Active != nil {
		campaign.Active = *req.Active
	}

	if err := h.campaigns.Create(&campaign); err != nil {
		h.logger.Error("Failed to create campaign", "campaign", req.CampaignCode, "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "campaign code already exists"})
		return
	}

	h.logger.Info("Campaign created", "campaign", campaign.CampaignCode, "client", campaign.Client)
	c.JSON(http.StatusCreated, gin.H{"success": true, "campaign": campaign})
}

func (h *Handler) UpdateCampaign(c *gin.Context) {
	code := c.Param("code")

	var req campaignUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	campaign, err := h.campaigns.Update(code, repository.CampaignPatch{
		Client:      req.Client,
		Destination: req.Destination,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "no fields to update"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "campaign not found"})
		default:
			h.logger.Error("Failed to update campaign", "campaign", code, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not update campaign"})
		}
		return
	}

	h.invalidateCampaignCache(c.Request.Context(), code)
	c.JSON(http.StatusOK, gin.H{"success": true, "campaign": campaign})
}

// DeleteCampaign deactivates: existing printed QR codes must keep
// redirecting, so the row is never removed.
func (h *Handler) DeleteCampaign(c *gin.Context) {
	code := c.Param("code")

	applied, err := h.campaigns.Deactivate(code)
	if err != nil {
		h.logger.Error("Failed to deactivate campaign", "campaign", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not delete campaign"})
		return
	}
	if !applied {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "campaign not found"})
		return
	}

	h.invalidateCampaignCache(c.Request.Context(), code)
	h.logger.Info("Campaign deactivated", "campaign", code)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) CampaignStats(c *gin.Context) {
	code := c.Param("code")

	campaign, err := h.campaigns.Resolve(code)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "campaign not found"})
		return
	}

	var stats struct {
		TotalScans         int64    `json:"total_scans"`
		CompletedRedirects int64    `json:"completed_redirects"`
		AvgDuration        *float64 `json:"avg_duration"`
		UniqueVisitors     int64    `json:"unique_visitors"`
		UniqueDevices      int64    `json:"unique_devices"`
	}
	h.db.Model(&models.Scan{}).Where("campaign_code = ?", code).Count(&stats.TotalScans)
	h.db.Model(&models.Scan{}).Where("campaign_code = ? AND redirect_completed = ?", code, true).Count(&stats.CompletedRedirects)
	h.db.Model(&models.Scan{}).Where("campaign_code = ?", code).
		Select("AVG(duration_seconds)").Scan(&stats.AvgDuration)
	h.db.Model(&models.Scan{}).Where("campaign_code = ?", code).
		Distinct("ip_address").Count(&stats.UniqueVisitors)
	h.db.Model(&models.Scan{}).Where("campaign_code = ? AND device_id != ''", code).
		Distinct("device_id").Count(&stats.UniqueDevices)

	var topDevices []struct {
		DeviceID   string `json:"device_id"`
		DeviceName string `json:"device_name"`
		Location   string `json:"location"`
		Venue      string `json:"venue"`
		Scans      int    `json:"scans"`
	}
	h.db.Model(&models.Scan{}).
		Where("campaign_code = ? AND device_id != ''", code).
		Select("device_id, device_name, location, venue, count(*) as scans").
		Group("device_id, device_name, location, venue").
		Order("scans desc").Limit(5).Scan(&topDevices)

	var deviceTypes []struct {
		UserDeviceType string `json:"user_device_type"`
		Count          int    `json:"count"`
	}
	h.db.Model(&models.Scan{}).Where("campaign_code = ?", code).
		Select("user_device_type, count(*) as count").
		Group("user_device_type").Order("count desc").Scan(&deviceTypes)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"campaign":     campaign,
		"stats":        stats,
		"top_devices":  topDevices,
		"device_types": deviceTypes,
	})
}

// CampaignDevices lists the physical devices that produced scans for a
// campaign, with per-device counts.
func (h *Handler) CampaignDevices(c *gin.Context) {
	code := c.Param("code")

	if _, err := h.campaigns.Resolve(code); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "campaign not found"})
		return
	}

	var devices []struct {
		DeviceID    string   `json:"device_id"`
		DeviceName  string   `json:"device_name"`
		Location    string   `json:"location"`
		Venue       string   `json:"venue"`
		Scans       int      `json:"scans"`
		Completions int      `json:"completions"`
		AvgDuration *float64 `json:"avg_duration"`
	}
	h.db.Model(&models.Scan{}).
		Where("campaign_code = ? AND device_id != ''", code).
		Select("device_id, device_name, location, venue, count(*) as scans, " +
			"sum(case when redirect_completed then 1 else 0 end) as completions, " +
			"avg(duration_seconds) as avg_duration").
		Group("device_id, device_name, location, venue").
		Order("scans desc").Scan(&devices)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"campaign_code": code,
		"devices":       devices,
		"total_devices": len(devices),
	})
}
