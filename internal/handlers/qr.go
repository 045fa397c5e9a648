package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/joao1975-rgb/qr-tracking/internal/models"
	"github.com/joao1975-rgb/qr-tracking/internal/services"

	"github.com/gin-gonic/gin"
)

type qrGenerateRequest struct {
	CampaignCode    string `json:"campaign_code" binding:"required"`
	DeviceID        string `json:"device_id"`
	Size            int    `json:"size"`
	Format          string `json:"format"`
	ErrorCorrection string `json:"error_correction"`
	FgColor         string `json:"fg_color"`
	BgColor         string `json:"bg_color"`
}

type qrCustomRequest struct {
	URL             string `json:"url" binding:"required,url"`
	Size            int    `json:"size"`
	Format          string `json:"format"`
	ErrorCorrection string `json:"error_correction"`
	FgColor         string `json:"fg_color"`
	BgColor         string `json:"bg_color"`
}

// GenerateQR renders a QR for a stored campaign, optionally bound to a
// physical device so scans carry placement context.
func (h *Handler) GenerateQR(c *gin.Context) {
	var req qrGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	campaign, err := h.campaigns.Resolve(req.CampaignCode)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "campaign not found"})
		return
	}
	if !campaign.Active {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "campaign is paused"})
		return
	}

	var device *models.PhysicalDevice
	if req.DeviceID != "" {
		device, err = h.devices.Resolve(req.DeviceID)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "device not found"})
			return
		}
	}

	trackingURL := h.qrService.BuildTrackingURL(h.trackingBase(c), campaign, device)
	opts := services.QROptions{
		Content: trackingURL,
		Size:    services.ClampSize(req.Size),
		Level:   services.ParseRecoveryLevel(req.ErrorCorrection),
		FgColor: req.FgColor,
		BgColor: req.BgColor,
	}

	resp := gin.H{
		"success":       true,
		"campaign_code": campaign.CampaignCode,
		"tracking_url":  trackingURL,
		"size":          opts.Size,
	}
	if device != nil {
		resp["device_id"] = device.DeviceID
	}

	if strings.EqualFold(req.Format, "svg") {
		svg, err := h.qrService.GenerateSVG(opts)
		if err != nil {
			h.logger.Error("QR SVG generation failed", "campaign", campaign.CampaignCode, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not generate qr code"})
			return
		}
		resp["format"] = "svg"
		resp["qr_code"] = svg
	} else {
		encoded, _, err := h.qrService.GeneratePNG(opts)
		if err != nil {
			h.logger.Error("QR PNG generation failed", "campaign", campaign.CampaignCode, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not generate qr code"})
			return
		}
		resp["format"] = "png"
		resp["qr_code"] = "data:image/png;base64," + encoded
	}

	h.recordQRGeneration(campaign, device, opts.Size, c.ClientIP())
	c.JSON(http.StatusOK, resp)
}

// GenerateCustomQR renders a QR for an arbitrary URL with no tracking
// indirection.
func (h *Handler) GenerateCustomQR(c *gin.Context) {
	var req qrCustomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	opts := services.QROptions{
		Content: req.URL,
		Size:    services.ClampSize(req.Size),
		Level:   services.ParseRecoveryLevel(req.ErrorCorrection),
		FgColor: req.FgColor,
		BgColor: req.BgColor,
	}

	if strings.EqualFold(req.Format, "svg") {
		svg, err := h.qrService.GenerateSVG(opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not generate qr code"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "format": "svg", "qr_code": svg, "url": req.URL, "size": opts.Size})
		return
	}

	encoded, _, err := h.qrService.GeneratePNG(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not generate qr code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"format":  "png",
		"qr_code": "data:image/png;base64," + encoded,
		"url":     req.URL,
		"size":    opts.Size,
	})
}

// QRStatus reports generator limits and recent generation counts.
func (h *Handler) QRStatus(c *gin.Context) {
	var total int64
	h.db.Model(&models.QRGeneration{}).Count(&total)

	since := time.Now().UTC().Add(-24 * time.Hour)
	var last24h int64
	h.db.Model(&models.QRGeneration{}).Where("generated_at >= ?", since).Count(&last24h)

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"available":        true,
		"formats":          []string{"png", "svg"},
		"min_size":         100,
		"max_size":         1000,
		"default_size":     300,
		"error_correction": []string{"L", "M", "Q", "H"},
		"total_generated":  total,
		"last_24h":         last24h,
	})
}

// trackingBase returns the public base URL QR codes should encode:
// configured BASE_URL when set, else reconstructed from the request.
func (h *Handler) trackingBase(c *gin.Context) string {
	if h.cfg.BaseURL != "" {
		return h.cfg.BaseURL
	}
	scheme := "http"
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// recordQRGeneration writes the audit row. Failures are logged only; a
// missing audit entry must not fail the generation that already happened.
func (h *Handler) recordQRGeneration(campaign *models.Campaign, device *models.PhysicalDevice, size int, generatedBy string) {
	entry := models.QRGeneration{
		QRSize:      size,
		GeneratedBy: generatedBy,
		GeneratedAt: time.Now().UTC(),
	}
	if campaign != nil {
		entry.CampaignID = &campaign.ID
	}
	if device != nil {
		entry.PhysicalDeviceID = &device.ID
	}
	if err := h.db.Create(&entry).Error; err != nil {
		h.logger.Warn("Failed to record QR generation", "error", err)
	}
}
