package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/joao1975-rgb/qr-tracking/internal/config"
	"github.com/joao1975-rgb/qr-tracking/internal/metrics"
	"github.com/joao1975-rgb/qr-tracking/internal/models"
	"github.com/joao1975-rgb/qr-tracking/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const campaignCacheTTL = 10 * time.Minute

// TrackScan handles the QR landing hit. The one hard validation is the
// campaign parameter; everything after destination resolution is best-effort
// because the visitor is waiting on the redirect.
func (h *Handler) TrackScan(c *gin.Context) {
	code := c.Query("campaign")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "campaign parameter required"})
		return
	}

	destination := c.Query("destination")
	client := c.Query("client")

	// Explicit params win over the stored campaign; the lookup fills gaps.
	if destination == "" || client == "" {
		if campaign := h.lookupCampaign(c.Request.Context(), code); campaign != nil {
			if destination == "" {
				destination = campaign.Destination
			}
			if client == "" {
				client = campaign.Client
			}
		}
	}

	// Unknown campaign and no override: redirect somewhere deterministic
	// rather than failing. A dead QR code is worse than a search page.
	if destination == "" {
		destination = "https://google.com/search?q=" + url.QueryEscape(code)
	}

	scan := models.Scan{
		SessionID:     uuid.NewString(),
		CampaignCode:  code,
		Client:        client,
		Destination:   destination,
		DeviceID:      c.Query("device_id"),
		DeviceName:    c.Query("device_name"),
		Location:      c.Query("location"),
		Venue:         c.Query("venue"),
		UTMSource:     c.Query("utm_source"),
		UTMMedium:     c.Query("utm_medium"),
		UTMCampaign:   c.Query("utm_campaign"),
		UTMTerm:       c.Query("utm_term"),
		UTMContent:    c.Query("utm_content"),
		UserAgent:     c.Request.UserAgent(),
		IPAddress:     c.ClientIP(),
		ScanTimestamp: time.Now().UTC(),
	}
	h.fillDeviceContext(&scan)

	metrics.RedirectsServedTotal.WithLabelValues(code).Inc()

	if h.cfg.TrackingMode == config.TrackingModeLanding {
		// The landing page script needs the row id, so insert inline. A
		// failed insert still serves the page: the redirect must not
		// depend on the log entry.
		if err := h.tracker.RecordScan(&scan); err != nil {
			h.logger.Error("Failed to record scan",
				"campaign", code, "session_id", scan.SessionID, "error", err)
		}
		c.HTML(http.StatusOK, "track.html", gin.H{
			"SessionID":    scan.SessionID,
			"ScanID":       scan.ID,
			"Destination":  destination,
			"Client":       client,
			"CampaignCode": code,
			"DelaySeconds": h.cfg.RedirectDelaySeconds,
		})
		return
	}

	h.tracker.RecordScanAsync(scan)
	c.Redirect(http.StatusTemporaryRedirect, destination)
}

type deviceDataRequest struct {
	SessionID        string   `json:"session_id" binding:"required"`
	ScreenResolution *string  `json:"screen_resolution"`
	ViewportSize     *string  `json:"viewport_size"`
	Timezone         *string  `json:"timezone"`
	Language         *string  `json:"language"`
	Platform         *string  `json:"platform"`
	ConnectionType   *string  `json:"connection_type"`
	CPUCores         *int     `json:"cpu_cores"`
	DevicePixelRatio *float64 `json:"device_pixel_ratio"`
}

// TrackDeviceData receives the enrichment callback from the landing page.
// An unmatched session id answers success=false with a 200: the browser has
// already moved on and there is nothing for it to react to.
func (h *Handler) TrackDeviceData(c *gin.Context) {
	var req deviceDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "session_id required"})
		return
	}

	applied, err := h.scans.UpdateEnrichment(req.SessionID, repository.Enrichment{
		ScreenResolution: req.ScreenResolution,
		ViewportSize:     req.ViewportSize,
		Timezone:         req.Timezone,
		Language:         req.Language,
		Platform:         req.Platform,
		ConnectionType:   req.ConnectionType,
		CPUCores:         req.CPUCores,
		DevicePixelRatio: req.DevicePixelRatio,
	})
	metrics.EnrichmentUpdatesTotal.WithLabelValues(metrics.AppliedLabel(applied && err == nil)).Inc()
	if err != nil {
		h.logger.Error("Failed to update device data", "session_id", req.SessionID, "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "could not update device data"})
		return
	}
	if !applied {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type completeRequest struct {
	SessionID      string `json:"session_id"`
	ScanID         uint   `json:"scan_id"`
	CompletionTime string `json:"completion_time"`
}

// TrackComplete marks a scan's redirect as completed. Fired by the landing
// page timer and again by the pagehide beacon, so re-application must stay
// idempotent.
func (h *Handler) TrackComplete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "session_id required"})
		return
	}

	completedAt := time.Now().UTC()
	if req.CompletionTime != "" {
		if t, err := time.Parse(time.RFC3339, req.CompletionTime); err == nil {
			completedAt = t
		}
	}

	applied, err := h.scans.UpdateCompletion(req.SessionID, completedAt)
	metrics.CompletionUpdatesTotal.WithLabelValues(metrics.AppliedLabel(applied && err == nil)).Inc()
	if err != nil {
		h.logger.Error("Failed to complete tracking", "session_id", req.SessionID, "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "could not complete tracking"})
		return
	}
	if !applied {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// lookupCampaign resolves a campaign code through the Redis cache, falling
// back to the database. Misses and cache errors both return nil; the caller
// degrades to the fallback destination.
func (h *Handler) lookupCampaign(ctx context.Context, code string) *models.Campaign {
	if h.rdb != nil {
		val, err := h.rdb.Get(ctx, campaignCacheKey(code)).Result()
		if err == nil {
			var campaign models.Campaign
			if err := json.Unmarshal([]byte(val), &campaign); err == nil {
				return &campaign
			}
		}
	}

	campaign, err := h.campaigns.Resolve(code)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Error("Campaign lookup failed", "campaign", code, "error", err)
		}
		return nil
	}

	if h.rdb != nil {
		if data, err := json.Marshal(campaign); err == nil {
			h.rdb.Set(ctx, campaignCacheKey(code), data, campaignCacheTTL)
		}
	}
	return campaign
}

func (h *Handler) invalidateCampaignCache(ctx context.Context, code string) {
	if h.rdb != nil {
		h.rdb.Del(ctx, campaignCacheKey(code))
	}
}

func campaignCacheKey(code string) string {
	return "campaign:" + code
}

// fillDeviceContext copies device metadata from the store for fields the
// tracking URL did not carry. A missing device is non-fatal, the scan just
// keeps blank device fields.
func (h *Handler) fillDeviceContext(scan *models.Scan) {
	if scan.DeviceID == "" {
		return
	}
	if scan.DeviceName != "" && scan.Location != "" && scan.Venue != "" {
		return
	}

	device, err := h.devices.Resolve(scan.DeviceID)
	if err != nil {
		return
	}
	if scan.DeviceName == "" {
		scan.DeviceName = device.DeviceName
	}
	if scan.Location == "" {
		scan.Location = device.Location
	}
	if scan.Venue == "" {
		scan.Venue = device.Venue
	}
}
