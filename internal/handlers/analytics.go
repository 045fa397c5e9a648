package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/joao1975-rgb/qr-tracking/internal/models"
	"github.com/joao1975-rgb/qr-tracking/internal/repository"

	"github.com/gin-gonic/gin"
)

// AnalyticsDashboard aggregates the headline numbers for the admin UI
// in a single response.
func (h *Handler) AnalyticsDashboard(c *gin.Context) {
	var totals struct {
		TotalScans         int64    `json:"total_scans"`
		CompletedRedirects int64    `json:"completed_redirects"`
		AvgDuration        *float64 `json:"avg_duration"`
		ActiveCampaigns    int64    `json:"active_campaigns"`
		ActiveDevices      int64    `json:"active_devices"`
	}
	h.db.Model(&models.Scan{}).Count(&totals.TotalScans)
	h.db.Model(&models.Scan{}).Where("redirect_completed = ?", true).Count(&totals.CompletedRedirects)
	h.db.Model(&models.Scan{}).Select("AVG(duration_seconds)").Scan(&totals.AvgDuration)
	h.db.Model(&models.Campaign{}).Where("active = ?", true).Count(&totals.ActiveCampaigns)
	h.db.Model(&models.PhysicalDevice{}).Where("active = ?", true).Count(&totals.ActiveDevices)

	var campaigns []struct {
		CampaignCode string   `json:"campaign_code"`
		Client       string   `json:"client"`
		Scans        int      `json:"scans"`
		Completions  int      `json:"completions"`
		AvgDuration  *float64 `json:"avg_duration"`
	}
	h.db.Model(&models.Scan{}).
		Select("campaign_code, client, count(*) as scans, " +
			"sum(case when redirect_completed then 1 else 0 end) as completions, " +
			"avg(duration_seconds) as avg_duration").
		Group("campaign_code, client").Order("scans desc").Scan(&campaigns)

	var userDevices []struct {
		UserDeviceType string `json:"user_device_type"`
		Count          int    `json:"count"`
	}
	h.db.Model(&models.Scan{}).
		Select("user_device_type, count(*) as count").
		Group("user_device_type").Order("count desc").Scan(&userDevices)

	var physicalDevices []struct {
		DeviceID   string `json:"device_id"`
		DeviceName string `json:"device_name"`
		Venue      string `json:"venue"`
		Scans      int    `json:"scans"`
	}
	h.db.Model(&models.Scan{}).Where("device_id != ''").
		Select("device_id, device_name, venue, count(*) as scans").
		Group("device_id, device_name, venue").
		Order("scans desc").Limit(10).Scan(&physicalDevices)

	var venues []struct {
		Venue string `json:"venue"`
		Scans int    `json:"scans"`
	}
	h.db.Model(&models.Scan{}).Where("venue != ''").
		Select("venue, count(*) as scans").
		Group("venue").Order("scans desc").Scan(&venues)

	since := time.Now().UTC().Add(-24 * time.Hour)
	var recent []struct {
		Hour  string `json:"hour"`
		Scans int    `json:"scans"`
	}
	h.db.Model(&models.Scan{}).Where("scan_timestamp >= ?", since).
		Select(hourExpr(h.db.Dialector.Name()) + " as hour, count(*) as scans").
		Group("hour").Order("hour").Scan(&recent)

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"totals":           totals,
		"campaigns":        campaigns,
		"user_devices":     userDevices,
		"physical_devices": physicalDevices,
		"venues":           venues,
		"last_24h":         recent,
	})
}

// hourExpr truncates scan_timestamp to the hour in a dialect-portable
// way. Only sqlite and postgres are supported drivers.
func hourExpr(dialect string) string {
	if dialect == "postgres" {
		return "to_char(date_trunc('hour', scan_timestamp), 'YYYY-MM-DD HH24:00')"
	}
	return "strftime('%Y-%m-%d %H:00', scan_timestamp)"
}

// DeviceMatrix pivots scan counts into a campaign x physical-device
// grid so placements can be compared side by side.
func (h *Handler) DeviceMatrix(c *gin.Context) {
	var rows []struct {
		CampaignCode string
		DeviceID     string
		DeviceName   string
		Scans        int
	}
	if err := h.db.Model(&models.Scan{}).Where("device_id != ''").
		Select("campaign_code, device_id, device_name, count(*) as scans").
		Group("campaign_code, device_id, device_name").
		Scan(&rows).Error; err != nil {
		h.logger.Error("Device matrix query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not build matrix"})
		return
	}

	matrix := map[string]map[string]int{}
	deviceNames := map[string]string{}
	for _, r := range rows {
		if matrix[r.CampaignCode] == nil {
			matrix[r.CampaignCode] = map[string]int{}
		}
		matrix[r.CampaignCode][r.DeviceID] = r.Scans
		deviceNames[r.DeviceID] = r.DeviceName
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"matrix":       matrix,
		"device_names": deviceNames,
	})
}

// HourlyMatrix pivots scan counts into a campaign x hour-of-day grid.
func (h *Handler) HourlyMatrix(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	expr := "CAST(strftime('%H', scan_timestamp) AS INTEGER)"
	if h.db.Dialector.Name() == "postgres" {
		expr = "EXTRACT(HOUR FROM scan_timestamp)::int"
	}

	var rows []struct {
		CampaignCode string
		Hour         int
		Scans        int
	}
	if err := h.db.Model(&models.Scan{}).Where("scan_timestamp >= ?", since).
		Select("campaign_code, " + expr + " as hour, count(*) as scans").
		Group("campaign_code, hour").
		Scan(&rows).Error; err != nil {
		h.logger.Error("Hourly matrix query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not build matrix"})
		return
	}

	matrix := map[string][]int{}
	for _, r := range rows {
		if matrix[r.CampaignCode] == nil {
			matrix[r.CampaignCode] = make([]int, 24)
		}
		if r.Hour >= 0 && r.Hour < 24 {
			matrix[r.CampaignCode][r.Hour] = r.Scans
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "days": days, "matrix": matrix})
}

func scanFilterFromQuery(c *gin.Context) repository.ScanFilter {
	filter := repository.ScanFilter{
		CampaignCode: c.Query("campaign"),
		DeviceID:     c.Query("device"),
		Client:       c.Query("client"),
	}
	if v := c.Query("start"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Start = &t
		}
	}
	if v := c.Query("end"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.End = &t
		}
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = v
	}
	return filter
}

func (h *Handler) ListScans(c *gin.Context) {
	filter := scanFilterFromQuery(c)

	scans, total, err := h.scans.List(filter)
	if err != nil {
		h.logger.Error("Failed to list scans", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not list scans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"scans":   scans,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// ExportScans streams the filtered scan log as CSV.
func (h *Handler) ExportScans(c *gin.Context) {
	filter := scanFilterFromQuery(c)
	filter.Limit = -1 // export ignores pagination
	filter.Offset = 0

	scans, _, err := h.scans.List(filter)
	if err != nil {
		h.logger.Error("Failed to export scans", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not export scans"})
		return
	}

	filename := fmt.Sprintf("scans_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{
		"session_id", "scan_timestamp", "campaign_code", "client", "destination",
		"device_id", "device_name", "location", "venue",
		"user_device_type", "browser", "operating_system",
		"ip_address", "country", "city",
		"utm_source", "utm_medium", "utm_campaign",
		"redirect_completed", "duration_seconds",
	})
	for _, s := range scans {
		duration := ""
		if s.DurationSeconds != nil {
			duration = strconv.FormatFloat(*s.DurationSeconds, 'f', 2, 64)
		}
		_ = w.Write([]string{
			s.SessionID,
			s.ScanTimestamp.UTC().Format(time.RFC3339),
			s.CampaignCode, s.Client, s.Destination,
			s.DeviceID, s.DeviceName, s.Location, s.Venue,
			s.UserDeviceType, s.Browser, s.OperatingSystem,
			s.IPAddress, s.Country, s.City,
			s.UTMSource, s.UTMMedium, s.UTMCampaign,
			strconv.FormatBool(s.RedirectCompleted),
			duration,
		})
	}
	w.Flush()
}
