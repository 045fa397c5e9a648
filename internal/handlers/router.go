package handlers

import (
	"github.com/joao1975-rgb/qr-tracking/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter, templatePath string, staticPath string) *gin.Engine {
	r := gin.Default()

	if templatePath != "" {
		r.LoadHTMLGlob(templatePath)
	}
	if staticPath != "" {
		r.Static("/static", staticPath)
	}

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	r.GET("/health", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scan pipeline
	r.GET("/track", h.TrackScan)

	api := r.Group("/api")
	{
		api.POST("/track/device-data", h.TrackDeviceData)
		api.POST("/track/complete", h.TrackComplete)

		api.GET("/campaigns", h.ListCampaigns)
		api.POST("/campaigns", h.CreateCampaign)
		api.PUT("/campaigns/:code", h.UpdateCampaign)
		api.DELETE("/campaigns/:code", h.DeleteCampaign)
		api.GET("/campaigns/:code/stats", h.CampaignStats)
		api.GET("/campaigns/:code/devices", h.CampaignDevices)

		api.GET("/devices", h.ListDevices)
		api.POST("/devices", h.CreateDevice)
		api.GET("/devices/:id", h.GetDevice)
		api.PUT("/devices/:id", h.UpdateDevice)
		api.DELETE("/devices/:id", h.DeleteDevice)
		api.GET("/devices/:id/stats", h.DeviceStats)

		api.GET("/analytics/dashboard", h.AnalyticsDashboard)
		api.GET("/analytics/device-matrix", h.DeviceMatrix)
		api.GET("/analytics/hourly-matrix", h.HourlyMatrix)
		api.GET("/scans", h.ListScans)
		api.GET("/export/scans", h.ExportScans)

		api.POST("/qr/generate", h.GenerateQR)
		api.POST("/qr/generate-custom", h.GenerateCustomQR)
		api.GET("/qr/status", h.QRStatus)

		admin := api.Group("/admin")
		{
			admin.GET("/backups", h.ListBackups)
			admin.POST("/backups", h.CreateBackup)
			admin.POST("/backups/cleanup", h.CleanupBackups)
		}
	}

	return r
}
