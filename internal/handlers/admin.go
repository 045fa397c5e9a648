package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListBackups(c *gin.Context) {
	backups, err := h.backup.List()
	if err != nil {
		h.logger.Error("Failed to list backups", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not list backups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "backups": backups, "total": len(backups)})
}

func (h *Handler) CreateBackup(c *gin.Context) {
	name, err := h.backup.CreateBackup("manual")
	if err != nil {
		h.logger.Error("Manual backup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	h.logger.Info("Manual backup created", "backup", name)
	c.JSON(http.StatusOK, gin.H{"success": true, "backup": name})
}

func (h *Handler) CleanupBackups(c *gin.Context) {
	removed, err := h.backup.Cleanup()
	if err != nil {
		h.logger.Error("Backup cleanup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not clean up backups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
}

// HealthCheck verifies database connectivity and reports row counts.
func (h *Handler) HealthCheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unreachable"})
		return
	}

	var campaigns, devices, scans int64
	h.db.Table("campaigns").Count(&campaigns)
	h.db.Table("physical_devices").Count(&devices)
	h.db.Table("scans").Count(&scans)

	redisStatus := "disabled"
	if h.rdb != nil {
		if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "unreachable"
		} else {
			redisStatus = "ok"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"campaigns": campaigns,
		"devices":   devices,
		"scans":     scans,
		"redis":     redisStatus,
	})
}
