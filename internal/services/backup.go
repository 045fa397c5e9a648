package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joao1975-rgb/qr-tracking/internal/config"

	"github.com/robfig/cron/v3"
)

// BackupService snapshots the sqlite database file on a cron schedule and
// sweeps out backups past the retention window. Postgres deployments are
// expected to use their own backup tooling; the service then only logs that
// it has nothing to do.
type BackupService struct {
	cfg    config.Config
	logger *slog.Logger
	cron   *cron.Cron
	mu     sync.Mutex
}

type BackupInfo struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBackupService(cfg config.Config, logger *slog.Logger) *BackupService {
	return &BackupService{
		cfg:    cfg,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start registers the scheduled backup and retention sweep, then blocks
// until the context is cancelled.
func (s *BackupService) Start(ctx context.Context) {
	if _, ok := s.databasePath(); !ok {
		s.logger.Info("Backup scheduler disabled: database is not file-backed")
		return
	}

	_, err := s.cron.AddFunc(s.cfg.BackupSchedule, func() {
		if _, err := s.CreateBackup("scheduled"); err != nil {
			s.logger.Error("Scheduled backup failed", "error", err)
		}
		if removed, err := s.Cleanup(); err != nil {
			s.logger.Error("Backup cleanup failed", "error", err)
		} else if removed > 0 {
			s.logger.Info("Removed expired backups", "count", removed)
		}
	})
	if err != nil {
		s.logger.Error("Invalid backup schedule", "schedule", s.cfg.BackupSchedule, "error", err)
		return
	}

	s.cron.Start()
	s.logger.Info("Backup scheduler started", "schedule", s.cfg.BackupSchedule)

	<-ctx.Done()
	s.cron.Stop()
	s.logger.Info("Backup scheduler stopping")
}

// CreateBackup copies the database file into the backup directory with a
// timestamped name. Reason tags the filename so manual and scheduled
// backups are distinguishable.
func (s *BackupService) CreateBackup(reason string) (string, error) {
	dbPath, ok := s.databasePath()
	if !ok {
		return "", fmt.Errorf("database is not file-backed, nothing to back up")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.cfg.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	name := fmt.Sprintf("qr_tracking_%s_%s.db", reason, time.Now().Format("20060102_150405"))
	target := filepath.Join(s.cfg.BackupDir, name)

	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to copy database: %w", err)
	}

	s.logger.Info("Backup created", "path", target, "reason", reason)
	return target, nil
}

func (s *BackupService) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.cfg.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, err
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Cleanup removes backups older than the retention window and returns how
// many were deleted.
func (s *BackupService) Cleanup() (int, error) {
	backups, err := s.List()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.BackupRetentionDays)
	removed := 0
	for _, b := range backups {
		if b.CreatedAt.Before(cutoff) {
			if err := os.Remove(filepath.Join(s.cfg.BackupDir, b.Name)); err != nil {
				s.logger.Warn("Failed to remove expired backup", "name", b.Name, "error", err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}

func (s *BackupService) databasePath() (string, bool) {
	if !strings.HasPrefix(s.cfg.DatabaseURL, "sqlite://") {
		return "", false
	}
	path := strings.TrimPrefix(s.cfg.DatabaseURL, "sqlite://")
	if path == "" || path == ":memory:" {
		return "", false
	}
	return path, true
}
