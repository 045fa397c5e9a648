package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv               string  `mapstructure:"APP_ENV"`
	Port                 string  `mapstructure:"PORT"`
	DatabaseURL          string  `mapstructure:"DATABASE_URL"`
	RedisURL             string  `mapstructure:"REDIS_URL"`
	BaseURL              string  `mapstructure:"BASE_URL"`
	TrackingMode         string  `mapstructure:"TRACKING_MODE"`
	RedirectDelaySeconds int     `mapstructure:"REDIRECT_DELAY_SECONDS"`
	BackupDir            string  `mapstructure:"BACKUP_DIR"`
	BackupSchedule       string  `mapstructure:"BACKUP_SCHEDULE"`
	BackupRetentionDays  int     `mapstructure:"BACKUP_RETENTION_DAYS"`
	RateLimitRPS         float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst       int     `mapstructure:"RATE_LIMIT_BURST"`
}

// TrackingMode values. "redirect" answers /track with a 307 and defers the
// scan insert to the background worker; "landing" inserts synchronously and
// serves the countdown page that reports enrichment/completion back.
const (
	TrackingModeRedirect = "redirect"
	TrackingModeLanding  = "landing"
)

func LoadConfig() (config Config, err error) {
	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_URL", "sqlite://qr_tracking.db")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379")
	viper.SetDefault("BASE_URL", "")
	viper.SetDefault("TRACKING_MODE", TrackingModeRedirect)
	viper.SetDefault("REDIRECT_DELAY_SECONDS", 3)
	viper.SetDefault("BACKUP_DIR", "./backups")
	viper.SetDefault("BACKUP_SCHEDULE", "0 3 * * *")
	viper.SetDefault("BACKUP_RETENTION_DAYS", 30)
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	return
}
