package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DataDir           string         `json:"data_dir"`
	PrimaryDriver     string         `json:"primary_driver"`
	PrimaryDSN        string         `json:"primary_dsn"`
	FallbackDriver    string         `json:"fallback_driver"`
	FallbackQuota     int            `json:"fallback_quota"`
	RedisAddr         string         `json:"redis_addr"`
	PasswordSalt      string         `json:"password_salt"`
	SignInMaxAttempts int            `json:"sign_in_max_attempts"`
	SignInWindow      timex.Duration `json:"sign_in_window"`
	LockoutDuration   timex.Duration `json:"lockout_duration"`
	LogLevel          string         `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c/-config. The DTO is seeded
// from cfg so keys missing from the file keep their current values.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	jc := JsonConfig{
		DataDir:           cfg.DataDir,
		PrimaryDriver:     cfg.PrimaryDriver,
		PrimaryDSN:        cfg.PrimaryDSN,
		FallbackDriver:    cfg.FallbackDriver,
		FallbackQuota:     cfg.FallbackQuota,
		RedisAddr:         cfg.RedisAddr,
		PasswordSalt:      cfg.PasswordSalt,
		SignInMaxAttempts: cfg.SignInMaxAttempts,
		SignInWindow:      timex.Duration{Duration: cfg.SignInWindow},
		LockoutDuration:   timex.Duration{Duration: cfg.LockoutDuration},
		LogLevel:          cfg.LogLevel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.DataDir = jc.DataDir
	cfg.PrimaryDriver = jc.PrimaryDriver
	cfg.PrimaryDSN = jc.PrimaryDSN
	cfg.FallbackDriver = jc.FallbackDriver
	cfg.FallbackQuota = jc.FallbackQuota
	cfg.RedisAddr = jc.RedisAddr
	cfg.PasswordSalt = jc.PasswordSalt
	cfg.SignInMaxAttempts = jc.SignInMaxAttempts
	cfg.SignInWindow = jc.SignInWindow.Duration
	cfg.LockoutDuration = jc.LockoutDuration.Duration
	cfg.LogLevel = jc.LogLevel
	return nil
}
