package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Primary and fallback driver names.
const (
	PrimarySQLite   = "sqlite"
	PrimaryPostgres = "postgres"
	PrimaryNone     = "none"

	FallbackFile  = "file"
	FallbackRedis = "redis"
)

// Config holds runtime settings for the shopkeeper CLI.
type Config struct {
	DataDir string

	PrimaryDriver string
	PrimaryDSN    string

	FallbackDriver string
	FallbackQuota  int
	RedisAddr      string

	PasswordSalt      string
	SignInMaxAttempts int
	SignInWindow      time.Duration
	LockoutDuration   time.Duration

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "shopkeeper-data"
	c.PrimaryDriver = PrimarySQLite
	c.PrimaryDSN = ""
	c.FallbackDriver = FallbackFile
	c.FallbackQuota = 5 << 20
	c.RedisAddr = "127.0.0.1:6379"
	c.PasswordSalt = ""
	c.SignInMaxAttempts = 5
	c.SignInWindow = 15 * time.Minute
	c.LockoutDuration = 15 * time.Minute
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file named by -c/-config in
// args (if any), then the flags in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks driver names and numeric bounds.
func (c *Config) Validate() error {
	switch c.PrimaryDriver {
	case PrimarySQLite, PrimaryPostgres, PrimaryNone:
	default:
		return fmt.Errorf("unknown primary driver %q", c.PrimaryDriver)
	}
	if c.PrimaryDriver == PrimaryPostgres && c.PrimaryDSN == "" {
		return fmt.Errorf("primary driver %q requires a DSN", c.PrimaryDriver)
	}
	switch c.FallbackDriver {
	case FallbackFile, FallbackRedis:
	default:
		return fmt.Errorf("unknown fallback driver %q", c.FallbackDriver)
	}
	if c.SignInMaxAttempts <= 0 {
		return fmt.Errorf("sign-in max attempts must be positive, got %d", c.SignInMaxAttempts)
	}
	if c.SignInWindow <= 0 || c.LockoutDuration <= 0 {
		return fmt.Errorf("sign-in window and lockout must be positive")
	}
	return nil
}

// DSN returns the primary store DSN, defaulting to a sqlite file inside
// DataDir.
func (c *Config) DSN() string {
	if c.PrimaryDSN == "" && c.PrimaryDriver == PrimarySQLite {
		return filepath.Join(c.DataDir, "shopkeeper.db")
	}
	return c.PrimaryDSN
}

// FallbackPath is the JSON file used by the file fallback.
func (c *Config) FallbackPath() string {
	return filepath.Join(c.DataDir, "fallback.json")
}
