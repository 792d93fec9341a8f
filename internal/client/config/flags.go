package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

var knownFlags = []string{
	"-d", "-primary", "-dsn", "-fallback", "-quota", "-redis", "-salt",
	"-max-attempts", "-window", "-lockout", "-log-level",
}

// parseFlags overlays cfg with the flags it knows about. Anything else in
// args (such as -c) is filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("shopkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.PrimaryDriver, "primary", cfg.PrimaryDriver, "primary store driver (sqlite|postgres|none)")
	fs.StringVar(&cfg.PrimaryDSN, "dsn", cfg.PrimaryDSN, "primary store DSN")
	fs.StringVar(&cfg.FallbackDriver, "fallback", cfg.FallbackDriver, "fallback store driver (file|redis)")
	fs.IntVar(&cfg.FallbackQuota, "quota", cfg.FallbackQuota, "fallback quota in bytes")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.PasswordSalt, "salt", cfg.PasswordSalt, "application salt for password digests")
	fs.IntVar(&cfg.SignInMaxAttempts, "max-attempts", cfg.SignInMaxAttempts, "sign-in attempts per window")
	fs.DurationVar(&cfg.SignInWindow, "window", cfg.SignInWindow, "sign-in counting window")
	fs.DurationVar(&cfg.LockoutDuration, "lockout", cfg.LockoutDuration, "lockout after too many attempts")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")

	return fs.Parse(filtered)
}
