package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"primary_driver":       "postgres",
		"primary_dsn":          "postgres://shop@db/shop",
		"fallback_driver":      "redis",
		"sign_in_max_attempts": 7,
		"lockout_duration":     "1h",
		"sign_in_window":       int64(90 * time.Second),
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, PrimaryPostgres, cfg.PrimaryDriver)
		assert.Equal(t, "postgres://shop@db/shop", cfg.PrimaryDSN)
		assert.Equal(t, FallbackRedis, cfg.FallbackDriver)
		assert.Equal(t, 7, cfg.SignInMaxAttempts)
		assert.Equal(t, time.Hour, cfg.LockoutDuration)
		assert.Equal(t, 90*time.Second, cfg.SignInWindow)
		assert.Equal(t, "shopkeeper-data", cfg.DataDir, "absent keys keep defaults")
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(cfg, []string{"-d", "x"}))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseJSON(defaults(), []string{"-config", bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}
