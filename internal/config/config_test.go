package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolatedEnv(t *testing.T, extra ...string) (string, []string) {
	dir := t.TempDir()
	env := append([]string{
		"XDG_CONFIG_HOME=" + filepath.Join(dir, "config"),
		"XDG_DATA_HOME=" + filepath.Join(dir, "data"),
	}, extra...)
	return dir, env
}

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	dir, env := isolatedEnv(t)

	cfg, loaded, err := Load(Options{Env: env})
	require.NoError(t, err)

	assert.Empty(t, loaded)
	assert.Equal(t, filepath.Join(dir, "data", "glycemia", "glycemia.db"), cfg.DBPath)
	assert.Equal(t, 70, cfg.Alert.LowThreshold)
	assert.Equal(t, 800, cfg.Chart.Width)
	assert.Equal(t, 400, cfg.Chart.Height)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadGlobalJSONC(t *testing.T) {
	dir, env := isolatedEnv(t)
	path := filepath.Join(dir, "config", "glycemia", "config.json")
	writeFile(t, path, `{
		// personal settings
		"alert": {"low_threshold": 65, "contact": "Ana 555-0100"},
		"chart": {"width": 1024,},
	}`)

	cfg, loaded, err := Load(Options{Env: env})
	require.NoError(t, err)

	assert.Equal(t, path, loaded)
	assert.Equal(t, 65, cfg.Alert.LowThreshold)
	assert.Equal(t, "Ana 555-0100", cfg.Alert.Contact)
	assert.Equal(t, 1024, cfg.Chart.Width)
	// Untouched fields keep their defaults
	assert.Equal(t, 400, cfg.Chart.Height)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	dir, env := isolatedEnv(t)

	_, _, err := Load(Options{Path: filepath.Join(dir, "missing.json"), Env: env})
	require.ErrorIs(t, err, errConfigFileNotFound)
}

func TestLoadInvalidJSONC(t *testing.T) {
	dir, env := isolatedEnv(t)
	path := filepath.Join(dir, "bad.json")
	writeFile(t, path, `{"chart": `)

	_, _, err := Load(Options{Path: path, Env: env})
	require.ErrorIs(t, err, errConfigInvalid)
	assert.Contains(t, err.Error(), "invalid JSONC")
}

func TestLoadEnvOverrides(t *testing.T) {
	_, env := isolatedEnv(t,
		"GLYCEMIA_DB_PATH=/tmp/g.db",
		"GLYCEMIA_ALERT_LOW_THRESHOLD=60",
		"GLYCEMIA_LOG_FORMAT=json",
		"GLYCEMIA_TIMEZONE=UTC",
	)

	cfg, _, err := Load(Options{Env: env})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/g.db", cfg.DBPath)
	assert.Equal(t, 60, cfg.Alert.LowThreshold)
	assert.Equal(t, "json", cfg.Log.Format)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadEnvNotANumber(t *testing.T) {
	_, env := isolatedEnv(t, "GLYCEMIA_CHART_WIDTH=wide")

	_, _, err := Load(Options{Env: env})
	require.ErrorIs(t, err, errConfigInvalid)
}

func TestLoadDotEnv(t *testing.T) {
	dir, env := isolatedEnv(t, "GLYCEMIA_CHART_HEIGHT=300")
	dotenv := filepath.Join(dir, ".env")
	writeFile(t, dotenv, "GLYCEMIA_ALERT_CONTACT=Bea\nGLYCEMIA_CHART_HEIGHT=200\n")

	cfg, _, err := Load(Options{DotEnv: dotenv, Env: env})
	require.NoError(t, err)

	assert.Equal(t, "Bea", cfg.Alert.Contact)
	// The real environment wins
	assert.Equal(t, 300, cfg.Chart.Height)
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	dir, env := isolatedEnv(t)

	_, _, err := Load(Options{DotEnv: filepath.Join(dir, ".env"), Env: env})
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	base := Default(nil)
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero threshold", func(c *Config) { c.Alert.LowThreshold = 0 }},
		{"zero chart width", func(c *Config) { c.Chart.Width = 0 }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), errConfigInvalid)
		})
	}
}
