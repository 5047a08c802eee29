// Package config loads the glycemia configuration.
//
// Precedence, lowest first: defaults, the JSONC config file, the .env file,
// GLYCEMIA_* environment variables. CLI flags are applied by the caller.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"
)

var (
	errConfigInvalid      = errors.New("invalid config")
	errConfigFileNotFound = errors.New("config file not found")
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GLYCEMIA_"

// Config holds all configuration options.
type Config struct {
	DBPath   string `json:"db_path"`
	Timezone string `json:"timezone,omitempty"`
	Log      Log    `json:"log"`
	Alert    Alert  `json:"alert"`
	Chart    Chart  `json:"chart"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Alert configures the low reading alert.
type Alert struct {
	LowThreshold int    `json:"low_threshold"`
	Contact      string `json:"contact,omitempty"`
}

// Chart sets the default chart size in pixels.
type Chart struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Options locates the configuration sources.
type Options struct {
	// Path is an explicit config file. It must exist when set.
	Path string
	// DotEnv is the .env file to read. A missing file is ignored.
	DotEnv string
	// Env is the process environment as KEY=VALUE pairs.
	Env []string
}

// Default returns the default configuration.
func Default(env []string) Config {
	return Config{
		DBPath: defaultDBPath(env),
		Log:    Log{Level: "info", Format: "console"},
		Alert:  Alert{LowThreshold: 70},
		Chart:  Chart{Width: 800, Height: 400},
	}
}

// Load builds the configuration. It returns the config file path it read, if any.
func Load(opts Options) (Config, string, error) {
	env := envMap(opts.Env)
	cfg := Default(opts.Env)

	path, mustExist := opts.Path, true
	if path == "" {
		path, mustExist = globalConfigPath(env), false
	}

	loaded := ""
	if path != "" {
		ok, err := loadFile(path, mustExist, &cfg)
		if err != nil {
			return Config{}, "", err
		}
		if ok {
			loaded = path
		}
	}

	if opts.DotEnv != "" {
		dotenv, err := godotenv.Read(opts.DotEnv)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, "", fmt.Errorf("%w %s: %w", errConfigInvalid, opts.DotEnv, err)
		}
		// Real environment wins over .env
		for k, v := range dotenv {
			if _, set := env[k]; !set {
				env[k] = v
			}
		}
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, "", err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, loaded, nil
}

func loadFile(path string, mustExist bool, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
			}
			return false, nil
		}
		return false, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := parse(data, cfg); err != nil {
		return false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	return true, nil
}

// parse decodes JSONC over cfg, leaving absent fields untouched.
func parse(data []byte, cfg *Config) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}
	if err := json.Unmarshal(standardized, cfg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, env map[string]string) error {
	strs := map[string]*string{
		"DB_PATH":       &cfg.DBPath,
		"TIMEZONE":      &cfg.Timezone,
		"LOG_LEVEL":     &cfg.Log.Level,
		"LOG_FORMAT":    &cfg.Log.Format,
		"ALERT_CONTACT": &cfg.Alert.Contact,
	}
	for name, dst := range strs {
		if v, ok := env[EnvPrefix+name]; ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"ALERT_LOW_THRESHOLD": &cfg.Alert.LowThreshold,
		"CHART_WIDTH":         &cfg.Chart.Width,
		"CHART_HEIGHT":        &cfg.Chart.Height,
	}
	for name, dst := range ints {
		v, ok := env[EnvPrefix+name]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not a number", errConfigInvalid, EnvPrefix, name, v)
		}
		*dst = n
	}
	return nil
}

// Validate checks the config for values the tracker cannot run with.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path is empty", errConfigInvalid)
	}
	if c.Alert.LowThreshold < 1 || c.Alert.LowThreshold > 600 {
		return fmt.Errorf("%w: alert.low_threshold %d out of range", errConfigInvalid, c.Alert.LowThreshold)
	}
	if c.Chart.Width < 1 || c.Chart.Height < 1 {
		return fmt.Errorf("%w: chart size %dx%d", errConfigInvalid, c.Chart.Width, c.Chart.Height)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format %q", errConfigInvalid, c.Log.Format)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	return nil
}

// Location returns the configured timezone, or the local zone when unset.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func envMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, e := range env {
		if k, v, ok := strings.Cut(e, "="); ok {
			m[k] = v
		}
	}
	return m
}

// globalConfigPath uses $XDG_CONFIG_HOME/glycemia/config.json, else ~/.config/glycemia/config.json.
func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "glycemia", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "glycemia", "config.json")
}

func defaultDBPath(env []string) string {
	if xdg := envMap(env)["XDG_DATA_HOME"]; xdg != "" {
		return filepath.Join(xdg, "glycemia", "glycemia.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "glycemia.db"
	}
	return filepath.Join(home, ".local", "share", "glycemia", "glycemia.db")
}
