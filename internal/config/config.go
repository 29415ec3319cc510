// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// fintrack.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.fintrack/config.toml
//   - ~/.fintrack/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/fintrack-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete fintrack configuration.
type Config struct {
	// APIBaseURL is the backend base URL. A single value on purpose: the
	// deployed web client drifted between two hosts, which this replaces.
	APIBaseURL string `toml:"api_base_url" json:"api_base_url"`

	// TimeoutSecs is the per-request HTTP timeout in seconds.
	// Clamped to 5-120.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`

	// Cache holds per-resource freshness windows.
	Cache CacheConfig `toml:"cache" json:"cache"`

	// UI holds display preferences.
	UI UIConfig `toml:"ui" json:"ui"`
}

// CacheConfig contains freshness windows, in seconds, per resource kind.
// Zero means "use the default window" (10 minutes, matching the deployed
// web client), not "never expires".
type CacheConfig struct {
	DefaultSecs       int `toml:"default_secs" json:"default_secs"`
	BalanceSecs       int `toml:"balance_secs" json:"balance_secs"`
	AccountsSecs      int `toml:"accounts_secs" json:"accounts_secs"`
	TransactionsSecs  int `toml:"transactions_secs" json:"transactions_secs"`
	BudgetSecs        int `toml:"budget_secs" json:"budget_secs"`
	SavingsSecs       int `toml:"savings_secs" json:"savings_secs"`
	NotificationsSecs int `toml:"notifications_secs" json:"notifications_secs"`
}

// UIConfig contains display preferences.
type UIConfig struct {
	// Theme is "dark", "light", or "auto" (terminal detection).
	Theme string `toml:"theme" json:"theme"`
	// DateFormat is a Go reference-time layout for transaction dates.
	DateFormat string `toml:"date_format" json:"date_format"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default timeout and clamping bounds for HTTP requests.
const (
	DefaultTimeoutSecs = 20
	MinTimeoutSecs     = 5
	MaxTimeoutSecs     = 120
)

// DefaultFreshnessSecs is the default cache freshness window (10 minutes).
const DefaultFreshnessSecs = 600

// Default returns the default fintrack configuration.
func Default() *Config {
	return &Config{
		APIBaseURL:  "https://financial-tracker-api.onrender.com",
		TimeoutSecs: DefaultTimeoutSecs,
		Cache: CacheConfig{
			DefaultSecs: DefaultFreshnessSecs,
		},
		UI: UIConfig{
			Theme:      "auto",
			DateFormat: "Jan 2, 2006",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Freshness returns the freshness window for a resource kind.
// Unknown kinds and unset values fall back to the default window.
func (c *Config) Freshness(resource string) time.Duration {
	secs := 0
	switch resource {
	case "balance":
		secs = c.Cache.BalanceSecs
	case "accounts":
		secs = c.Cache.AccountsSecs
	case "transactions":
		secs = c.Cache.TransactionsSecs
	case "budget":
		secs = c.Cache.BudgetSecs
	case "savings":
		secs = c.Cache.SavingsSecs
	case "notifications":
		secs = c.Cache.NotificationsSecs
	}
	if secs <= 0 {
		secs = c.Cache.DefaultSecs
	}
	if secs <= 0 {
		secs = DefaultFreshnessSecs
	}
	return time.Duration(secs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the fintrack configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".fintrack"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last, then validation.
func Load() (*Config, error) {
	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}
	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from an explicit file path.
// The format is chosen by file extension (.toml or .json).
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML file: %w", err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the TOML config file atomically.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - FINTRACK_API_URL: overrides api_base_url
//   - FINTRACK_TIMEOUT_SECS: overrides timeout_secs
//   - FINTRACK_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("FINTRACK_API_URL"); u != "" {
		c.APIBaseURL = u
	}
	if secs := os.Getenv("FINTRACK_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil {
			c.TimeoutSecs = n
		}
	}
	if theme := os.Getenv("FINTRACK_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks configuration values and clamps out-of-range numbers.
func (c *Config) Validate() error {
	c.APIBaseURL = strings.TrimSuffix(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api_base_url %q is not a valid URL", c.APIBaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api_base_url scheme %q is not supported", parsed.Scheme)
	}

	// Clamp rather than reject: a bad timeout should not lock the user out
	// of their dashboard.
	if c.TimeoutSecs < MinTimeoutSecs {
		c.TimeoutSecs = MinTimeoutSecs
	}
	if c.TimeoutSecs > MaxTimeoutSecs {
		c.TimeoutSecs = MaxTimeoutSecs
	}

	switch c.UI.Theme {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.theme %q is not one of auto, dark, light", c.UI.Theme)
	}
	if c.UI.DateFormat == "" {
		c.UI.DateFormat = "Jan 2, 2006"
	}
	return nil
}
