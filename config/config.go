// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration for manifest conversion.
type Config struct {
	// APIKey is the YouTube Data API key. No default is shipped; it must
	// come from the environment, the config file, or a flag.
	APIKey string `json:"api_key"`

	// Prefix is prepended to every URL at export time, with no separator.
	Prefix string `json:"prefix"`
	// FileName is the extension-less base name of the manifest artifact.
	FileName string `json:"file_name"`
	// OutputDir is the directory artifacts are written into.
	OutputDir string `json:"output_dir"`

	// RemoveInvalidLinks drops unparseable entries before export.
	RemoveInvalidLinks bool `json:"remove_invalid_links"`
	// DownloadThumbnails also writes one image artifact per entry.
	DownloadThumbnails bool `json:"download_thumbnails"`
	// UseCustomNames holds playlist loads for a naming flow instead of
	// appending them immediately.
	UseCustomNames bool `json:"use_custom_names"`

	// HTTPTimeout is the per-request timeout for thumbnail fetches.
	HTTPTimeout time.Duration `json:"http_timeout"`

	// MaxRetries is the maximum number of retries for failed API calls.
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries.
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries.
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1).
	BackoffMultiplier float64 `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		FileName:          "urls",
		OutputDir:         ".",
		HTTPTimeout:       30 * time.Second,
		MaxRetries:        3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and
// applies defaults. Priority: env vars > config file > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytmanifest.json in the current
// directory or home config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytmanifest.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytmanifest", "ytmanifest.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTMANIFEST_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTMANIFEST_PREFIX"); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv("YTMANIFEST_FILE_NAME"); v != "" {
		c.FileName = v
	}
	if v := os.Getenv("YTMANIFEST_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("YTMANIFEST_REMOVE_INVALID_LINKS"); v != "" {
		c.RemoveInvalidLinks = v == "true" || v == "1"
	}
	if v := os.Getenv("YTMANIFEST_DOWNLOAD_THUMBNAILS"); v != "" {
		c.DownloadThumbnails = v == "true" || v == "1"
	}
	if v := os.Getenv("YTMANIFEST_USE_CUSTOM_NAMES"); v != "" {
		c.UseCustomNames = v == "true" || v == "1"
	}
	if v := os.Getenv("YTMANIFEST_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("YTMANIFEST_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTMANIFEST_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTMANIFEST_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.FileName == "" {
		return fmt.Errorf("file_name must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
