package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FileName != "urls" {
		t.Errorf("FileName = %q, want urls", cfg.FileName)
	}
	if cfg.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", cfg.OutputDir)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("YTMANIFEST_API_KEY", "env-key")
	t.Setenv("YTMANIFEST_PREFIX", "https://proxy/")
	t.Setenv("YTMANIFEST_FILE_NAME", "mylist")
	t.Setenv("YTMANIFEST_REMOVE_INVALID_LINKS", "true")
	t.Setenv("YTMANIFEST_DOWNLOAD_THUMBNAILS", "1")
	t.Setenv("YTMANIFEST_MAX_RETRIES", "5")
	t.Setenv("YTMANIFEST_INITIAL_BACKOFF", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Prefix != "https://proxy/" {
		t.Errorf("Prefix = %q", cfg.Prefix)
	}
	if cfg.FileName != "mylist" {
		t.Errorf("FileName = %q", cfg.FileName)
	}
	if !cfg.RemoveInvalidLinks || !cfg.DownloadThumbnails {
		t.Error("boolean toggles not applied")
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.InitialBackoff != 250*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 250ms", cfg.InitialBackoff)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ytmanifest.json")
	if err := os.WriteFile(file, []byte(`{"api_key":"file-key","prefix":"file-prefix"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	t.Setenv("YTMANIFEST_API_KEY", "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env to win over file", cfg.APIKey)
	}
	if cfg.Prefix != "file-prefix" {
		t.Errorf("Prefix = %q, want file value to survive", cfg.Prefix)
	}
}

func TestLoadBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ytmanifest.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded with malformed config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty file name", func(c *Config) { c.FileName = "" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"zero initial backoff", func(c *Config) { c.InitialBackoff = 0 }},
		{"max below initial", func(c *Config) { c.MaxBackoff = c.InitialBackoff / 2 }},
		{"multiplier too small", func(c *Config) { c.BackoffMultiplier = 1.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate passed, want error")
			}
		})
	}
}
