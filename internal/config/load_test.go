package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if *cfg != *def {
		t.Errorf("config = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "target_lang: fr\nmax_concurrent: 7\nsuppress_markup: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TargetLang != "fr" {
		t.Errorf("TargetLang = %q, want 'fr'", cfg.TargetLang)
	}
	if cfg.MaxConcurrent != 7 {
		t.Errorf("MaxConcurrent = %d, want 7", cfg.MaxConcurrent)
	}
	if !cfg.SuppressMarkup {
		t.Error("SuppressMarkup should be true")
	}
	// Untouched fields keep their defaults.
	if cfg.MaxRetries != Default().MaxRetries {
		t.Errorf("MaxRetries = %d, want default %d", cfg.MaxRetries, Default().MaxRetries)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("target_lang: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestConfig_CacheMaxAge(t *testing.T) {
	c := &Config{CacheMaxAgeDays: 2}
	if got := c.CacheMaxAge(); got != 48*time.Hour {
		t.Errorf("CacheMaxAge = %v, want 48h", got)
	}
}

func TestConfig_ResolvedCacheDirOverride(t *testing.T) {
	c := &Config{CacheDir: "/tmp/custom"}
	if got := c.ResolvedCacheDir(); got != "/tmp/custom" {
		t.Errorf("ResolvedCacheDir = %q, want '/tmp/custom'", got)
	}
	c.CacheDir = ""
	if got := c.ResolvedCacheDir(); got == "" {
		t.Error("ResolvedCacheDir should never be empty")
	}
}
