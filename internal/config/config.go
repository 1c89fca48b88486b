// Package config holds the application configuration: defaults, the YAML
// config file and derived paths.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const appDirName = "translate-subs"

// Config holds the full application configuration.
type Config struct {
	// Languages. SourceLang "auto" lets the service detect.
	SourceLang string `yaml:"source_lang"`
	TargetLang string `yaml:"target_lang"`

	// SuppressMarkup drops font/color tags from rendered output instead of
	// reattaching them around the translated text.
	SuppressMarkup bool `yaml:"suppress_markup"`

	// Translation service tuning.
	BatchMaxChars      int `yaml:"batch_max_chars"`
	MaxConcurrent      int `yaml:"max_concurrent"`
	MaxRetries         int `yaml:"max_retries"`
	APIRateLimitPerMin int `yaml:"rate_limit_per_min"`

	// Cache of translated files. CacheDir "" means the user cache dir.
	CacheDir        string `yaml:"cache_dir"`
	CacheMaxAgeDays int    `yaml:"cache_max_age_days"`
}

// Default returns a Config with hardcoded defaults.
func Default() *Config {
	return &Config{
		SourceLang:         "auto",
		TargetLang:         "en",
		SuppressMarkup:     false,
		BatchMaxChars:      4000,
		MaxConcurrent:      3,
		MaxRetries:         3,
		APIRateLimitPerMin: 30,
		CacheDir:           "",
		CacheMaxAgeDays:    30,
	}
}

// CacheMaxAge returns the cache retention as a duration.
func (c *Config) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeDays) * 24 * time.Hour
}

// ResolvedCacheDir returns CacheDir, or the per-user default when unset.
func (c *Config) ResolvedCacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName)
	}
	return filepath.Join(base, appDirName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, appDirName, "config.yaml")
}
