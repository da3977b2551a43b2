package config

import (
	"os"
	"path/filepath"
	"strconv"

	"docugen/domain/docs"
	"docugen/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Output   OutputConfig
	Uploads  UploadConfig
	Database DatabaseConfig
	Ops      OpsConfig
	Branding BrandingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// OutputConfig holds generated-document destination settings
type OutputConfig struct {
	Dir string
}

// UploadConfig holds upload staging settings
type UploadConfig struct {
	MaxRosterMB int
	StagingDir  string
}

// DatabaseConfig holds the optional generation-history store settings.
// History is disabled entirely when URL is empty.
type DatabaseConfig struct {
	URL string
}

// OpsConfig holds the health/history/pprof sidecar settings
type OpsConfig struct {
	Enabled bool
	Port    string
}

// BrandingConfig points at the optional layout override file
type BrandingConfig struct {
	File string
}

// Enabled reports whether the history store is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// MaxRosterBytes returns the roster upload cap in bytes
func (u UploadConfig) MaxRosterBytes() int64 {
	return int64(u.MaxRosterMB) * 1024 * 1024
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Output: OutputConfig{
			Dir: getEnvOrDefault("OUTPUT_DIR", "output"),
		},
		Uploads: UploadConfig{
			MaxRosterMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 10),
			StagingDir:  getEnvOrDefault("STAGING_DIR", filepath.Join(os.TempDir(), "docugen")),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Ops: OpsConfig{
			Enabled: getEnvBoolOrDefault("OPS_ENABLED", false),
			Port:    getEnvOrDefault("OPS_PORT", "6060"),
		},
		Branding: BrandingConfig{
			File: getEnvOrDefault("BRANDING_FILE", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR cannot be empty")
	}
	if config.Uploads.MaxRosterMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Ops.Enabled && config.Ops.Port == "" {
		return errors.ConfigInvalid("OPS_PORT cannot be empty when the ops server is enabled")
	}
	return nil
}

// LoadLayout resolves the document layout: stock defaults when path is
// empty, otherwise defaults overlaid with the branding YAML file.
func LoadLayout(path string) (docs.Layout, error) {
	layout := docs.DefaultLayout()
	if path == "" {
		return layout, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return layout, errors.Wrapf(err, "failed to read branding file %s", path)
	}

	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, errors.Wrapf(err, "failed to parse branding file %s", path)
	}

	if err := layout.Validate(); err != nil {
		return layout, errors.Wrap(err, "branding file rejected")
	}

	return layout, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
