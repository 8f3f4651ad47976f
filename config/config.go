package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from file. Without an explicit path a
// missing config file is not an error; defaults and MULTINET_* environment
// variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix("multinet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".multinet"))
		}

		// Check /etc
		v.AddConfigPath("/etc/multinet/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Multinet defaults
	v.SetDefault("multinet.url", "http://localhost:8000/api")
	v.SetDefault("multinet.token", "")
	v.SetDefault("multinet.timeout", "30s")

	// Upload defaults
	v.SetDefault("upload.concurrency", 4)
	v.SetDefault("upload.part_retries", 3)

	// Safety defaults
	v.SetDefault("safety.dry_run", false)
	v.SetDefault("safety.confirm_delete", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("update.repository", "multinet-app/multinet-go")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Multinet.URL == "" {
		return fmt.Errorf("multinet.url is required")
	}

	u, err := url.Parse(cfg.Multinet.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("multinet.url must be an absolute URL: %s", cfg.Multinet.URL)
	}

	if cfg.Multinet.Timeout < 0 {
		return fmt.Errorf("multinet.timeout must not be negative")
	}

	if cfg.Upload.Concurrency < 1 {
		return fmt.Errorf("upload.concurrency must be at least 1")
	}
	if cfg.Upload.PartRetries < 0 {
		return fmt.Errorf("upload.part_retries must not be negative")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	return nil
}
