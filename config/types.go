package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Multinet MultinetConfig `mapstructure:"multinet"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Safety   SafetyConfig   `mapstructure:"safety"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Update   UpdateConfig   `mapstructure:"update"`
}

// MultinetConfig holds Multinet API connection details
type MultinetConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UploadConfig tunes presigned uploads
type UploadConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	PartRetries int `mapstructure:"part_retries"`
}

// FilterConfig contains filter presets
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	DryRun        bool `mapstructure:"dry_run"`
	ConfirmDelete bool `mapstructure:"confirm_delete"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// UpdateConfig controls self-update
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
