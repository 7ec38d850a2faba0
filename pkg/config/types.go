package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig    `mapstructure:"server"`
	Database      DatabaseConfig  `mapstructure:"database"`
	SeriesCatalog CatalogConfig   `mapstructure:"series_catalog"`
	MovieCatalog  CatalogConfig   `mapstructure:"movie_catalog"`
	Refresh       RefreshConfig   `mapstructure:"refresh"`
	Deletion      DeletionConfig  `mapstructure:"deletion"`
	RateLimiting  RateLimitConfig `mapstructure:"rate_limiting"`
	Logging       LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains index store settings
type DatabaseConfig struct {
	Path       string `mapstructure:"path"`
	LogQueries bool   `mapstructure:"log_queries"`
}

// CatalogConfig contains connection settings for one catalog service
type CatalogConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RefreshConfig controls automatic index rebuilds. IntervalMinutes and
// Schedule are mutually exclusive; setting both is a startup error.
type RefreshConfig struct {
	IntervalMinutes int            `mapstructure:"interval_minutes"`
	Schedule        []ScheduleSpec `mapstructure:"schedule"`
}

// ScheduleSpec is one cron-style rebuild time. Day is a lowercase weekday
// name or "*" for every day.
type ScheduleSpec struct {
	Day    string `mapstructure:"day"`
	Hour   int    `mapstructure:"hour"`
	Minute int    `mapstructure:"minute"`
}

// DeletionConfig selects the deletion mode per item kind
type DeletionConfig struct {
	SeriesMode string `mapstructure:"series_mode"`
	SeasonMode string `mapstructure:"season_mode"`
}

// RateLimitConfig contains webhook rate limiting settings
type RateLimitConfig struct {
	WebhookRPS   int `mapstructure:"webhook_rps"`
	WebhookBurst int `mapstructure:"webhook_burst"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}
