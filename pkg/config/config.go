package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// ValidDeletionModes are the accepted per-kind deletion modes.
var ValidDeletionModes = []string{"safe", "aggressive", "smart"}

var validDays = map[string]bool{
	"*": true, "sun": true, "mon": true, "tue": true, "wed": true,
	"thu": true, "fri": true, "sat": true,
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("SWEEPARR")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1<<20)

	viper.SetDefault("database.path", "./data/index.db")
	viper.SetDefault("database.log_queries", false)

	viper.SetDefault("series_catalog.url", "http://localhost:8989")
	viper.SetDefault("series_catalog.api_key", "")
	viper.SetDefault("series_catalog.timeout", 45*time.Second)

	viper.SetDefault("movie_catalog.url", "http://localhost:7878")
	viper.SetDefault("movie_catalog.api_key", "")
	viper.SetDefault("movie_catalog.timeout", 45*time.Second)

	viper.SetDefault("refresh.interval_minutes", 0)

	viper.SetDefault("deletion.series_mode", "safe")
	viper.SetDefault("deletion.season_mode", "safe")

	viper.SetDefault("rate_limiting.webhook_rps", 10)
	viper.SetDefault("rate_limiting.webhook_burst", 20)

	viper.SetDefault("logging.level", "info")
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("series_catalog.api_key") == "" {
		fmt.Println("Warning: series catalog API key is not configured")
	}
	if viper.GetString("movie_catalog.api_key") == "" {
		fmt.Println("Warning: movie catalog API key is not configured")
	}

	for _, key := range []string{"deletion.series_mode", "deletion.season_mode"} {
		if !isValidDeletionMode(viper.GetString(key)) {
			return fmt.Errorf("invalid %s %q: must be one of %s",
				key, viper.GetString(key), strings.Join(ValidDeletionModes, ", "))
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg.Refresh.Validate()
}

func isValidDeletionMode(mode string) bool {
	for _, m := range ValidDeletionModes {
		if mode == m {
			return true
		}
	}
	return false
}

// Validate checks the refresh trigger configuration. Interval and cron
// schedule are mutually exclusive.
func (r RefreshConfig) Validate() error {
	if r.IntervalMinutes < 0 {
		return fmt.Errorf("refresh.interval_minutes must not be negative: %d", r.IntervalMinutes)
	}
	if r.IntervalMinutes > 0 && len(r.Schedule) > 0 {
		return fmt.Errorf("refresh.interval_minutes and refresh.schedule are mutually exclusive")
	}
	for i, spec := range r.Schedule {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("refresh.schedule[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks one schedule entry
func (s ScheduleSpec) Validate() error {
	day := strings.ToLower(s.Day)
	if day == "" {
		day = "*"
	}
	if !validDays[day] {
		return fmt.Errorf("invalid day %q", s.Day)
	}
	if s.Hour < 0 || s.Hour > 23 {
		return fmt.Errorf("invalid hour %d", s.Hour)
	}
	if s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("invalid minute %d", s.Minute)
	}
	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if !isValidDeletionMode(c.Deletion.SeriesMode) {
		return fmt.Errorf("invalid deletion.series_mode %q", c.Deletion.SeriesMode)
	}
	if !isValidDeletionMode(c.Deletion.SeasonMode) {
		return fmt.Errorf("invalid deletion.season_mode %q", c.Deletion.SeasonMode)
	}
	return c.Refresh.Validate()
}
