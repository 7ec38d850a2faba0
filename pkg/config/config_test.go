package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 5000},
		Deletion: DeletionConfig{
			SeriesMode: "safe",
			SeasonMode: "smart",
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "unknown series deletion mode",
			mutate:  func(c *Config) { c.Deletion.SeriesMode = "yolo" },
			wantErr: "deletion.series_mode",
		},
		{
			name:    "unknown season deletion mode",
			mutate:  func(c *Config) { c.Deletion.SeasonMode = "" },
			wantErr: "deletion.season_mode",
		},
		{
			name: "interval and schedule together",
			mutate: func(c *Config) {
				c.Refresh.IntervalMinutes = 30
				c.Refresh.Schedule = []ScheduleSpec{{Day: "mon", Hour: 3, Minute: 0}}
			},
			wantErr: "mutually exclusive",
		},
		{
			name:   "interval alone",
			mutate: func(c *Config) { c.Refresh.IntervalMinutes = 30 },
		},
		{
			name: "schedule alone",
			mutate: func(c *Config) {
				c.Refresh.Schedule = []ScheduleSpec{
					{Day: "*", Hour: 3, Minute: 0},
					{Day: "sun", Hour: 4, Minute: 30},
				}
			},
		},
		{
			name: "schedule with bad day",
			mutate: func(c *Config) {
				c.Refresh.Schedule = []ScheduleSpec{{Day: "someday", Hour: 3, Minute: 0}}
			},
			wantErr: "invalid day",
		},
		{
			name: "schedule with bad hour",
			mutate: func(c *Config) {
				c.Refresh.Schedule = []ScheduleSpec{{Day: "mon", Hour: 24, Minute: 0}}
			},
			wantErr: "invalid hour",
		},
		{
			name: "schedule with bad minute",
			mutate: func(c *Config) {
				c.Refresh.Schedule = []ScheduleSpec{{Day: "mon", Hour: 4, Minute: 61}}
			},
			wantErr: "invalid minute",
		},
		{
			name:    "negative interval",
			mutate:  func(c *Config) { c.Refresh.IntervalMinutes = -5 },
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestScheduleSpecDefaultsDayToEveryDay(t *testing.T) {
	spec := ScheduleSpec{Hour: 3, Minute: 0}
	assert.NoError(t, spec.Validate())
}
