package config

import (
	"fmt"
	"time"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr"`
	// APIToken protects the run journal endpoint when set.
	APIToken     string        `json:"api_token"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
}

// ScheduleConfig drives the periodic matching runs.
type ScheduleConfig struct {
	// IntervalSeconds between two runs of every organization. Zero disables
	// scheduled runs; on-demand requests still work.
	IntervalSeconds int      `json:"interval_seconds"`
	Organizations   []string `json:"organizations"`
}

// Interval returns the run period.
func (c ScheduleConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Validate checks value ranges.
func (c ScheduleConfig) Validate() error {
	if c.IntervalSeconds < 0 {
		return fmt.Errorf("schedule interval_seconds must not be negative")
	}
	if c.IntervalSeconds > 0 && len(c.Organizations) == 0 {
		return fmt.Errorf("schedule requires at least one organization")
	}
	return nil
}

// SourceConfig selects where candidate pools are read from.
type SourceConfig struct {
	// Type is "file" or "postgres".
	Type string `json:"type"`
	// Path of the pool file for the file source.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *SourceConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "file"
	}
}

// Validate checks mandatory fields.
func (c SourceConfig) Validate() error {
	switch c.Type {
	case "file":
		if c.Path == "" {
			return fmt.Errorf("source path is required for the file source")
		}
	case "postgres":
	default:
		return fmt.Errorf("unknown source type %s", c.Type)
	}
	return nil
}

// KPIConfig selects the savings KPI store.
type KPIConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *KPIConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "kpi.db"
	}
}

// Validate checks mandatory fields.
func (c KPIConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown kpi backend %s", c.Backend)
	}
	return nil
}
