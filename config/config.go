// Package config loads the service configuration from a YAML or JSON file
// with K_-prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/portlink/streetturn/core/factory"
	"github.com/portlink/streetturn/core/matching"
	"github.com/portlink/streetturn/core/metrics"
	"github.com/portlink/streetturn/infra/postgres"
)

type Config struct {
	Matching  matching.Config        `json:"matching"`
	Server    ServerConfig           `json:"server"`
	Schedule  ScheduleConfig         `json:"schedule"`
	Source    SourceConfig           `json:"source"`
	Postgres  postgres.Config        `json:"postgres"`
	Notifiers []factory.ModuleConfig `json:"notifiers"`
	Metrics   metrics.Config         `json:"metrics"`
	Journal   JournalConfig          `json:"journal"`
	KPI       KPIConfig              `json:"kpi"`
	Sentry    SentryConfig           `json:"sentry"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Matching.SetDefaults()
	c.Server.SetDefaults()
	c.Source.SetDefaults()
	c.Journal.SetDefaults()
	c.KPI.SetDefaults()
	c.Sentry.SetDefaults()
	if c.Source.Type == "postgres" {
		c.Postgres.SetDefaults()
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Matching.Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if err := c.Schedule.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if c.Source.Type == "postgres" {
		if err := c.Postgres.Validate(); err != nil {
			return err
		}
	}
	if err := c.Journal.Validate(); err != nil {
		return err
	}
	if err := c.KPI.Validate(); err != nil {
		return err
	}
	return c.Sentry.Validate()
}
