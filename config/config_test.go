package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `matching:
  fallback_distance_km: 25
  defaults:
    max_distance_km: 80
    min_score: 40
server:
  addr: ":9000"
  api_token: "secret"
schedule:
  interval_seconds: 300
  organizations: ["org1", "org2"]
source:
  type: "file"
  path: "pool.yaml"
notifiers:
  - type: "mqtt"
    conf:
      broker: "tcp://localhost:1883"
metrics:
  prometheus_addr: ":2112"
  sinks:
    - type: "nop"
journal:
  backend: "sqlite"
  path: "runs.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"fallback_distance_km", cfg.Matching.FallbackDistanceKM, 25.0},
		{"partner_score default", *cfg.Matching.PartnerScore, 8.0},
		{"defaults.max_distance_km", *cfg.Matching.Defaults.MaxDistanceKM, 80.0},
		{"defaults.min_score", *cfg.Matching.Defaults.MinScore, 40.0},
		{"server.addr", cfg.Server.Addr, ":9000"},
		{"server.api_token", cfg.Server.APIToken, "secret"},
		{"server.read_timeout", cfg.Server.ReadTimeout, 10 * time.Second},
		{"schedule.interval", cfg.Schedule.Interval(), 5 * time.Minute},
		{"schedule.organizations", len(cfg.Schedule.Organizations), 2},
		{"source.path", cfg.Source.Path, "pool.yaml"},
		{"notifier", len(cfg.Notifiers) == 1 && cfg.Notifiers[0].Type == "mqtt", true},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"metrics.prometheus_addr", cfg.Metrics.PrometheusAddr, ":2112"},
		{"journal.backend", cfg.Journal.Backend, "sqlite"},
		{"kpi.backend", cfg.KPI.Backend, "memory"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
	assert.Nil(t, cfg.Matching.Defaults.MaxTimeHours)
	assert.Equal(t, "tcp://localhost:1883", cfg.Notifiers[0].Conf["broker"])
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "source": {"type": "postgres"},
  "postgres": {"dsn": "postgres://u:p@localhost/db", "query_timeout": "3s"},
  "kpi": {"backend": "sqlite"}
}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Source.Type)
	assert.Equal(t, 3*time.Second, cfg.Postgres.QueryTimeout)
	assert.Equal(t, int32(4), cfg.Postgres.MaxConns)
	assert.Equal(t, "kpi.db", cfg.KPI.Path)
	assert.Equal(t, "jsonl", cfg.Journal.Backend)
	assert.Equal(t, "runs.jsonl", cfg.Journal.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `source:
  path: "pool.yaml"
server:
  addr: ":9000"
`)
	t.Setenv("K_SERVER__ADDR", ":7000")
	t.Setenv("K_SENTRY__DSN", "https://key@example.com/1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "https://key@example.com/1", cfg.Sentry.DSN)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"unsupported format", "config.toml", "x = 1"},
		{"file source without path", "config.yaml", "source:\n  type: file\n"},
		{"unknown source", "config.yaml", "source:\n  type: ftp\n"},
		{"postgres without dsn", "config.yaml", "source:\n  type: postgres\n"},
		{"negative filter", "config.yaml", "source:\n  path: p.yaml\nmatching:\n  defaults:\n    max_distance_km: -1\n"},
		{"partner score range", "config.yaml", "source:\n  path: p.yaml\nmatching:\n  partner_score: 120\n"},
		{"schedule without orgs", "config.yaml", "source:\n  path: p.yaml\nschedule:\n  interval_seconds: 60\n"},
		{"unknown journal", "config.yaml", "source:\n  path: p.yaml\njournal:\n  backend: csv\n"},
		{"unknown kpi", "config.yaml", "source:\n  path: p.yaml\nkpi:\n  backend: redis\n"},
		{"sentry sample rate", "config.yaml", "source:\n  path: p.yaml\nsentry:\n  traces_sample_rate: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.data)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
