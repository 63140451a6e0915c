package plugins

import (
	"io"

	"github.com/portlink/streetturn/config"
	"github.com/portlink/streetturn/core/matching/journal"
	"github.com/portlink/streetturn/core/metrics/eco"
	"github.com/portlink/streetturn/infra/kpi"

	// Built-in metrics sinks and notifiers register themselves on import.
	_ "github.com/portlink/streetturn/infra/metrics"
	_ "github.com/portlink/streetturn/infra/mqtt"
	_ "github.com/portlink/streetturn/infra/rabbitmq"
)

func init() {
	RegisterJournal("jsonl", func(cfg config.JournalConfig) (journal.Store, error) {
		if cfg.MaxSizeMB > 0 {
			return journal.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		return journal.NewJSONLStore(cfg.Path)
	})
	RegisterJournal("sqlite", func(cfg config.JournalConfig) (journal.Store, error) {
		return journal.NewSQLiteStore(cfg.Path)
	})

	RegisterKPI("memory", func(config.KPIConfig) (eco.Store, io.Closer, error) {
		return eco.NewMemoryStore(), nil, nil
	})
	RegisterKPI("sqlite", func(cfg config.KPIConfig) (eco.Store, io.Closer, error) {
		s, err := kpi.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	})
}
