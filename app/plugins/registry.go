// Package plugins holds the storage backends selectable from configuration
// and links the built-in metrics sinks and notifiers into the binary.
package plugins

import (
	"fmt"
	"io"
	"sort"

	"github.com/portlink/streetturn/config"
	"github.com/portlink/streetturn/core/matching/journal"
	"github.com/portlink/streetturn/core/metrics/eco"
)

// JournalFactory builds a run journal store from its configuration.
type JournalFactory func(cfg config.JournalConfig) (journal.Store, error)

// KPIFactory builds a savings KPI store. The closer is nil when the store
// holds no resources.
type KPIFactory func(cfg config.KPIConfig) (eco.Store, io.Closer, error)

var (
	JournalStores = map[string]JournalFactory{}
	KPIStores     = map[string]KPIFactory{}
)

func RegisterJournal(name string, f JournalFactory) { JournalStores[name] = f }
func RegisterKPI(name string, f KPIFactory)         { KPIStores[name] = f }

// NewJournal creates the journal store selected by cfg.Backend.
func NewJournal(cfg config.JournalConfig) (journal.Store, error) {
	f, ok := JournalStores[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown journal backend %q (known: %v)", cfg.Backend, names(JournalStores))
	}
	return f(cfg)
}

// NewKPIStore creates the KPI store selected by cfg.Backend.
func NewKPIStore(cfg config.KPIConfig) (eco.Store, io.Closer, error) {
	f, ok := KPIStores[cfg.Backend]
	if !ok {
		return nil, nil, fmt.Errorf("unknown kpi backend %q (known: %v)", cfg.Backend, names(KPIStores))
	}
	return f(cfg)
}

func names[F any](m map[string]F) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
