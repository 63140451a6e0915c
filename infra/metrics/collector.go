package metrics

import (
	"github.com/portlink/streetturn/core/matching"
	coremetrics "github.com/portlink/streetturn/core/metrics"
	"github.com/portlink/streetturn/infra/logger"
	"github.com/portlink/streetturn/internal/eventbus"
)

// StartRunCollector subscribes to the run bus and records every published
// run on the sink. It drains the subscription until the bus is closed, so
// runs published during shutdown are still recorded. The returned channel is
// closed once the collector has exited.
func StartRunCollector(bus *eventbus.Bus[matching.Run], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		for run := range sub {
			if err := sink.RecordRun(run); err != nil {
				log.Errorf("record run %s: %v", run.ID, err)
			}
			if rec, ok := sink.(coremetrics.SkipRecorder); ok {
				if err := rec.RecordSkippedPairs(run.OrgID, run.Skipped); err != nil {
					log.Errorf("record skipped pairs: %v", err)
				}
			}
		}
	}()
	return done
}
