package metrics

import (
	"time"

	"github.com/portlink/streetturn/core/matching"
)

// MetricsSink records matching runs for observability purposes.
type MetricsSink interface {
	RecordRun(run matching.Run) error
}

// SkipRecorder records pairs dropped because of data anomalies.
type SkipRecorder interface {
	RecordSkippedPairs(orgID string, n int) error
}

// RunLatency is the wall time spent on one run, source fetch included.
type RunLatency struct {
	OrgID    string
	Duration time.Duration
	Failed   bool
}

// LatencyRecorder is implemented by sinks able to record run latency.
type LatencyRecorder interface {
	RecordRunLatency(l RunLatency) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(matching.Run) error         { return nil }
func (NopSink) RecordSkippedPairs(string, int) error { return nil }
func (NopSink) RecordRunLatency(RunLatency) error    { return nil }
