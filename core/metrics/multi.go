package metrics

import (
	"errors"

	"github.com/portlink/streetturn/core/matching"
)

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to every sink. A failing sink does not keep the
// run from the others; all errors are joined.
func (m *MultiSink) RecordRun(run matching.Run) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordRun(run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordSkippedPairs forwards skip counts when supported by the sink.
func (m *MultiSink) RecordSkippedPairs(orgID string, n int) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(SkipRecorder); ok {
			if err := rec.RecordSkippedPairs(orgID, n); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordRunLatency forwards latency when supported by the sink.
func (m *MultiSink) RecordRunLatency(l RunLatency) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(LatencyRecorder); ok {
			if err := rec.RecordRunLatency(l); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks that hold resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
