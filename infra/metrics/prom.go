package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/portlink/streetturn/core/matching"
	coremetrics "github.com/portlink/streetturn/core/metrics"
)

// PromSink records matching runs in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	suggestions *prometheus.CounterVec
	score       *prometheus.HistogramVec
	costSaving  *prometheus.CounterVec
	co2Saving   *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewPromSink registers matching metrics on the default Prometheus registerer.
// The /metrics endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "match_runs_total",
			Help: "Total number of matching runs",
		}, []string{"org_id"}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "match_suggestions_total",
			Help: "Scored container/booking pairs by scenario",
		}, []string{"org_id", "scenario"}),
		score: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "match_score",
			Help:    "Distribution of total matching scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}, []string{"org_id"}),
		costSaving: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "match_cost_saving_vnd_total",
			Help: "Estimated trucking cost saving of suggested pairs in VND",
		}, []string{"org_id"}),
		co2Saving: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "match_co2_saving_kg_total",
			Help: "Estimated CO2 saving of suggested pairs in kilograms",
		}, []string{"org_id"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "match_pairs_skipped_total",
			Help: "Pairs skipped because of missing timestamps or coordinates",
		}, []string{"org_id"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "match_run_duration_seconds",
			Help:    "Wall time of a matching run including the pool fetch",
			Buckets: prometheus.DefBuckets,
		}, []string{"org_id", "failed"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.suggestions, err = register(reg, s.suggestions); err != nil {
		return nil, err
	}
	if s.score, err = register(reg, s.score); err != nil {
		return nil, err
	}
	if s.costSaving, err = register(reg, s.costSaving); err != nil {
		return nil, err
	}
	if s.co2Saving, err = register(reg, s.co2Saving); err != nil {
		return nil, err
	}
	if s.skipped, err = register(reg, s.skipped); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates the run, scenario, score and saving metrics.
func (s *PromSink) RecordRun(run matching.Run) error {
	s.runs.WithLabelValues(run.OrgID).Inc()
	for _, sg := range run.Suggestions {
		for _, b := range sg.Bookings {
			s.suggestions.WithLabelValues(run.OrgID, string(b.Scenario)).Inc()
			s.score.WithLabelValues(run.OrgID).Observe(b.Score.TotalScore)
		}
	}
	s.costSaving.WithLabelValues(run.OrgID).Add(run.Summary.TotalCostSaving)
	s.co2Saving.WithLabelValues(run.OrgID).Add(run.Summary.TotalCO2SavingKg)
	return nil
}

// RecordSkippedPairs counts pairs dropped for data anomalies.
func (s *PromSink) RecordSkippedPairs(orgID string, n int) error {
	if n > 0 {
		s.skipped.WithLabelValues(orgID).Add(float64(n))
	}
	return nil
}

// RecordRunLatency observes the duration of a run.
func (s *PromSink) RecordRunLatency(l coremetrics.RunLatency) error {
	failed := "false"
	if l.Failed {
		failed = "true"
	}
	s.latency.WithLabelValues(l.OrgID, failed).Observe(l.Duration.Seconds())
	return nil
}
