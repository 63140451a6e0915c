package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/portlink/streetturn/core/matching"
	"github.com/portlink/streetturn/core/metrics/eco"
)

// EcoSink aggregates matching runs into daily savings KPIs.
type EcoSink struct {
	store  eco.Store
	saving *prometheus.GaugeVec
	co2    *prometheus.GaugeVec
	pairs  *prometheus.GaugeVec
}

// NewEcoSink creates a sink with Prometheus gauges registered on reg.
func NewEcoSink(store eco.Store, reg prometheus.Registerer) (*EcoSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	saving := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "org_daily_cost_saving_vnd",
		Help: "Daily estimated cost saving per organization",
	}, []string{"org_id", "day"})
	co2 := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "org_daily_co2_saving_kg",
		Help: "Daily estimated CO2 saving per organization",
	}, []string{"org_id", "day"})
	pairs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "org_daily_suggested_pairs",
		Help: "Daily number of suggested pairs per organization",
	}, []string{"org_id", "day"})
	var err error
	if saving, err = register(reg, saving); err != nil {
		return nil, err
	}
	if co2, err = register(reg, co2); err != nil {
		return nil, err
	}
	if pairs, err = register(reg, pairs); err != nil {
		return nil, err
	}
	return &EcoSink{store: store, saving: saving, co2: co2, pairs: pairs}, nil
}

// RecordRun adds the run to the daily record and refreshes the gauges.
func (s *EcoSink) RecordRun(run matching.Run) error {
	rec := eco.FromRun(run)
	if err := s.store.Add(rec); err != nil {
		return fmt.Errorf("eco store add: %w", err)
	}
	records, err := s.store.Query(rec.OrgID, rec.Date, rec.Date)
	if err != nil {
		return fmt.Errorf("eco store query: %w", err)
	}
	if len(records) > 0 {
		rr := records[0]
		day := rr.Date.Format("2006-01-02")
		s.saving.WithLabelValues(rr.OrgID, day).Set(rr.CostSavingVND)
		s.co2.WithLabelValues(rr.OrgID, day).Set(rr.CO2SavingKg)
		s.pairs.WithLabelValues(rr.OrgID, day).Set(float64(rr.Pairs))
	}
	return nil
}
