package eco

import (
	"time"

	"github.com/portlink/streetturn/core/matching"
)

// Record aggregates the savings suggested for one organization and day.
type Record struct {
	OrgID         string    `json:"org_id"`
	Date          time.Time `json:"date"`
	Runs          int       `json:"runs"`
	Suggestions   int       `json:"suggestions"`
	Pairs         int       `json:"pairs"`
	CostSavingVND float64   `json:"cost_saving_vnd"`
	CO2SavingKg   float64   `json:"co2_saving_kg"`
}

// FromRun converts a matching run into a daily record contribution.
func FromRun(run matching.Run) Record {
	return Record{
		OrgID:         run.OrgID,
		Date:          Day(run.Timestamp),
		Runs:          1,
		Suggestions:   len(run.Suggestions),
		Pairs:         run.Summary.Pairs,
		CostSavingVND: run.Summary.TotalCostSaving,
		CO2SavingKg:   run.Summary.TotalCO2SavingKg,
	}
}

// SavingPerPair returns the mean cost saving of a suggested pair.
func (r Record) SavingPerPair() float64 {
	if r.Pairs == 0 {
		return 0
	}
	return r.CostSavingVND / float64(r.Pairs)
}

// Merge accumulates o into r. Identity fields are left untouched.
func (r *Record) Merge(o Record) {
	r.Runs += o.Runs
	r.Suggestions += o.Suggestions
	r.Pairs += o.Pairs
	r.CostSavingVND += o.CostSavingVND
	r.CO2SavingKg += o.CO2SavingKg
}
