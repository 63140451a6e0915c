package matching

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Run records one engine invocation for an organisation.
type Run struct {
	ID          string       `json:"id"`
	OrgID       string       `json:"org_id"`
	Timestamp   time.Time    `json:"timestamp"`
	Filters     Filters      `json:"filters"`
	Suggestions []Suggestion `json:"suggestions"`
	Summary     Summary      `json:"summary"`
	Skipped     int          `json:"skipped"`
	Rejected    int          `json:"rejected"`
}

// Summary aggregates the scored pairs of a run.
type Summary struct {
	Containers       int              `json:"containers"`
	Pairs            int              `json:"pairs"`
	MeanScore        float64          `json:"mean_score"`
	StdDevScore      float64          `json:"stddev_score"`
	TotalCostSaving  float64          `json:"total_cost_saving"`
	TotalCO2SavingKg float64          `json:"total_co2_saving_kg"`
	ScenarioCounts   map[Scenario]int `json:"scenario_counts"`
}

// Summarize computes run statistics over the suggestions.
func Summarize(suggestions []Suggestion) Summary {
	s := Summary{Containers: len(suggestions), ScenarioCounts: map[Scenario]int{}}
	var scores []float64
	for _, sg := range suggestions {
		s.TotalCostSaving += sg.TotalEstimatedCostSaving
		s.TotalCO2SavingKg += sg.TotalEstimatedCO2SavingKg
		for _, b := range sg.Bookings {
			scores = append(scores, b.Score.TotalScore)
			s.ScenarioCounts[b.Scenario]++
		}
	}
	s.Pairs = len(scores)
	switch {
	case len(scores) == 1:
		s.MeanScore = scores[0]
	case len(scores) > 1:
		s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	}
	return s
}

// NewRun wraps an engine result into a Run.
func NewRun(id, orgID string, ts time.Time, f Filters, res Result) Run {
	return Run{
		ID:          id,
		OrgID:       orgID,
		Timestamp:   ts,
		Filters:     f,
		Suggestions: res.Suggestions,
		Summary:     Summarize(res.Suggestions),
		Skipped:     res.Skipped,
		Rejected:    res.Rejected,
	}
}
