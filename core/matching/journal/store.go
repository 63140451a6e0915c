// Package journal persists a trace of every matching run so dispatchers can
// audit past suggestions and KPIs can be rebuilt.
package journal

import (
	"context"
	"time"

	"github.com/portlink/streetturn/core/matching"
)

// Record captures one matching run.
type Record struct {
	RunID     string           `json:"run_id"`
	OrgID     string           `json:"org_id"`
	Timestamp time.Time        `json:"timestamp"`
	Filters   matching.Filters `json:"filters"`
	Summary   matching.Summary `json:"summary"`
	Pairs     []Pair           `json:"pairs"`
	Skipped   int              `json:"skipped"`
}

// Pair is a flattened scored booking.
type Pair struct {
	ContainerID string            `json:"container_id"`
	BookingID   string            `json:"booking_id"`
	TotalScore  float64           `json:"total_score"`
	Scenario    matching.Scenario `json:"scenario"`
	DistanceKM  float64           `json:"distance_km"`
	CostSaving  float64           `json:"cost_saving"`
	CO2SavingKg float64           `json:"co2_saving_kg"`
}

// FromRun flattens a run into a Record.
func FromRun(run matching.Run) Record {
	rec := Record{
		RunID:     run.ID,
		OrgID:     run.OrgID,
		Timestamp: run.Timestamp,
		Filters:   run.Filters,
		Summary:   run.Summary,
		Skipped:   run.Skipped,
		Pairs:     []Pair{},
	}
	for _, sg := range run.Suggestions {
		for _, sb := range sg.Bookings {
			rec.Pairs = append(rec.Pairs, Pair{
				ContainerID: sg.Container.ID,
				BookingID:   sb.Booking.ID,
				TotalScore:  sb.Score.TotalScore,
				Scenario:    sb.Scenario,
				DistanceKM:  sb.DistanceKM,
				CostSaving:  sb.EstimatedCostSaving,
				CO2SavingKg: sb.EstimatedCO2SavingKg,
			})
		}
	}
	return rec
}

// Query defines filters for retrieving records.
type Query struct {
	Start       time.Time
	End         time.Time
	OrgID       string
	ContainerID string
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.OrgID != "" && r.OrgID != q.OrgID {
		return false
	}
	return q.hasContainer(r)
}

func (q Query) hasContainer(r Record) bool {
	if q.ContainerID == "" {
		return true
	}
	for _, p := range r.Pairs {
		if p.ContainerID == q.ContainerID {
			return true
		}
	}
	return false
}
