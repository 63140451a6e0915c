// Package ecokpi rebuilds daily savings KPIs from the run journal.
package ecokpi

import (
	"context"
	"fmt"
	"time"

	"github.com/portlink/streetturn/core/matching/journal"
	eco "github.com/portlink/streetturn/core/metrics/eco"
)

// Backfill rebuilds the daily records covered by history and replaces them
// in the store, so replaying the same history twice yields the same totals.
// It returns the number of runs replayed.
func Backfill(store eco.Store, history []journal.Record) (int, error) {
	type key struct {
		org string
		day time.Time
	}
	days := map[key]*eco.Record{}
	var order []key
	for _, h := range history {
		r := FromJournal(h)
		k := key{r.OrgID, r.Date}
		agg := days[k]
		if agg == nil {
			agg = &eco.Record{OrgID: r.OrgID, Date: r.Date}
			days[k] = agg
			order = append(order, k)
		}
		agg.Merge(r)
	}
	for _, k := range order {
		if err := store.Put(*days[k]); err != nil {
			return 0, fmt.Errorf("backfill %s %s: %w", k.org, k.day.Format(time.DateOnly), err)
		}
	}
	return len(history), nil
}

// BackfillFromJournal queries the journal and backfills the matching records.
// The query range is widened to whole days so no day is rebuilt from a part
// of its runs.
func BackfillFromJournal(ctx context.Context, src journal.Store, store eco.Store, q journal.Query) (int, error) {
	if !q.Start.IsZero() {
		q.Start = eco.Day(q.Start)
	}
	if !q.End.IsZero() {
		q.End = eco.Day(q.End).Add(24*time.Hour - time.Nanosecond)
	}
	recs, err := src.Query(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("query journal: %w", err)
	}
	return Backfill(store, recs)
}

// FromJournal converts a journal record into a daily KPI contribution.
func FromJournal(r journal.Record) eco.Record {
	containers := map[string]struct{}{}
	for _, p := range r.Pairs {
		containers[p.ContainerID] = struct{}{}
	}
	return eco.Record{
		OrgID:         r.OrgID,
		Date:          eco.Day(r.Timestamp),
		Runs:          1,
		Suggestions:   len(containers),
		Pairs:         len(r.Pairs),
		CostSavingVND: r.Summary.TotalCostSaving,
		CO2SavingKg:   r.Summary.TotalCO2SavingKg,
	}
}
