package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/portlink/streetturn/core/matching"
	"github.com/portlink/streetturn/core/model"
)

func sampleRun(id, org string, ts time.Time) matching.Run {
	sg := matching.Suggestion{
		Container: model.DropOffContainer{ID: "c-" + id},
		Bookings: []matching.ScoredBooking{{
			Booking:             model.PickupBooking{ID: "b-" + id},
			Score:               matching.Score{TotalScore: 80},
			Scenario:            matching.ScenarioMarketplaceEfficient,
			EstimatedCostSaving: 1000,
		}},
		TotalEstimatedCostSaving: 1000,
	}
	res := matching.Result{Suggestions: []matching.Suggestion{sg}}
	return matching.NewRun(id, org, ts, matching.Filters{}, res)
}

func TestFromRun(t *testing.T) {
	rec := FromRun(sampleRun("r1", "org-1", time.Now()))
	if len(rec.Pairs) != 1 {
		t.Fatalf("expected 1 pair got %d", len(rec.Pairs))
	}
	p := rec.Pairs[0]
	if p.ContainerID != "c-r1" || p.BookingID != "b-r1" || p.TotalScore != 80 {
		t.Fatalf("unexpected pair %+v", p)
	}
	if rec.Summary.Pairs != 1 || rec.Summary.TotalCostSaving != 1000 {
		t.Fatalf("unexpected summary %+v", rec.Summary)
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)
	for i, org := range []string{"org-1", "org-2", "org-1"} {
		run := sampleRun(string(rune('a'+i)), org, now.Add(time.Duration(i)*time.Hour))
		if err := store.Append(ctx, FromRun(run)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	out, err := store.Query(ctx, Query{OrgID: "org-1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records for org-1, got %d", len(out))
	}
	out, err = store.Query(ctx, Query{Start: now.Add(30 * time.Minute)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records after start, got %d", len(out))
	}
	out, err = store.Query(ctx, Query{ContainerID: "c-b"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].OrgID != "org-2" {
		t.Fatalf("expected the org-2 record, got %+v", out)
	}

	late := sampleRun("d", "org-3", now.Add(3*time.Hour+500*time.Millisecond))
	if err := store.Append(ctx, FromRun(late)); err != nil {
		t.Fatalf("append: %v", err)
	}
	out, err = store.Query(ctx, Query{OrgID: "org-3", End: now.Add(3 * time.Hour)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("record after end must be excluded, got %+v", out)
	}
	out, err = store.Query(ctx, Query{OrgID: "org-3", Start: now.Add(3*time.Hour + 500*time.Millisecond)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("record at start must be included, got %d", len(out))
	}
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestRotatingJSONLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "runs.jsonl")
	store, err := NewRotatingJSONLStore(path, 1, 2, 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}
