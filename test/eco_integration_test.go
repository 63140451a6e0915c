package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	kpiapi "github.com/portlink/streetturn/api/kpi"
	"github.com/portlink/streetturn/core/matching"
	"github.com/portlink/streetturn/core/matching/journal"
	eco "github.com/portlink/streetturn/core/metrics/eco"
	"github.com/portlink/streetturn/infra/kpi"
	infmetrics "github.com/portlink/streetturn/infra/metrics"
	"github.com/portlink/streetturn/jobs/ecokpi"
)

func TestEcoIntegration(t *testing.T) {
	containers, bookings := pools()
	res, err := matching.Engine{}.Match(containers, bookings, matching.Filters{})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	run := matching.NewRun("run-1", "org1", runTime, matching.Filters{}, res)
	if run.Summary.Pairs == 0 {
		t.Fatalf("expected scored pairs, got %+v", run.Summary)
	}

	store := eco.NewMemoryStore()
	reg := prometheus.NewRegistry()
	sink, err := infmetrics.NewEcoSink(store, reg)
	if err != nil {
		t.Fatalf("eco sink: %v", err)
	}
	if err := sink.RecordRun(run); err != nil {
		t.Fatalf("record: %v", err)
	}

	expected := fmt.Sprintf("# HELP org_daily_suggested_pairs Daily number of suggested pairs per organization\n"+
		"# TYPE org_daily_suggested_pairs gauge\n"+
		"org_daily_suggested_pairs{day=\"2024-01-15\",org_id=\"org1\"} %d\n", run.Summary.Pairs)
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "org_daily_suggested_pairs"); err != nil {
		t.Fatalf("prom: %v", err)
	}

	h := kpiapi.NewHandler(store)
	req := httptest.NewRequest("GET", "/api/kpi/org1?start=2024-01-01T00:00:00Z&end=2024-01-31T00:00:00Z", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(out) != 1 || out[0]["cost_saving_vnd"].(float64) != run.Summary.TotalCostSaving {
		t.Fatalf("bad json %+v", out)
	}
}

// TestBackfillMatchesLiveAggregation replays the journal into a SQLite KPI
// store and expects the same daily totals the live sink produced.
func TestBackfillMatchesLiveAggregation(t *testing.T) {
	containers, bookings := pools()
	engine := matching.Engine{}
	dir := t.TempDir()
	js, err := journal.NewSQLiteStore(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	defer func() { _ = js.Close() }()

	live := eco.NewMemoryStore()
	sink, err := infmetrics.NewEcoSink(live, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("eco sink: %v", err)
	}
	for i, f := range []matching.Filters{{}, {MaxDistanceKM: matching.Float(20)}} {
		res, err := engine.Match(containers, bookings, f)
		if err != nil {
			t.Fatalf("match: %v", err)
		}
		run := matching.NewRun(fmt.Sprintf("run-%d", i), "org1", runTime, f, res)
		if err := sink.RecordRun(run); err != nil {
			t.Fatalf("record: %v", err)
		}
		if err := js.Append(context.Background(), journal.FromRun(run)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	replayed, err := kpi.NewSQLiteStore(filepath.Join(dir, "kpi.db"))
	if err != nil {
		t.Fatalf("kpi store: %v", err)
	}
	defer func() { _ = replayed.Close() }()
	n, err := ecokpi.BackfillFromJournal(context.Background(), js, replayed, journal.Query{OrgID: "org1"})
	if err != nil || n != 2 {
		t.Fatalf("backfill n=%d err=%v", n, err)
	}

	want, _ := live.Query("org1", runTime, runTime)
	got, _ := replayed.Query("org1", runTime, runTime)
	if len(want) != 1 || len(got) != 1 {
		t.Fatalf("expected one day each, got live=%d replayed=%d", len(want), len(got))
	}
	w, g := want[0], got[0]
	if w.Runs != g.Runs || w.Pairs != g.Pairs || w.Suggestions != g.Suggestions {
		t.Fatalf("counts differ: live=%+v replayed=%+v", w, g)
	}
	if diff := w.CostSavingVND - g.CostSavingVND; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("cost saving differs: live=%f replayed=%f", w.CostSavingVND, g.CostSavingVND)
	}
}
