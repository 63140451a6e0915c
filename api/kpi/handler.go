// Package kpi exposes daily savings KPIs over HTTP.
package kpi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/portlink/streetturn/core/metrics/eco"
)

// DefaultWindow is the range served when no start is given.
const DefaultWindow = 30 * 24 * time.Hour

// Day is one row of the KPI response.
type Day struct {
	Date          string  `json:"date"`
	Runs          int     `json:"runs"`
	Suggestions   int     `json:"suggestions"`
	Pairs         int     `json:"pairs"`
	CostSavingVND float64 `json:"cost_saving_vnd"`
	CO2SavingKg   float64 `json:"co2_saving_kg"`
	SavingPerPair float64 `json:"saving_per_pair"`
}

// NewHandler exposes savings KPIs via GET /api/kpi/{org_id}?start=&end=.
func NewHandler(store eco.Store) http.Handler {
	return newHandler(store, time.Now)
}

func newHandler(store eco.Store, now func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/kpi/"), "/")
		if id == "" || strings.Contains(id, "/") {
			http.NotFound(w, r)
			return
		}
		end := now()
		if s := r.URL.Query().Get("end"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, "invalid end", http.StatusBadRequest)
				return
			}
			end = t
		}
		start := end.Add(-DefaultWindow)
		if s := r.URL.Query().Get("start"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, "invalid start", http.StatusBadRequest)
				return
			}
			start = t
		}
		recs, err := store.Query(id, start, end)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]Day, len(recs))
		for i, rec := range recs {
			out[i] = Day{
				Date:          rec.Date.Format("2006-01-02"),
				Runs:          rec.Runs,
				Suggestions:   rec.Suggestions,
				Pairs:         rec.Pairs,
				CostSavingVND: rec.CostSavingVND,
				CO2SavingKg:   rec.CO2SavingKg,
				SavingPerPair: rec.SavingPerPair(),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
}
