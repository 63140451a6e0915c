package kpi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portlink/streetturn/core/metrics/eco"
)

func TestKPIHandler(t *testing.T) {
	store := eco.NewMemoryStore()
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Add(eco.Record{OrgID: "org1", Date: day, Runs: 2, Suggestions: 1, Pairs: 2, CostSavingVND: 600000, CO2SavingKg: 12}))
	require.NoError(t, store.Add(eco.Record{OrgID: "org1", Date: day.AddDate(0, 0, -60), Runs: 1}))

	h := newHandler(store, func() time.Time { return day.Add(10 * time.Hour) })
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/kpi/org1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var out []Day
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1, "default window excludes old records")
	assert.Equal(t, "2024-01-15", out[0].Date)
	assert.Equal(t, 2, out[0].Runs)
	assert.Equal(t, 300000.0, out[0].SavingPerPair)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/kpi/org1?start=2023-11-01T00:00:00Z", nil))
	out = nil
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out, 2)
}

func TestKPIHandlerErrors(t *testing.T) {
	h := NewHandler(eco.NewMemoryStore())
	tests := []struct {
		method, target string
		want           int
	}{
		{http.MethodGet, "/api/kpi/", http.StatusNotFound},
		{http.MethodGet, "/api/kpi/org1/extra", http.StatusNotFound},
		{http.MethodGet, "/api/kpi/org1?start=bad", http.StatusBadRequest},
		{http.MethodGet, "/api/kpi/org1?end=bad", http.StatusBadRequest},
		{http.MethodPost, "/api/kpi/org1", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))
		assert.Equal(t, tt.want, rr.Code, tt.target)
	}
}

func TestKPIHandlerEmpty(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHandler(eco.NewMemoryStore()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/kpi/org1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}
