// Package suggestions serves match suggestions over HTTP.
package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/portlink/streetturn/core/matching"
	"github.com/portlink/streetturn/core/model"
	"github.com/portlink/streetturn/core/source"
	"github.com/portlink/streetturn/pkg/export"
)

// maxBodyBytes bounds the POST payload.
const maxBodyBytes = 8 << 20

// Matcher runs the engine for HTTP requests.
type Matcher interface {
	// Match scores the given pools without touching the source or journal.
	Match(containers []model.DropOffContainer, bookings []model.PickupBooking, f matching.Filters) (matching.Result, error)
	// MatchNow fetches the organization's pools and records the run.
	MatchNow(ctx context.Context, orgID string, f matching.Filters) (matching.Run, error)
}

// Request is the POST /api/suggestions body.
type Request struct {
	Containers []model.DropOffContainer `json:"containers"`
	Bookings   []model.PickupBooking    `json:"bookings"`
	Filters    matching.Filters         `json:"filters"`
}

// NewHandler returns the handler for /api/suggestions.
// POST scores the pools in the body; GET runs against the source for org_id.
// Both honour ?format=csv.
func NewHandler(m Matcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlePost(m, w, r)
		case http.MethodGet:
			handleGet(m, w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func handlePost(m Matcher, w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := m.Match(req.Containers, req.Bookings, req.Filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuggestions(w, r, res.Suggestions)
}

func handleGet(m Matcher, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orgID := q.Get("org_id")
	if orgID == "" {
		http.Error(w, "org_id is required", http.StatusBadRequest)
		return
	}
	f, err := ParseFilters(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	run, err := m.MatchNow(r.Context(), orgID, f)
	if err != nil {
		writeError(w, err)
		return
	}
	if q.Get("format") == "csv" {
		writeSuggestions(w, r, run.Suggestions)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(run)
}

// ParseFilters reads filter values from query parameters named after the
// Filters json fields.
func ParseFilters(q url.Values) (matching.Filters, error) {
	f := matching.Filters{
		ContainerType:  q.Get("container_type"),
		ShippingLineID: q.Get("shipping_line_id"),
	}
	var err error
	if f.MaxDistanceKM, err = floatParam(q, "max_distance_km"); err != nil {
		return f, err
	}
	if f.MaxTimeHours, err = floatParam(q, "max_time_hours"); err != nil {
		return f, err
	}
	if f.MinScore, err = floatParam(q, "min_score"); err != nil {
		return f, err
	}
	return f, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, s)
	}
	return &v, nil
}

func writeSuggestions(w http.ResponseWriter, r *http.Request, suggestions []matching.Suggestion) {
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteCSV(w, suggestions); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := export.WriteJSON(w, suggestions); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var fe *matching.FilterError
	switch {
	case errors.As(err, &fe):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, source.ErrUnknownOrg):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
