// Package runs exposes the run journal over HTTP.
package runs

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/portlink/streetturn/core/matching/journal"
)

// NewHandler returns an HTTP handler exposing journal records via GET /api/runs.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
func NewHandler(store journal.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := journal.Query{
			OrgID:       r.URL.Query().Get("org_id"),
			ContainerID: r.URL.Query().Get("container_id"),
		}
		var err error
		if q.Start, err = parseTime(r.URL.Query().Get("start")); err != nil {
			http.Error(w, "invalid start", http.StatusBadRequest)
			return
		}
		if q.End, err = parseTime(r.URL.Query().Get("end")); err != nil {
			http.Error(w, "invalid end", http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []journal.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
