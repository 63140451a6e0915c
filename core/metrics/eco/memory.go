package eco

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore stores records in memory for testing or lightweight usage.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[time.Time]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[time.Time]*Record{}}
}

// Add inserts or updates the record aggregated by day and organization.
func (s *MemoryStore) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[r.OrgID] == nil {
		s.data[r.OrgID] = map[time.Time]*Record{}
	}
	d := Day(r.Date)
	rec := s.data[r.OrgID][d]
	if rec == nil {
		rec = &Record{OrgID: r.OrgID, Date: d}
		s.data[r.OrgID][d] = rec
	}
	rec.Merge(r)
	return nil
}

// Put replaces the record of the day and organization.
func (s *MemoryStore) Put(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[r.OrgID] == nil {
		s.data[r.OrgID] = map[time.Time]*Record{}
	}
	r.Date = Day(r.Date)
	s.data[r.OrgID][r.Date] = &r
	return nil
}

// Query returns records between start and end inclusive.
func (s *MemoryStore) Query(orgID string, start, end time.Time) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start = Day(start)
	end = Day(end)
	var res []Record
	for d, r := range s.data[orgID] {
		if d.Before(start) || d.After(end) {
			continue
		}
		res = append(res, *r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}
