package eco

import "time"

// Store persists daily savings records.
type Store interface {
	// Add accumulates r into the record of its day.
	Add(Record) error
	// Put replaces the record of r's day with r.
	Put(Record) error
	Query(orgID string, start, end time.Time) ([]Record, error)
}

// Day aligns t to the start of its day in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
