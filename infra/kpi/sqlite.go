// Package kpi stores daily savings KPIs in SQLite.
package kpi

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	core "github.com/portlink/streetturn/core/metrics/eco"
)

// SQLiteStore persists KPI records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite does not serialize writers across connections.
	db.SetMaxOpenConns(1)
	schema := `CREATE TABLE IF NOT EXISTS savings_kpi (
        org_id TEXT,
        day INTEGER,
        runs INTEGER,
        suggestions INTEGER,
        pairs INTEGER,
        cost_saving REAL,
        co2_saving REAL,
        PRIMARY KEY(org_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or accumulates the KPI record of the day.
func (s *SQLiteStore) Add(r core.Record) error {
	d := core.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO savings_kpi (org_id, day, runs, suggestions, pairs, cost_saving, co2_saving)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(org_id, day) DO UPDATE SET
            runs = runs + excluded.runs,
            suggestions = suggestions + excluded.suggestions,
            pairs = pairs + excluded.pairs,
            cost_saving = cost_saving + excluded.cost_saving,
            co2_saving = co2_saving + excluded.co2_saving`,
		r.OrgID, d.Unix(), r.Runs, r.Suggestions, r.Pairs, r.CostSavingVND, r.CO2SavingKg)
	return err
}

// Put replaces the KPI record of the day.
func (s *SQLiteStore) Put(r core.Record) error {
	d := core.Day(r.Date)
	_, err := s.db.Exec(`INSERT OR REPLACE INTO savings_kpi (org_id, day, runs, suggestions, pairs, cost_saving, co2_saving)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.OrgID, d.Unix(), r.Runs, r.Suggestions, r.Pairs, r.CostSavingVND, r.CO2SavingKg)
	return err
}

// Query returns records in the range [start,end].
func (s *SQLiteStore) Query(orgID string, start, end time.Time) ([]core.Record, error) {
	start = core.Day(start)
	end = core.Day(end)
	rows, err := s.db.Query(`SELECT org_id, day, runs, suggestions, pairs, cost_saving, co2_saving
        FROM savings_kpi WHERE org_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		orgID, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.Record
	for rows.Next() {
		var r core.Record
		var ts int64
		if err := rows.Scan(&r.OrgID, &ts, &r.Runs, &r.Suggestions, &r.Pairs, &r.CostSavingVND, &r.CO2SavingKg); err != nil {
			return nil, err
		}
		r.Date = time.Unix(ts, 0).UTC()
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
