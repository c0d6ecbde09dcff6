// Package storage persists a history of pulses in SQLite, one row per pulse.
// The history is what post-trade analysis works from when the venue's own
// records are incomplete.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// PulseRecord is one pulse loop iteration as written to disk.
type PulseRecord struct {
	ID        int64
	Symbol    string
	At        time.Time
	FairPrice string
	Placed    int
	Cancelled int
	Kept      int
	Err       string
}

// PulseStore writes pulse records to SQLite.
type PulseStore struct {
	db *sql.DB
}

// NewPulseStore opens (creating if needed) the pulse history database with
// WAL mode enabled.
func NewPulseStore(dbPath string) (*PulseStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=-2000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pulses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			ts INTEGER NOT NULL,
			fair_price TEXT NOT NULL,
			placed INTEGER NOT NULL,
			cancelled INTEGER NOT NULL,
			kept INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create pulses table: %w", err)
	}

	return &PulseStore{db: db}, nil
}

// SavePulse appends one pulse record.
func (s *PulseStore) SavePulse(ctx context.Context, rec PulseRecord) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO pulses (symbol, ts, fair_price, placed, cancelled, kept, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.Symbol, rec.At.UnixMicro(), rec.FairPrice, rec.Placed, rec.Cancelled, rec.Kept, rec.Err,
	)
	if err != nil {
		return fmt.Errorf("failed to save pulse: %w", err)
	}
	return nil
}

// RecentPulses returns up to limit records, newest first.
func (s *PulseStore) RecentPulses(ctx context.Context, limit int) ([]PulseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, symbol, ts, fair_price, placed, cancelled, kept, error FROM pulses ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pulses: %w", err)
	}
	defer rows.Close()

	var out []PulseRecord
	for rows.Next() {
		var rec PulseRecord
		var ts int64
		if err := rows.Scan(&rec.ID, &rec.Symbol, &ts, &rec.FairPrice, &rec.Placed, &rec.Cancelled, &rec.Kept, &rec.Err); err != nil {
			return nil, fmt.Errorf("failed to scan pulse: %w", err)
		}
		rec.At = time.UnixMicro(ts).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *PulseStore) Close() error {
	return s.db.Close()
}
