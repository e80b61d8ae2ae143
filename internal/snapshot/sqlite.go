// Package snapshot persists the raw data collected by a pipeline run so a
// day can be reanalyzed without re-hitting the GitHub API.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/trendpulse/trendpulse/internal/types"
)

// ErrNotFound is returned when no snapshot exists for the requested date
var ErrNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	run_date   TEXT PRIMARY KEY,
	events     TEXT NOT NULL,
	activity   TEXT NOT NULL,
	releases   TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// Snapshot is one run's collected raw data, keyed by run date (YYYY-MM-DD)
type Snapshot struct {
	RunDate  string
	Events   []types.Event
	Activity *types.ActivityData
	Releases *types.ReleaseData
}

// Store is a SQLite-backed snapshot store
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot database at path and initializes
// the schema
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping snapshot db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the snapshot, replacing any existing snapshot for the same
// run date (reruns win)
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	events, err := json.Marshal(snap.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	activity, err := json.Marshal(snap.Activity)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	releases, err := json.Marshal(snap.Releases)
	if err != nil {
		return fmt.Errorf("marshal releases: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (run_date, events, activity, releases, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.RunDate, string(events), string(activity), string(releases),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.RunDate, err)
	}
	return nil
}

// Get loads the snapshot for a run date. Returns ErrNotFound when the
// date has no snapshot.
func (s *Store) Get(ctx context.Context, runDate string) (*Snapshot, error) {
	var events, activity, releases string
	err := s.db.QueryRowContext(ctx,
		`SELECT events, activity, releases FROM snapshots WHERE run_date = ?`,
		runDate).Scan(&events, &activity, &releases)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runDate)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", runDate, err)
	}

	snap := &Snapshot{RunDate: runDate}
	if err := json.Unmarshal([]byte(events), &snap.Events); err != nil {
		return nil, fmt.Errorf("decode snapshot events: %w", err)
	}
	if err := json.Unmarshal([]byte(activity), &snap.Activity); err != nil {
		return nil, fmt.Errorf("decode snapshot activity: %w", err)
	}
	if err := json.Unmarshal([]byte(releases), &snap.Releases); err != nil {
		return nil, fmt.Errorf("decode snapshot releases: %w", err)
	}
	return snap, nil
}

// Dates returns all snapshot run dates, newest first
func (s *Store) Dates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_date FROM snapshots ORDER BY run_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan snapshot date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
