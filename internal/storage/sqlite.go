// Package storage provides SQLite-based persistence for bench and run
// history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run represents one recorded run of a scenario.
type Run struct {
	ID       int64
	Scenario string
	Mode     string // "serial", "parallel" or "auto"
	Objects  int
	Groups   int
	Frames   int
	Workers  int

	AvgFrame time.Duration
	MaxFrame time.Duration
	P95Frame time.Duration

	Checksum uint64
	// Verified is set when the checksum was compared against a serial run.
	Verified bool
	Matched  bool

	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario TEXT NOT NULL,
			mode TEXT NOT NULL,
			objects INTEGER NOT NULL,
			groups_count INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			workers INTEGER NOT NULL,
			avg_frame_ns INTEGER NOT NULL,
			max_frame_ns INTEGER NOT NULL,
			p95_frame_ns INTEGER NOT NULL,
			checksum TEXT NOT NULL,
			matched INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(scenario, mode, avg_frame_ns);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	var matched sql.NullBool
	if r.Verified {
		matched = sql.NullBool{Bool: r.Matched, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO runs
		 (scenario, mode, objects, groups_count, frames, workers,
		  avg_frame_ns, max_frame_ns, p95_frame_ns, checksum, matched)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Scenario, r.Mode, r.Objects, r.Groups, r.Frames, r.Workers,
		int64(r.AvgFrame), int64(r.MaxFrame), int64(r.P95Frame),
		formatChecksum(r.Checksum), matched,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, scenario, mode, objects, groups_count, frames, workers,
		avg_frame_ns, max_frame_ns, p95_frame_ns, checksum, matched, created_at`

// RecentRuns retrieves the most recent runs across all scenarios.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return collectRuns(rows)
}

// RunsFor retrieves the most recent runs of one scenario.
func (s *Store) RunsFor(scenario string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE scenario = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return collectRuns(rows)
}

// BestRun returns the run of a scenario and mode with the lowest average
// frame time. Returns nil if none exists.
func (s *Store) BestRun(scenario, mode string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE scenario = ? AND mode = ?
		 ORDER BY avg_frame_ns ASC, id ASC
		 LIMIT 1`,
		scenario, mode,
	)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best run: %w", err)
	}
	return &r, nil
}

// ClearRuns deletes all runs of the given scenario.
func (s *Store) ClearRuns(scenario string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE scenario = ?", scenario)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	Scenario   string
	Runs       int
	BestAvg    time.Duration
	Mismatches int
	LastRun    time.Time
}

// AllScenarioStats retrieves statistics for every scenario that has runs.
func (s *Store) AllScenarioStats() (map[string]*ScenarioStats, error) {
	rows, err := s.db.Query(
		`SELECT scenario, COUNT(*), MIN(avg_frame_ns),
		        COALESCE(SUM(CASE WHEN matched = 0 THEN 1 ELSE 0 END), 0),
		        MAX(created_at)
		 FROM runs
		 GROUP BY scenario`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ScenarioStats)
	for rows.Next() {
		var st ScenarioStats
		var best int64
		var lastRun any
		if err := rows.Scan(&st.Scenario, &st.Runs, &best, &st.Mismatches, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.BestAvg = time.Duration(best)
		st.LastRun = parseTime(lastRun)
		stats[st.Scenario] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var avg, maxFrame, p95 int64
	var checksum string
	var matched sql.NullBool
	var createdAt any

	if err := sc.Scan(
		&r.ID, &r.Scenario, &r.Mode, &r.Objects, &r.Groups, &r.Frames, &r.Workers,
		&avg, &maxFrame, &p95, &checksum, &matched, &createdAt,
	); err != nil {
		return r, err
	}

	r.AvgFrame = time.Duration(avg)
	r.MaxFrame = time.Duration(maxFrame)
	r.P95Frame = time.Duration(p95)
	if v, err := strconv.ParseUint(checksum, 16, 64); err == nil {
		r.Checksum = v
	}
	r.Verified = matched.Valid
	r.Matched = matched.Bool
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

func collectRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// formatChecksum stores checksums as hex text; SQLite integers are signed.
func formatChecksum(v uint64) string {
	return fmt.Sprintf("%016x", v)
}
