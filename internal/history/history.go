// Package history persists completed benchmark reports to a local SQLite
// database so past comparisons can be listed later.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mohsinrashid64/clash-cli/internal/report"
	"github.com/mohsinrashid64/clash-cli/internal/stats"
)

// Sentinel errors
var (
	ErrNotFound = errors.New("report not found")
)

// isBusyLock reports whether err indicates an SQLite lock (SQLITE_BUSY).
func isBusyLock(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "database is locked") || strings.Contains(s, "SQLITE_BUSY")
}

// retryOnBusy runs fn and retries on SQLITE_BUSY with exponential backoff.
func retryOnBusy(fn func() error) error {
	const maxAttempts = 4
	backoff := 25 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !isBusyLock(lastErr) {
			return lastErr
		}
		if attempt < maxAttempts-1 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return lastErr
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	created_at  DATETIME NOT NULL,
	runs        INTEGER NOT NULL,
	warmup      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS report_commands (
	report_id         TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
	idx               INTEGER NOT NULL,
	command           TEXT NOT NULL,
	label             TEXT NOT NULL,
	runs              INTEGER NOT NULL,
	failed_runs       INTEGER NOT NULL,
	time_mean_ns      INTEGER NOT NULL,
	time_min_ns       INTEGER NOT NULL,
	time_max_ns       INTEGER NOT NULL,
	time_std_dev_ns   INTEGER NOT NULL,
	peak_memory_bytes INTEGER NOT NULL,
	PRIMARY KEY (report_id, idx)
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

type Store struct {
	db *sql.DB
}

// dsnWithPragmas applies WAL mode and a busy timeout to every connection.
// Two clash invocations can overlap; neither should error out on a lock.
func dsnWithPragmas(dbPath string) string {
	return dbPath + "?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)"
}

// New opens (creating if necessary) the history database at dbPath.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsnWithPragmas(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a completed report. Per-command summaries are stored; raw
// per-run measurements are not (the JSON export carries those).
func (s *Store) Save(rep *report.Report) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec(
			`INSERT INTO reports (id, created_at, runs, warmup) VALUES (?, ?, ?, ?)`,
			rep.ID, rep.GeneratedAt.UTC(), rep.Runs, rep.Warmup,
		); err != nil {
			return fmt.Errorf("inserting report: %w", err)
		}

		for i, c := range rep.Commands {
			if _, err := tx.Exec(
				`INSERT INTO report_commands
				 (report_id, idx, command, label, runs, failed_runs,
				  time_mean_ns, time_min_ns, time_max_ns, time_std_dev_ns, peak_memory_bytes)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				rep.ID, i, c.Command, c.Label, c.Runs, c.FailedRuns,
				int64(c.TimeMean), int64(c.TimeMin), int64(c.TimeMax), int64(c.TimeStdDev),
				int64(c.PeakMemoryBytes),
			); err != nil {
				return fmt.Errorf("inserting report command: %w", err)
			}
		}

		return tx.Commit()
	})
}

// Recent returns the newest reports, most recent first. The returned
// reports carry per-command summaries without raw runs.
func (s *Store) Recent(limit int) ([]*report.Report, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, created_at, runs, warmup FROM reports
		 ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*report.Report
	for rows.Next() {
		var rep report.Report
		if err := rows.Scan(&rep.ID, &rep.GeneratedAt, &rep.Runs, &rep.Warmup); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}

	for _, rep := range reports {
		commands, err := s.reportCommands(rep.ID)
		if err != nil {
			return nil, err
		}
		rep.Commands = commands
	}

	return reports, nil
}

// Get fetches one report by ID. Returns ErrNotFound if absent.
func (s *Store) Get(id string) (*report.Report, error) {
	var rep report.Report
	err := s.db.QueryRow(
		`SELECT id, created_at, runs, warmup FROM reports WHERE id = ?`, id,
	).Scan(&rep.ID, &rep.GeneratedAt, &rep.Runs, &rep.Warmup)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}

	commands, err := s.reportCommands(rep.ID)
	if err != nil {
		return nil, err
	}
	rep.Commands = commands
	return &rep, nil
}

func (s *Store) reportCommands(reportID string) ([]stats.CommandStats, error) {
	rows, err := s.db.Query(
		`SELECT command, label, runs, failed_runs,
		        time_mean_ns, time_min_ns, time_max_ns, time_std_dev_ns, peak_memory_bytes
		 FROM report_commands WHERE report_id = ? ORDER BY idx`, reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing report commands: %w", err)
	}
	defer rows.Close()

	var commands []stats.CommandStats
	for rows.Next() {
		var c stats.CommandStats
		var mean, minNs, maxNs, stdDev, peak int64
		if err := rows.Scan(&c.Command, &c.Label, &c.Runs, &c.FailedRuns,
			&mean, &minNs, &maxNs, &stdDev, &peak); err != nil {
			return nil, fmt.Errorf("scanning report command: %w", err)
		}
		c.TimeMean = time.Duration(mean)
		c.TimeMin = time.Duration(minNs)
		c.TimeMax = time.Duration(maxNs)
		c.TimeStdDev = time.Duration(stdDev)
		c.PeakMemoryBytes = uint64(peak)
		commands = append(commands, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report commands: %w", err)
	}
	return commands, nil
}
