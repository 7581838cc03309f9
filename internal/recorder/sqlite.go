package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger arbor.ILogger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger arbor.ILogger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while runs are written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rotation_runs (
			run_id       TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			as_of        TEXT,
			benchmark    TEXT NOT NULL,
			lookback     TEXT NOT NULL,
			provider     TEXT,
			instruments  INTEGER,
			duration_ms  INTEGER,
			delivered    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON rotation_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS rotation_points (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL REFERENCES rotation_runs(run_id),
			symbol    TEXT NOT NULL,
			label     TEXT,
			date      TEXT,
			rs        REAL,
			mom       REAL,
			quadrant  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_run ON rotation_points(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_points_symbol ON rotation_points(symbol, date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run row and one point row per instrument head in a single transaction.
// An empty RunID is replaced with a fresh UUID.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.RunID == "" {
		snap.RunID = uuid.NewString()
	}
	g := snap.Graph

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO rotation_runs
		(run_id, timestamp, as_of, benchmark, lookback, provider, instruments, duration_ms, delivered)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		snap.RunID, time.Now().Unix(), dateString(g.AsOf), g.Benchmark.Symbol, string(g.Lookback),
		snap.Provider, len(g.Trails), snap.Duration.Milliseconds(), snap.Delivered,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, t := range g.Trails {
		_, err := tx.Exec(`INSERT INTO rotation_points
			(run_id, symbol, label, date, rs, mom, quadrant)
			VALUES (?,?,?,?,?,?,?)`,
			snap.RunID, t.Instrument.Symbol, t.Instrument.Label, dateString(t.Head.Date),
			t.Head.RS, t.Head.MOM, string(t.Quadrant),
		)
		if err != nil {
			return fmt.Errorf("insert point %s: %w", t.Instrument.Symbol, err)
		}
	}
	return tx.Commit()
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
