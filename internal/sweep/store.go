package sweep

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists sweep results in SQLite.
type Store struct {
	db *sql.DB
}

// Row is one stored result.
type Row struct {
	Run           string
	Preset        string
	ThrottleMs    int64
	Res           int
	Ticks         int
	Reconciles    int
	Created       int
	Updated       int
	Removed       int
	PeakCells     int
	PeakSeams     int
	Churn         float64
	PeakAmplitude float64
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		preset TEXT NOT NULL,
		throttle_ms INTEGER NOT NULL,
		res INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		reconciles INTEGER NOT NULL,
		created INTEGER NOT NULL,
		updated INTEGER NOT NULL,
		removed INTEGER NOT NULL,
		peak_cells INTEGER NOT NULL,
		peak_seams INTEGER NOT NULL,
		churn REAL NOT NULL,
		peak_amplitude REAL NOT NULL
	);`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS results_run ON results(run);`)
	return err
}

// Save records every successful result under the run label in one
// transaction.
func (s *Store) Save(ctx context.Context, run string, results []Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
		(run, recorded_at, preset, throttle_ms, res, ticks, seed, reconciles, created, updated, removed, peak_cells, peak_seams, churn, peak_amplitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		sc := r.Scenario
		if _, err := stmt.ExecContext(ctx, run, now, sc.Preset, sc.Throttle.Milliseconds(), sc.Res, sc.Ticks, sc.Seed,
			r.Reconciles, r.Created, r.Updated, r.Removed, r.PeakCells, r.PeakSeams, r.Churn(), r.PeakAmplitude); err != nil {
			return fmt.Errorf("insert %s: %w", sc, err)
		}
	}
	return tx.Commit()
}

// Best returns up to limit rows of run ordered by ascending churn. An empty
// run matches every run.
func (s *Store) Best(ctx context.Context, run string, limit int) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run, preset, throttle_ms, res, ticks, reconciles, created, updated, removed, peak_cells, peak_seams, churn, peak_amplitude
		FROM results WHERE (? = '' OR run = ?) ORDER BY churn ASC, peak_cells ASC, id ASC LIMIT ?`, run, run, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Run, &r.Preset, &r.ThrottleMs, &r.Res, &r.Ticks, &r.Reconciles, &r.Created, &r.Updated,
			&r.Removed, &r.PeakCells, &r.PeakSeams, &r.Churn, &r.PeakAmplitude); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
