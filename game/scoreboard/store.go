// Package scoreboard keeps finished Gift Run runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package scoreboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/wricardo/mcp-training/giftrun/game/service"
)

// MemoryDSN keeps the scoreboard in process memory
const MemoryDSN = ":memory:"

// timeLayout is fixed width so finished_at sorts as text in time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrEmptyLevel is returned when a result has no level
var ErrEmptyLevel = errors.New("scoreboard: level is required")

// Store manages the SQLite database connection for finished runs.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens a SQLite database at the given path and runs
// migrations. An empty path or ":memory:" keeps everything in memory.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = MemoryDSN
	}
	inMemory := dbPath == MemoryDSN

	if !inMemory {
		if strings.HasPrefix(dbPath, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("scoreboard: cannot expand home directory: %w", err)
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("scoreboard: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("scoreboard: cannot open database: %w", err)
	}
	if inMemory {
		// Every new connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scoreboard: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scoreboard: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			level TEXT NOT NULL,
			won INTEGER NOT NULL,
			score INTEGER NOT NULL,
			delivered INTEGER NOT NULL,
			moves_used INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(level, won DESC, score DESC, moves_used ASC);
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

// SaveResult records a finished run and returns it with its ID and
// timestamp filled in.
func (s *Store) SaveResult(ctx context.Context, result service.RunResult) (service.RunResult, error) {
	if result.Level == "" {
		return service.RunResult{}, ErrEmptyLevel
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.FinishedAt.IsZero() {
		result.FinishedAt = s.now()
	}
	result.FinishedAt = result.FinishedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, session_id, level, won, score, delivered, moves_used, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.SessionID,
		result.Level,
		result.Won,
		result.Score,
		result.Delivered,
		result.MovesUsed,
		result.FinishedAt.Format(timeLayout),
	)
	if err != nil {
		return service.RunResult{}, fmt.Errorf("scoreboard: cannot save result: %w", err)
	}

	return result, nil
}

// TopResults retrieves the best runs for a level: wins first, then by score,
// then by fewest moves, then earliest.
func (s *Store) TopResults(ctx context.Context, level string, limit int) ([]service.RunResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, level, won, score, delivered, moves_used, finished_at
		 FROM runs
		 WHERE level = ?
		 ORDER BY won DESC, score DESC, moves_used ASC, finished_at ASC
		 LIMIT ?`,
		level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("scoreboard: cannot query results: %w", err)
	}
	defer rows.Close()

	results := []service.RunResult{}
	for rows.Next() {
		var r service.RunResult
		var finishedAt string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Level, &r.Won, &r.Score, &r.Delivered, &r.MovesUsed, &finishedAt); err != nil {
			return nil, fmt.Errorf("scoreboard: cannot scan row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, finishedAt); err == nil {
			r.FinishedAt = parsed
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scoreboard: row iteration error: %w", err)
	}

	return results, nil
}

// Ensure Store implements ResultRecorder
var _ service.ResultRecorder = (*Store)(nil)
