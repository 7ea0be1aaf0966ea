// Package history persists completed analysis runs to SQLite so past runs
// can be listed and compared.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stocksage-ai/stocksage/pkg/models"
)

// Store records and queries analysis runs.
type Store interface {
	// Record stores a completed run.
	Record(ctx context.Context, result *models.AnalysisResult, duration time.Duration) (int64, error)
	// Recent returns the latest runs across all symbols, newest first.
	Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
	// BySymbol returns the latest runs for one symbol, newest first.
	BySymbol(ctx context.Context, symbol string, limit int) ([]models.AnalysisRecord, error)
	// Load returns one run with its full result payload.
	Load(ctx context.Context, id int64) (*models.AnalysisRecord, error)
	// Close releases resources.
	Close() error
}

// SQLiteStore implements Store with a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol TEXT NOT NULL,
	backend TEXT NOT NULL,
	prompts_run INTEGER NOT NULL,
	errors INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	result BLOB NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_symbol_time ON analysis_runs(symbol, created_at);
`

// New creates a SQLiteStore and runs auto-migration.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record stores a completed run and returns its row ID. The full result is
// kept as JSON so Load can reconstruct it later.
func (s *SQLiteStore) Record(ctx context.Context, result *models.AnalysisResult, duration time.Duration) (int64, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("encode result: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (symbol, backend, prompts_run, errors, duration_ms, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		strings.ToUpper(result.Symbol), result.Backend, len(result.PromptsRun),
		result.ErrorCount(), duration.Milliseconds(), payload, result.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record run id: %w", err)
	}
	return id, nil
}

// Recent returns the latest runs across all symbols, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	return s.query(ctx,
		`SELECT id, symbol, backend, prompts_run, errors, duration_ms, created_at
		 FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit)
}

// BySymbol returns the latest runs for one symbol, newest first.
func (s *SQLiteStore) BySymbol(ctx context.Context, symbol string, limit int) ([]models.AnalysisRecord, error) {
	return s.query(ctx,
		`SELECT id, symbol, backend, prompts_run, errors, duration_ms, created_at
		 FROM analysis_runs WHERE symbol = ? ORDER BY created_at DESC LIMIT ?`,
		strings.ToUpper(symbol), limit)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]models.AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var r models.AnalysisRecord
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Backend, &r.PromptsRun, &r.Errors, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Load returns one run including its stored result payload.
func (s *SQLiteStore) Load(ctx context.Context, id int64) (*models.AnalysisRecord, error) {
	var r models.AnalysisRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, backend, prompts_run, errors, duration_ms, result, created_at
		 FROM analysis_runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.Symbol, &r.Backend, &r.PromptsRun, &r.Errors, &r.DurationMs, &r.Result, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", id, err)
	}
	return &r, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
