// Package store provides a SQLite-backed passage store over the standards
// corpus. It implements service.PassageRetriever with bag-of-words cosine
// similarity and an optional maximum-marginal-relevance re-ranking; any
// stronger retrieval backend can replace it behind the same interface.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mizanlabs/mizan/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists corpus passages in a single SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the passage database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Migrate creates the passages table if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS passages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		standard TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_passages_standard ON passages(standard);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AddPassages inserts passages in one transaction.
func (s *SQLiteStore) AddPassages(ctx context.Context, passages []model.Passage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO passages (standard, source, text) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range passages {
		standard := p.Metadata["content"]
		source := p.Metadata["source"]
		if _, err := stmt.ExecContext(ctx, standard, source, p.Text); err != nil {
			return fmt.Errorf("failed to insert passage: %w", err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored passages.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM passages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count passages: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// loadPassages reads passages, optionally restricted to the given standards.
func (s *SQLiteStore) loadPassages(ctx context.Context, standards []string) ([]model.Passage, error) {
	query := "SELECT standard, source, text FROM passages"
	args := make([]any, 0, len(standards))
	if len(standards) > 0 {
		query += " WHERE standard IN (?" + repeat(",?", len(standards)-1) + ")"
		for _, code := range standards {
			args = append(args, code)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query passages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var passages []model.Passage
	for rows.Next() {
		var standard, source, text string
		if err := rows.Scan(&standard, &source, &text); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		passages = append(passages, model.Passage{
			Text:     text,
			Metadata: map[string]string{"content": standard, "source": source},
		})
	}
	return passages, rows.Err()
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
