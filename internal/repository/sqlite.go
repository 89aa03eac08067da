package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS history (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	payload    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS history_created_at ON history (created_at DESC);
`

// SQLiteRepository stores one row per session with the item as a JSON payload.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// Name returns the backend name.
func (r *SQLiteRepository) Name() string { return "sqlite" }

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// List returns all items newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]model.HistoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM history ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	items := []model.HistoryItem{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var item model.HistoryItem
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, fmt.Errorf("failed to decode history row: %w", err)
		}
		item.Normalize()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	sortNewestFirst(items)
	return items, nil
}

// Upsert creates or updates an item inside a transaction.
func (r *SQLiteRepository) Upsert(ctx context.Context, p UpsertParams) (model.HistoryItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.HistoryItem{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var item model.HistoryItem
	if p.SessionID == "" {
		item = newItem(p, r.now())
	} else {
		var payload string
		err := tx.QueryRowContext(ctx, `SELECT payload FROM history WHERE id = ?`, p.SessionID).Scan(&payload)
		if errors.Is(err, sql.ErrNoRows) {
			return model.HistoryItem{}, ErrNotFound
		}
		if err != nil {
			return model.HistoryItem{}, fmt.Errorf("failed to load history item: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return model.HistoryItem{}, fmt.Errorf("failed to decode history item: %w", err)
		}
		apply(&item, p)
	}

	data, err := json.Marshal(item)
	if err != nil {
		return model.HistoryItem{}, fmt.Errorf("failed to encode history item: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (id, created_at, payload) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`,
		item.ID, item.CreatedAt, string(data))
	if err != nil {
		return model.HistoryItem{}, fmt.Errorf("failed to write history item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.HistoryItem{}, fmt.Errorf("failed to commit history item: %w", err)
	}
	return item, nil
}
