// Package store keeps a durable, append-only log of order summaries in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"atelier/internal/logging"
	"atelier/internal/types"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS order_summaries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id TEXT NOT NULL,
	product_name TEXT NOT NULL,
	brand TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL,
	total REAL NOT NULL,
	status TEXT NOT NULL,
	created_ms INTEGER NOT NULL,
	recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_order_summaries_order ON order_summaries(order_id);
CREATE INDEX IF NOT EXISTS idx_order_summaries_created ON order_summaries(created_ms);
`

// SQLiteMirror appends order summaries to a SQLite table. Rows are never
// updated or deleted.
type SQLiteMirror struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// OpenSQLiteMirror opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway mirror.
func OpenSQLiteMirror(path string) (*SQLiteMirror, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.StoreError("Failed to create directory %s: %v", dir, err)
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.StoreError("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		logging.StoreError("Failed to initialize schema: %v", err)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Store("Order mirror ready at %s", path)
	return &SQLiteMirror{db: db, dbPath: path}, nil
}

// Append records one summary.
func (m *SQLiteMirror) Append(ctx context.Context, s types.OrderSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.ExecContext(ctx,
		`INSERT INTO order_summaries (order_id, product_name, brand, price, total, status, created_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ProductName, s.Brand, s.Price, s.Total, string(s.Status), s.Timestamp.UnixMilli())
	if err != nil {
		return fmt.Errorf("append order summary %s: %w", s.ID, err)
	}
	logging.StoreDebug("Mirrored order %s", s.ID)
	return nil
}

// List returns up to limit summaries, newest first. A non-positive limit
// returns everything.
func (m *SQLiteMirror) List(ctx context.Context, limit int) ([]types.OrderSummary, error) {
	query := `SELECT order_id, product_name, brand, price, total, status, created_ms
		FROM order_summaries ORDER BY created_ms DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list order summaries: %w", err)
	}
	defer rows.Close()

	var out []types.OrderSummary
	for rows.Next() {
		var s types.OrderSummary
		var status string
		var createdMs int64
		if err := rows.Scan(&s.ID, &s.ProductName, &s.Brand, &s.Price, &s.Total, &status, &createdMs); err != nil {
			return nil, fmt.Errorf("scan order summary: %w", err)
		}
		s.Status = types.OrderStatus(status)
		s.Timestamp = time.UnixMilli(createdMs).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count returns the number of stored summaries.
func (m *SQLiteMirror) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	err := m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM order_summaries").Scan(&n)
	return n, err
}

// Path returns the database path.
func (m *SQLiteMirror) Path() string {
	return m.dbPath
}

// Close closes the database.
func (m *SQLiteMirror) Close() error {
	return m.db.Close()
}
