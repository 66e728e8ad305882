// Package journal is a write-ahead log for sales. A sale touches two files
// (transaction append, catalog rewrite); the entry is written before either
// and committed after both, so a crash in between can be replayed.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Entry is one in-flight sale.
type Entry struct {
	ID         int64
	GroceryID  string
	Quantity   int
	Payment    string
	Date       string
	Time       string
	StockAfter int // catalog stock of GroceryID once the sale is applied
	RowsBefore int // transaction rows persisted before the append
}

type Journal struct {
	db   *sql.DB
	path string
}

// Open creates (if needed) and migrates the journal database.
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db, path: dbPath}, nil
}

func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Begin records a sale before any file is touched.
func (j *Journal) Begin(ctx context.Context, e Entry) (int64, error) {
	res, err := j.db.ExecContext(ctx, `
		INSERT INTO sales_journal (grocery_id, quantity, payment, sale_date, sale_time, stock_after, rows_before)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.GroceryID, e.Quantity, e.Payment, e.Date, e.Time, e.StockAfter, e.RowsBefore)
	if err != nil {
		return 0, fmt.Errorf("insert journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal entry id: %w", err)
	}
	slog.DebugContext(ctx, "Journal entry opened", "id", id, "grocery_id", e.GroceryID, "quantity", e.Quantity)
	return id, nil
}

// Commit marks a sale as fully persisted.
func (j *Journal) Commit(ctx context.Context, id int64) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE sales_journal SET committed_at = CURRENT_TIMESTAMP WHERE id = ? AND committed_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("commit journal entry %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("commit journal entry %d: no pending entry", id)
	}
	slog.DebugContext(ctx, "Journal entry committed", "id", id)
	return nil
}

// Abort drops an entry whose sale was never applied.
func (j *Journal) Abort(ctx context.Context, id int64) error {
	if _, err := j.db.ExecContext(ctx,
		`DELETE FROM sales_journal WHERE id = ? AND committed_at IS NULL`, id); err != nil {
		return fmt.Errorf("abort journal entry %d: %w", id, err)
	}
	slog.DebugContext(ctx, "Journal entry aborted", "id", id)
	return nil
}

// Pending returns uncommitted entries, oldest first.
func (j *Journal) Pending(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, grocery_id, quantity, payment, sale_date, sale_time, stock_after, rows_before
		FROM sales_journal
		WHERE committed_at IS NULL
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query pending journal entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.GroceryID, &e.Quantity, &e.Payment, &e.Date, &e.Time, &e.StockAfter, &e.RowsBefore); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
