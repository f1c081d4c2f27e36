/*
Package sqlite provides a SQLite-backed implementation of orders.Workbook.

PURPOSE:
  Runs the whole pipeline offline: the MASTER sheet and every sheet the
  operations write (school views, Production, Error Log) live in one SQLite
  file. Import a CSV export of the spreadsheet with ImportRows, run the
  operations, then inspect or export the result sheets.

INTERFACES IMPLEMENTED:
  orders.Workbook: Sheets, Read, Write, Append, Clear, AddSheet, Format,
                   AutoResize

KEY TABLES:
  sheets:  name + position (workbook order)
  rows:    one row per (sheet, row_index), cells stored as a JSON array
  formats: format requests in application order, JSON encoded
  widths:  last auto-resize range per sheet

ROW STORAGE:
  A row is stored as a JSON array of strings rather than one SQL row per
  cell. Reads return whole sheets, which is the only access pattern the
  pipeline has. Trailing empty cells are trimmed on write, like the
  spreadsheet API does, so ragged rows round-trip the same way.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Multi-statement writes run in a
  database transaction.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  wb, err := sqlite.New("./data/orders.db")
  if err != nil {
      log.Fatal(err)
  }
  defer wb.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - orders/workbook.go: Interface definition
  - orders/store/memory.go: In-memory implementation for testing
  - store/xlsx: Excel-file implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jfc974-droid/order-management-system/orders"
)

// Store implements orders.Workbook using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite workbook with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sheets (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rows (
		sheet TEXT NOT NULL REFERENCES sheets(name) ON DELETE CASCADE,
		row_index INTEGER NOT NULL,
		cells_json TEXT NOT NULL,
		PRIMARY KEY (sheet, row_index)
	);

	CREATE TABLE IF NOT EXISTS formats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sheet TEXT NOT NULL REFERENCES sheets(name) ON DELETE CASCADE,
		range_json TEXT NOT NULL,
		request_json TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_formats_sheet_range
		ON formats(sheet, range_json);

	CREATE TABLE IF NOT EXISTS widths (
		sheet TEXT PRIMARY KEY REFERENCES sheets(name) ON DELETE CASCADE,
		from_col INTEGER NOT NULL,
		to_col INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKBOOK (orders.Workbook interface)
// =============================================================================

func (s *Store) Sheets(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sheets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Read returns every row of sheet. Row gaps left by Write are returned as
// empty rows so row indexes are preserved.
func (s *Store) Read(ctx context.Context, sheet string) ([]orders.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireSheet(ctx, s.db, sheet); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index, cells_json FROM rows WHERE sheet = ? ORDER BY row_index`, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var out []orders.Row
	for rows.Next() {
		var idx int
		var cellsJSON string
		if err := rows.Scan(&idx, &cellsJSON); err != nil {
			return nil, err
		}
		var cells orders.Row
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, fmt.Errorf("corrupt row %d of %s: %w", idx, sheet, err)
		}
		for len(out) < idx {
			out = append(out, orders.Row{})
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// Write overwrites rows starting at startRow. Cells past the end of a written
// row are left as they were.
func (s *Store) Write(ctx context.Context, sheet string, startRow int, data []orders.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireSheet(ctx, tx, sheet); err != nil {
			return err
		}
		for i, row := range data {
			idx := startRow + i
			existing, err := loadRow(ctx, tx, sheet, idx)
			if err != nil {
				return err
			}
			for len(existing) < len(row) {
				existing = append(existing, "")
			}
			copy(existing, row)
			if err := saveRow(ctx, tx, sheet, idx, existing); err != nil {
				return err
			}
		}
		return nil
	})
}

// Append adds rows after the last non-empty row.
func (s *Store) Append(ctx context.Context, sheet string, data []orders.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireSheet(ctx, tx, sheet); err != nil {
			return err
		}
		var next sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT MAX(row_index) FROM rows WHERE sheet = ? AND cells_json != '[]'`, sheet).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to find last row: %w", err)
		}
		start := 0
		if next.Valid {
			start = int(next.Int64) + 1
		}
		// Blank rows after the table are replaced.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM rows WHERE sheet = ? AND row_index >= ?`, sheet, start); err != nil {
			return err
		}
		for i, row := range data {
			if err := saveRow(ctx, tx, sheet, start+i, row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Clear(ctx context.Context, sheet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireSheet(ctx, tx, sheet); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM rows WHERE sheet = ?`, sheet); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM formats WHERE sheet = ?`, sheet)
		return err
	})
}

func (s *Store) AddSheet(ctx context.Context, sheet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE name = ?`, sheet).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			return fmt.Errorf("%w: %s", orders.ErrSheetExists, sheet)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sheets (name, position, created_at)
			VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM sheets), ?)`,
			sheet, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
		return nil
	})
}

// Format records the requests in application order.
func (s *Store) Format(ctx context.Context, sheet string, reqs []orders.FormatRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireSheet(ctx, tx, sheet); err != nil {
			return err
		}
		// A later request for the same range replaces the earlier one.
		for _, req := range reqs {
			rangeJSON, err := json.Marshal(req.Range)
			if err != nil {
				return err
			}
			reqJSON, err := json.Marshal(req)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO formats (sheet, range_json, request_json) VALUES (?, ?, ?)
				ON CONFLICT(sheet, range_json) DO UPDATE SET request_json = excluded.request_json`,
				sheet, string(rangeJSON), string(reqJSON)); err != nil {
				return fmt.Errorf("failed to save format: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) AutoResize(ctx context.Context, sheet string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireSheet(ctx, tx, sheet); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO widths (sheet, from_col, to_col) VALUES (?, ?, ?)
			ON CONFLICT(sheet) DO UPDATE SET from_col = excluded.from_col, to_col = excluded.to_col`,
			sheet, from, to)
		return err
	})
}

// =============================================================================
// IMPORT / INSPECTION
// =============================================================================

// ImportRows replaces sheet with rows, creating it if needed. Used to load a
// CSV export of the spreadsheet.
func (s *Store) ImportRows(ctx context.Context, sheet string, data []orders.Row) error {
	if _, err := orders.EnsureSheet(ctx, s, sheet); err != nil {
		return err
	}
	if err := s.Clear(ctx, sheet); err != nil {
		return err
	}
	return s.Write(ctx, sheet, 0, data)
}

// Formats returns the format requests applied to sheet, in order.
func (s *Store) Formats(ctx context.Context, sheet string) ([]orders.FormatRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT request_json FROM formats WHERE sheet = ? ORDER BY id`, sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.FormatRequest
	for rows.Next() {
		var reqJSON string
		if err := rows.Scan(&reqJSON); err != nil {
			return nil, err
		}
		var req orders.FormatRequest
		if err := json.Unmarshal([]byte(reqJSON), &req); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Reset clears all data (for testing).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM widths;
		DELETE FROM formats;
		DELETE FROM rows;
		DELETE FROM sheets;
	`)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	queryer
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) requireSheet(ctx context.Context, db queryer, sheet string) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE name = ?`, sheet).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	return nil
}

func loadRow(ctx context.Context, db queryer, sheet string, idx int) (orders.Row, error) {
	var cellsJSON string
	err := db.QueryRowContext(ctx,
		`SELECT cells_json FROM rows WHERE sheet = ? AND row_index = ?`, sheet, idx).Scan(&cellsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cells orders.Row
	if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
		return nil, err
	}
	return cells, nil
}

func saveRow(ctx context.Context, db execer, sheet string, idx int, row orders.Row) error {
	trimmed := trimTrailing(row)
	cellsJSON, err := json.Marshal(trimmed)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO rows (sheet, row_index, cells_json) VALUES (?, ?, ?)
		ON CONFLICT(sheet, row_index) DO UPDATE SET cells_json = excluded.cells_json`,
		sheet, idx, string(cellsJSON))
	if err != nil {
		return fmt.Errorf("failed to save row %d of %s: %w", idx, sheet, err)
	}
	return nil
}

// trimTrailing drops trailing empty cells and never returns nil, so an
// empty row is stored as "[]".
func trimTrailing(row orders.Row) orders.Row {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	out := make(orders.Row, n)
	copy(out, row[:n])
	return out
}
