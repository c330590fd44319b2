// Package storage implements the sheets.Store port on a local SQLite
// database, mirroring the worksheet layout cell for cell. It backs the
// offline/dev mode where no spreadsheet is reachable.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Spirit-void/dasbor-finansial/internal/sheets"

	_ "modernc.org/sqlite"
)

// tableDef maps a worksheet title onto its SQL table and the column
// order of its header row.
type tableDef struct {
	table   string
	headers []string
	columns []string
}

var tables = map[string]tableDef{
	sheets.SheetTransactions: {
		table:   "transaksi",
		headers: []string{sheets.ColDate, sheets.ColType, sheets.ColCategory, sheets.ColDescription, sheets.ColAmount},
		columns: []string{"tanggal", "jenis", "kategori", "deskripsi", "jumlah"},
	},
	sheets.SheetAssets: {
		table:   "aset",
		headers: []string{sheets.ColAssetName, sheets.ColAssetType, sheets.ColAssetValue},
		columns: []string{"nama", "jenis", "nilai"},
	},
}

type Store struct {
	db *sql.DB
}

var _ sheets.Store = (*Store)(nil)

func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) OpenWorksheet(_ context.Context, name string) (*sheets.Worksheet, error) {
	def, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, name)
	}
	return sheets.NewWorksheet(name, def.headers), nil
}

func (s *Store) ReadAll(ctx context.Context, ws *sheets.Worksheet, limit int) ([]sheets.Record, error) {
	def, ok := tables[ws.Title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, ws.Title)
	}
	rows, err := s.selectRows(ctx, def)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	out := make([]sheets.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(sheets.Record, len(def.headers))
		for i, h := range def.headers {
			rec[h] = row[i]
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, ws *sheets.Worksheet, fields []any) error {
	def, ok := tables[ws.Title]
	if !ok {
		return fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, ws.Title)
	}
	values := make([]any, len(def.columns))
	for i := range def.columns {
		if i < len(fields) {
			values[i] = fmt.Sprint(fields[i])
		} else {
			values[i] = ""
		}
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		def.table,
		strings.Join(def.columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(def.columns)), ", "))
	if _, err := s.db.ExecContext(ctx, q, values...); err != nil {
		return fmt.Errorf("append row to %s: %w", def.table, err)
	}
	return nil
}

// FindRow scans the virtual sheet in the store's native order: header
// row first, then data rows top to bottom, cells left to right.
func (s *Store) FindRow(ctx context.Context, ws *sheets.Worksheet, key string) (sheets.RowHandle, error) {
	def, ok := tables[ws.Title]
	if !ok {
		return sheets.RowHandle{}, fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, ws.Title)
	}
	for _, h := range def.headers {
		if h == key {
			return sheets.RowHandle{Row: 1}, nil
		}
	}
	rows, err := s.selectRows(ctx, def)
	if err != nil {
		return sheets.RowHandle{}, err
	}
	for i, row := range rows {
		for _, cell := range row {
			if cell == key {
				return sheets.RowHandle{Row: i + 2}, nil
			}
		}
	}
	return sheets.RowHandle{}, fmt.Errorf("%w: %q in worksheet %q", sheets.ErrRowNotFound, key, ws.Title)
}

func (s *Store) UpdateCell(ctx context.Context, ws *sheets.Worksheet, h sheets.RowHandle, column string, value any) error {
	def, ok := tables[ws.Title]
	if !ok {
		return fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, ws.Title)
	}
	col, err := ws.ColumnIndex(column)
	if err != nil {
		return err
	}
	offset := h.Row - 2
	if offset < 0 {
		return fmt.Errorf("%w: row %d in worksheet %q", sheets.ErrRowNotFound, h.Row, ws.Title)
	}
	q := fmt.Sprintf(
		"UPDATE %s SET %s = ? WHERE id = (SELECT id FROM %s ORDER BY id LIMIT 1 OFFSET ?)",
		def.table, def.columns[col-1], def.table)
	res, err := s.db.ExecContext(ctx, q, fmt.Sprint(value), offset)
	if err != nil {
		return fmt.Errorf("update cell in %s: %w", def.table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: row %d in worksheet %q", sheets.ErrRowNotFound, h.Row, ws.Title)
	}
	return nil
}

func (s *Store) selectRows(ctx context.Context, def tableDef) ([][]string, error) {
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(def.columns, ", "), def.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", def.table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells := make([]string, len(def.columns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", def.table, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}
