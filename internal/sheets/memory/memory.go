// Package memory implements the sheets.Store port in process memory.
// It backs local development (DATA_BACKEND=memory) and the tests of
// everything that consumes the port.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Spirit-void/dasbor-finansial/internal/sheets"
)

type worksheet struct {
	headers []string
	rows    [][]string
}

type Store struct {
	mu     sync.Mutex
	sheets map[string]*worksheet
}

var _ sheets.Store = (*Store)(nil)

func New() *Store {
	return &Store{sheets: make(map[string]*worksheet)}
}

// NewSeeded returns a store with the two dashboard worksheets and their
// header rows already in place.
func NewSeeded() *Store {
	s := New()
	s.AddWorksheet(sheets.SheetTransactions, []string{
		sheets.ColDate, sheets.ColType, sheets.ColCategory, sheets.ColDescription, sheets.ColAmount,
	})
	s.AddWorksheet(sheets.SheetAssets, []string{
		sheets.ColAssetName, sheets.ColAssetType, sheets.ColAssetValue,
	})
	return s
}

// AddWorksheet creates an empty worksheet with the given header row.
func (s *Store) AddWorksheet(title string, headers []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[title] = &worksheet{headers: append([]string(nil), headers...)}
}

func (s *Store) OpenWorksheet(_ context.Context, name string) (*sheets.Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, name)
	}
	return sheets.NewWorksheet(name, ws.headers), nil
}

func (s *Store) ReadAll(_ context.Context, ws *sheets.Worksheet, limit int) ([]sheets.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab, ok := s.sheets[ws.Title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, ws.Title)
	}

	rows := tab.rows
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	out := make([]sheets.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(sheets.Record, len(tab.headers))
		for i, h := range tab.headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) AppendRow(_ context.Context, ws *sheets.Worksheet, fields []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab, ok := s.sheets[ws.Title]
	if !ok {
		return fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, ws.Title)
	}
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = fmt.Sprint(f)
	}
	tab.rows = append(tab.rows, row)
	return nil
}

func (s *Store) FindRow(_ context.Context, ws *sheets.Worksheet, key string) (sheets.RowHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab, ok := s.sheets[ws.Title]
	if !ok {
		return sheets.RowHandle{}, fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, ws.Title)
	}
	for _, h := range tab.headers {
		if h == key {
			return sheets.RowHandle{Row: 1}, nil
		}
	}
	for i, row := range tab.rows {
		for _, cell := range row {
			if cell == key {
				return sheets.RowHandle{Row: i + 2}, nil
			}
		}
	}
	return sheets.RowHandle{}, fmt.Errorf("%w: %q in worksheet %q", sheets.ErrRowNotFound, key, ws.Title)
}

func (s *Store) UpdateCell(_ context.Context, ws *sheets.Worksheet, h sheets.RowHandle, column string, value any) error {
	col, err := ws.ColumnIndex(column)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tab, ok := s.sheets[ws.Title]
	if !ok {
		return fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, ws.Title)
	}
	idx := h.Row - 2
	if idx < 0 || idx >= len(tab.rows) {
		return fmt.Errorf("%w: row %d in worksheet %q", sheets.ErrRowNotFound, h.Row, ws.Title)
	}
	row := tab.rows[idx]
	for len(row) < col {
		row = append(row, "")
	}
	row[col-1] = fmt.Sprint(value)
	tab.rows[idx] = row
	return nil
}
