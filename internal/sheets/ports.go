// Package sheets defines the port for the remote tabular store and the
// typed failures its adapters report.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Worksheet and column names of the backing spreadsheet.
const (
	SheetTransactions = "Transaksi"
	SheetAssets       = "Aset"

	ColDate        = "Tanggal"
	ColType        = "Jenis"
	ColCategory    = "Kategori"
	ColDescription = "Deskripsi"
	ColAmount      = "Jumlah"

	ColAssetName  = "Nama Aset"
	ColAssetType  = "Jenis Aset"
	ColAssetValue = "Nilai Sekarang"
)

var (
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	ErrWorksheetNotFound   = errors.New("worksheet not found")
	ErrRowNotFound         = errors.New("row not found")
	ErrMissingColumn       = errors.New("missing column")
)

// Record is one data row keyed by column header.
type Record map[string]string

// Get returns the trimmed cell value for a column, empty when absent.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Worksheet identifies an opened worksheet. Opening resolves the header
// row once so later cell writes address columns by name instead of a
// hardcoded index.
type Worksheet struct {
	Title   string
	Headers []string

	cols map[string]int
}

// NewWorksheet builds a worksheet handle from its header row. Duplicate
// headers keep the first occurrence.
func NewWorksheet(title string, headers []string) *Worksheet {
	ws := &Worksheet{Title: title, cols: make(map[string]int, len(headers))}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		ws.Headers = append(ws.Headers, h)
		if _, ok := ws.cols[h]; !ok && h != "" {
			ws.cols[h] = i + 1
		}
	}
	return ws
}

// ColumnIndex resolves a header name to its 1-based column index. An
// absent header is ErrMissingColumn: better to fail loudly here than to
// write into whatever column happens to sit at a guessed index.
func (w *Worksheet) ColumnIndex(name string) (int, error) {
	if idx, ok := w.cols[strings.TrimSpace(name)]; ok {
		return idx, nil
	}
	return 0, fmt.Errorf("%w: %q in worksheet %q", ErrMissingColumn, name, w.Title)
}

// RowHandle identifies one row of a worksheet; Row is 1-based and counts
// the header row, matching the store's native addressing.
type RowHandle struct {
	Row int
}

// Store is the remote tabular store port. Adapters convert their native
// failures into the typed errors above and must never terminate the
// process; callers decide how to degrade.
type Store interface {
	// OpenWorksheet resolves a worksheet by title inside the configured
	// spreadsheet and reads its header row.
	OpenWorksheet(ctx context.Context, name string) (*Worksheet, error)

	// ReadAll returns the data rows in stored order. A positive limit
	// keeps only the last limit rows. An empty sheet is an empty slice,
	// not an error.
	ReadAll(ctx context.Context, ws *Worksheet, limit int) ([]Record, error)

	// AppendRow appends one row of scalar fields. No validation happens
	// at the store; callers validate first.
	AppendRow(ctx context.Context, ws *Worksheet, fields []any) error

	// FindRow returns a handle to the first row containing a cell equal
	// to key, scanning row-major from the top of the sheet.
	FindRow(ctx context.Context, ws *Worksheet, key string) (RowHandle, error)

	// UpdateCell overwrites a single cell, addressing the column by
	// header name.
	UpdateCell(ctx context.Context, ws *Worksheet, h RowHandle, column string, value any) error
}
