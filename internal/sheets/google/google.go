// Package google implements the sheets.Store port against the Google
// Sheets API using a service-account credential.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/Spirit-void/dasbor-finansial/internal/sheets"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ sheets.Store = (*Client)(nil)

// NewFromEnv creates a Sheets client from the environment.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS. A credential that cannot be resolved
// is a startup-fatal condition for the caller; nothing downstream works
// without a store connection.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials, resolved from inline JSON first, then a key file path.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// OpenWorksheet resolves a worksheet title and reads its header row.
func (c *Client) OpenWorksheet(ctx context.Context, name string) (*sheets.Worksheet, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, c.fail(ctx, "open_worksheet", name, classify(err, sheets.ErrSpreadsheetNotFound))
	}

	found := false
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == name {
			found = true
			break
		}
	}
	if !found {
		return nil, c.fail(ctx, "open_worksheet", name,
			fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, name))
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeRef(name, "1:1")).
		Context(ctx).Do()
	if err != nil {
		return nil, c.fail(ctx, "read_header", name, classify(err, sheets.ErrWorksheetNotFound))
	}

	var headers []string
	if len(resp.Values) > 0 {
		headers = toStrings(resp.Values[0])
	}
	return sheets.NewWorksheet(name, headers), nil
}

// ReadAll reads header plus data rows and maps them onto Records. A
// positive limit keeps only the last limit data rows, bounding transfer
// cost on large sheets while preserving order.
func (c *Client) ReadAll(ctx context.Context, ws *sheets.Worksheet, limit int) ([]sheets.Record, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheetRef(ws.Title)).
		Context(ctx).Do()
	if err != nil {
		return nil, c.fail(ctx, "read_all", ws.Title, classify(err, sheets.ErrWorksheetNotFound))
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}
	rows := lastN(resp.Values[1:], limit)

	out := make([]sheets.Record, 0, len(rows))
	for _, row := range rows {
		cols := toStrings(row)
		rec := make(sheets.Record, len(ws.Headers))
		for i, h := range ws.Headers {
			if h == "" {
				continue
			}
			if i < len(cols) {
				rec[h] = cols[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// AppendRow appends one row at the end of the worksheet.
func (c *Client) AppendRow(ctx context.Context, ws *sheets.Worksheet, fields []any) error {
	vr := &gsheet.ValueRange{Values: [][]any{fields}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rangeRef(ws.Title, "A1"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return c.fail(ctx, "append_row", ws.Title, classify(err, sheets.ErrWorksheetNotFound))
	}
	return nil
}

// FindRow scans the sheet row-major, top to bottom, left to right, for
// the first cell equal to key.
func (c *Client) FindRow(ctx context.Context, ws *sheets.Worksheet, key string) (sheets.RowHandle, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheetRef(ws.Title)).
		Context(ctx).Do()
	if err != nil {
		return sheets.RowHandle{}, c.fail(ctx, "find_row", ws.Title, classify(err, sheets.ErrWorksheetNotFound))
	}
	for i, row := range resp.Values {
		for _, cell := range toStrings(row) {
			if cell == key {
				return sheets.RowHandle{Row: i + 1}, nil
			}
		}
	}
	return sheets.RowHandle{}, fmt.Errorf("%w: %q in worksheet %q", sheets.ErrRowNotFound, key, ws.Title)
}

// UpdateCell overwrites exactly one cell, addressed by row handle and
// header name.
func (c *Client) UpdateCell(ctx context.Context, ws *sheets.Worksheet, h sheets.RowHandle, column string, value any) error {
	col, err := ws.ColumnIndex(column)
	if err != nil {
		return err
	}
	rng := rangeRef(ws.Title, fmt.Sprintf("%s%d", columnLetter(col), h.Row))
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return c.fail(ctx, "update_cell", ws.Title, classify(err, sheets.ErrWorksheetNotFound))
	}
	return nil
}

// fail logs a store failure with enough context to diagnose offline and
// hands the typed error back to the caller.
func (c *Client) fail(ctx context.Context, op, worksheet string, err error) error {
	slog.ErrorContext(ctx, "Sheets operation failed",
		"operation", op,
		"worksheet", worksheet,
		"error", err)
	return err
}

// classify maps Google API status codes onto the port's typed errors so
// callers can branch without knowing the transport.
func classify(err error, notFound error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", notFound, err)
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("credential rejected: %w", err)
		}
	}
	return err
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// lastN keeps the trailing n rows, preserving order. Non-positive n
// means no truncation.
func lastN(rows [][]any, n int) [][]any {
	if n > 0 && len(rows) > n {
		return rows[len(rows)-n:]
	}
	return rows
}

// columnLetter converts a 1-based column index to A1 notation.
func columnLetter(col int) string {
	var s string
	for col > 0 {
		col--
		s = string(rune('A'+col%26)) + s
		col /= 26
	}
	return s
}

func sheetRef(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func rangeRef(title, cells string) string {
	return sheetRef(title) + "!" + cells
}
