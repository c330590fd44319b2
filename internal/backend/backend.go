// Package backend selects and constructs the store implementation the
// rest of the system talks to through the sheets.Store port.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Spirit-void/dasbor-finansial/internal/config"
	"github.com/Spirit-void/dasbor-finansial/internal/sheets"
	"github.com/Spirit-void/dasbor-finansial/internal/sheets/google"
	"github.com/Spirit-void/dasbor-finansial/internal/sheets/memory"
	"github.com/Spirit-void/dasbor-finansial/internal/storage"
)

// CleanupFunc releases backend resources at shutdown; may be nil.
type CleanupFunc func() error

// New builds the configured store. For the sheets backend a credential
// that cannot be resolved is returned as an error and treated as fatal
// by the caller: nothing downstream works without a store connection.
func New(ctx context.Context, cfg *config.Config) (sheets.Store, CleanupFunc, error) {
	switch cfg.DataBackend {
	case "sheets":
		cli, err := google.NewFromEnv(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		slog.InfoContext(ctx, "Initialized Google Sheets backend",
			"spreadsheet_id", cfg.GoogleSpreadsheetID)
		return cli, nil, nil

	case "sqlite":
		store, err := storage.NewStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize SQLite store: %w", err)
		}
		slog.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return store, store.Close, nil

	case "memory":
		slog.InfoContext(ctx, "Initialized memory backend")
		return memory.NewSeeded(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
