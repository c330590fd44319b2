// Package loader produces the two typed tables the dashboard consumes,
// trading freshness for throughput: loads are memoized with a TTL,
// truncated to a bounded number of raw rows, and coerced so downstream
// aggregation only ever sees numbers.
package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Spirit-void/dasbor-finansial/internal/cache"
	"github.com/Spirit-void/dasbor-finansial/internal/core"
	"github.com/Spirit-void/dasbor-finansial/internal/sheets"
)

const (
	DefaultTTL      = 5 * time.Minute
	DefaultRowLimit = 500

	snapshotKey = "snapshot"
)

// Snapshot is one immutable load result. Either side may be empty when
// its read failed; both sides empty is the "data unavailable" signal
// handled once at the top of the pipeline.
type Snapshot struct {
	Transactions []core.Transaction
	Assets       []core.Asset
	LoadedAt     time.Time
}

// Empty reports the degraded both-tables-empty condition.
func (s Snapshot) Empty() bool {
	return len(s.Transactions) == 0 && len(s.Assets) == 0
}

// Options tune a Loader. Zero values fall back to the defaults above
// and the standard worksheet names.
type Options struct {
	TTL               time.Duration
	RowLimit          int
	TransactionsSheet string
	AssetsSheet       string
}

type Loader struct {
	store    sheets.Store
	rowLimit int
	txSheet  string
	asSheet  string

	loadMu sync.Mutex
	memo   *cache.TTLCache[Snapshot]
}

func New(store sheets.Store, opts Options) *Loader {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.RowLimit == 0 {
		opts.RowLimit = DefaultRowLimit
	}
	if opts.TransactionsSheet == "" {
		opts.TransactionsSheet = sheets.SheetTransactions
	}
	if opts.AssetsSheet == "" {
		opts.AssetsSheet = sheets.SheetAssets
	}
	return &Loader{
		store:    store,
		rowLimit: opts.RowLimit,
		txSheet:  opts.TransactionsSheet,
		asSheet:  opts.AssetsSheet,
		memo:     cache.New[Snapshot](opts.TTL),
	}
}

// Cache exposes the memo for lifecycle wiring (periodic cleanup).
func (l *Loader) Cache() *cache.TTLCache[Snapshot] { return l.memo }

// Load returns the current snapshot, reusing the memoized one inside
// the TTL window. A failed read on either side degrades to an empty
// table for that side; Load itself never fails.
func (l *Loader) Load(ctx context.Context) Snapshot {
	if snap, ok := l.memo.Get(snapshotKey); ok {
		return snap
	}

	// One flight at a time; late arrivals reuse the fresh result.
	l.loadMu.Lock()
	defer l.loadMu.Unlock()
	if snap, ok := l.memo.Get(snapshotKey); ok {
		return snap
	}

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Transactions = l.loadTransactions(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Assets = l.loadAssets(gctx)
		return nil
	})
	_ = g.Wait()
	snap.LoadedAt = time.Now()

	l.memo.Set(snapshotKey, snap)
	slog.InfoContext(ctx, "Loaded dashboard snapshot",
		"transactions", len(snap.Transactions),
		"assets", len(snap.Assets))
	return snap
}

// Invalidate drops the memoized snapshot. Every successful write calls
// this synchronously, before the next render cycle reads.
func (l *Loader) Invalidate() {
	l.memo.Delete(snapshotKey)
}

func (l *Loader) loadTransactions(ctx context.Context) []core.Transaction {
	recs, ok := l.read(ctx, l.txSheet)
	if !ok {
		return nil
	}
	out := make([]core.Transaction, 0, len(recs))
	for _, rec := range recs {
		date, _ := core.ParseDate(rec.Get(sheets.ColDate))
		out = append(out, core.Transaction{
			Date:        date,
			Type:        rec.Get(sheets.ColType),
			Category:    rec.Get(sheets.ColCategory),
			Description: rec.Get(sheets.ColDescription),
			Amount:      core.CoerceRupiah(rec.Get(sheets.ColAmount)),
		})
	}
	return out
}

func (l *Loader) loadAssets(ctx context.Context) []core.Asset {
	recs, ok := l.read(ctx, l.asSheet)
	if !ok {
		return nil
	}
	out := make([]core.Asset, 0, len(recs))
	for _, rec := range recs {
		out = append(out, core.Asset{
			Name:  rec.Get(sheets.ColAssetName),
			Type:  rec.Get(sheets.ColAssetType),
			Value: core.CoerceRupiah(rec.Get(sheets.ColAssetValue)),
		})
	}
	return out
}

// read opens and reads one worksheet. Failures degrade to an empty
// table; the store client already logged the details, this only records
// which side went dark.
func (l *Loader) read(ctx context.Context, sheet string) ([]sheets.Record, bool) {
	ws, err := l.store.OpenWorksheet(ctx, sheet)
	if err != nil {
		slog.WarnContext(ctx, "Worksheet unavailable, serving empty table",
			"worksheet", sheet, "error", err)
		return nil, false
	}
	recs, err := l.store.ReadAll(ctx, ws, l.rowLimit)
	if err != nil {
		slog.WarnContext(ctx, "Worksheet read failed, serving empty table",
			"worksheet", sheet, "error", err)
		return nil, false
	}
	return recs, true
}
