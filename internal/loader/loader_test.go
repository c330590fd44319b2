package loader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Spirit-void/dasbor-finansial/internal/sheets"
	"github.com/Spirit-void/dasbor-finansial/internal/sheets/memory"
)

// countingStore wraps a Store and counts reads; failSheets lets tests
// fail one side of the load.
type countingStore struct {
	sheets.Store
	opens      atomic.Int64
	reads      atomic.Int64
	failSheets map[string]bool
}

func (c *countingStore) OpenWorksheet(ctx context.Context, name string) (*sheets.Worksheet, error) {
	c.opens.Add(1)
	if c.failSheets[name] {
		return nil, errors.New("store offline")
	}
	return c.Store.OpenWorksheet(ctx, name)
}

func (c *countingStore) ReadAll(ctx context.Context, ws *sheets.Worksheet, limit int) ([]sheets.Record, error) {
	c.reads.Add(1)
	return c.Store.ReadAll(ctx, ws, limit)
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewSeeded()
	tws, err := s.OpenWorksheet(ctx, sheets.SheetTransactions)
	if err != nil {
		t.Fatal(err)
	}
	aws, err := s.OpenWorksheet(ctx, sheets.SheetAssets)
	if err != nil {
		t.Fatal(err)
	}
	s.AppendRow(ctx, tws, []any{"2024-01-01", "Pemasukan", "Gaji", "Jan pay", "5000000"})
	s.AppendRow(ctx, tws, []any{"2024-01-02", "Pengeluaran", "Konsumsi", "Groceries", "150000"})
	s.AppendRow(ctx, aws, []any{"Gold-1", "Emas", "1000000"})
	return s
}

func TestLoadTypesAndCoercion(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	tws, _ := s.OpenWorksheet(ctx, sheets.SheetTransactions)
	s.AppendRow(ctx, tws, []any{"not-a-date", "Pengeluaran", "Tagihan", "Torn receipt", "n/a"})

	snap := New(s, Options{}).Load(ctx)
	if len(snap.Transactions) != 3 || len(snap.Assets) != 1 {
		t.Fatalf("snapshot sizes: %d txs, %d assets", len(snap.Transactions), len(snap.Assets))
	}
	if snap.Transactions[0].Amount != 5000000 {
		t.Errorf("amount coercion: %d", snap.Transactions[0].Amount)
	}
	// Unparseable cells coerce to zero instead of aborting the load.
	bad := snap.Transactions[2]
	if bad.Amount != 0 || !bad.Date.IsZero() {
		t.Errorf("bad row should degrade, got %+v", bad)
	}
	if snap.Assets[0].Value != 1000000 || snap.Assets[0].Type != "Emas" {
		t.Errorf("asset row: %+v", snap.Assets[0])
	}
}

func TestLoadIsMemoizedWithinTTL(t *testing.T) {
	ctx := context.Background()
	cs := &countingStore{Store: seededStore(t)}
	l := New(cs, Options{TTL: time.Hour})

	first := l.Load(ctx)
	reads := cs.reads.Load()
	if reads != 2 {
		t.Fatalf("first load should read both sheets, got %d reads", reads)
	}

	second := l.Load(ctx)
	if cs.reads.Load() != reads {
		t.Fatal("second load within TTL must not contact the store")
	}
	if len(second.Transactions) != len(first.Transactions) || !second.LoadedAt.Equal(first.LoadedAt) {
		t.Fatal("memoized load should return the identical snapshot")
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	cs := &countingStore{Store: store}
	l := New(cs, Options{TTL: time.Hour})

	if snap := l.Load(ctx); len(snap.Assets) != 1 {
		t.Fatalf("seed assets: %d", len(snap.Assets))
	}

	aws, _ := store.OpenWorksheet(ctx, sheets.SheetAssets)
	store.AppendRow(ctx, aws, []any{"Cash-1", "Tabungan", "500000"})

	// Still stale before invalidation.
	if snap := l.Load(ctx); len(snap.Assets) != 1 {
		t.Fatal("write must not be visible before invalidation")
	}
	l.Invalidate()
	if snap := l.Load(ctx); len(snap.Assets) != 2 {
		t.Fatal("invalidation must force a fresh read")
	}
}

func TestTTLExpiryReloads(t *testing.T) {
	ctx := context.Background()
	cs := &countingStore{Store: seededStore(t)}
	l := New(cs, Options{TTL: 10 * time.Millisecond})

	l.Load(ctx)
	time.Sleep(20 * time.Millisecond)
	l.Load(ctx)
	if cs.reads.Load() != 4 {
		t.Fatalf("expected a reload after TTL expiry, got %d reads", cs.reads.Load())
	}
}

func TestOneSideFailingDegradesToEmptyTable(t *testing.T) {
	ctx := context.Background()
	cs := &countingStore{
		Store:      seededStore(t),
		failSheets: map[string]bool{sheets.SheetAssets: true},
	}
	snap := New(cs, Options{}).Load(ctx)
	if len(snap.Assets) != 0 {
		t.Fatalf("failing side should be empty, got %d assets", len(snap.Assets))
	}
	if len(snap.Transactions) != 2 {
		t.Fatalf("healthy side should still load, got %d transactions", len(snap.Transactions))
	}
	if snap.Empty() {
		t.Fatal("snapshot with transactions is not the degraded empty state")
	}
}

func TestBothSidesFailingIsEmptySnapshot(t *testing.T) {
	cs := &countingStore{
		Store: memory.New(),
		failSheets: map[string]bool{
			sheets.SheetTransactions: true,
			sheets.SheetAssets:       true,
		},
	}
	snap := New(cs, Options{}).Load(context.Background())
	if !snap.Empty() {
		t.Fatalf("expected the degraded empty snapshot, got %+v", snap)
	}
}

func TestRowLimitIsApplied(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSeeded()
	tws, _ := s.OpenWorksheet(ctx, sheets.SheetTransactions)
	for i := 0; i < 10; i++ {
		s.AppendRow(ctx, tws, []any{"2024-01-01", "Pengeluaran", "Konsumsi", "x", i})
	}
	snap := New(s, Options{RowLimit: 3}).Load(ctx)
	if len(snap.Transactions) != 3 {
		t.Fatalf("row limit not applied: %d rows", len(snap.Transactions))
	}
	if snap.Transactions[2].Amount != 9 {
		t.Fatalf("limit should keep the most recent rows: %+v", snap.Transactions)
	}
}
