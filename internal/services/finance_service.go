// Package services orchestrates the dashboard's read and write paths
// over the store port and the snapshot loader.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Spirit-void/dasbor-finansial/internal/amqp"
	"github.com/Spirit-void/dasbor-finansial/internal/core"
	"github.com/Spirit-void/dasbor-finansial/internal/loader"
	"github.com/Spirit-void/dasbor-finansial/internal/sheets"
)

// EventPublisher broadcasts write events to peer instances. Optional;
// nil means single-instance deployment.
type EventPublisher interface {
	PublishWriteEvent(ctx context.Context, ev amqp.WriteEvent) error
}

type FinanceService struct {
	store  sheets.Store
	loader *loader.Loader
	events EventPublisher
}

func NewFinanceService(store sheets.Store, l *loader.Loader, events EventPublisher) *FinanceService {
	return &FinanceService{store: store, loader: l, events: events}
}

// Summary returns the aggregate totals plus the degraded flag: both
// tables empty means "no data yet", prompting the user to populate the
// sheet rather than treating it as a failure.
func (s *FinanceService) Summary(ctx context.Context) (core.Summary, bool) {
	snap := s.loader.Load(ctx)
	return core.Summarize(snap.Transactions, snap.Assets), snap.Empty()
}

// AssetChart returns the asset-composition pie dataset.
func (s *FinanceService) AssetChart(ctx context.Context) []core.NameValue {
	snap := s.loader.Load(ctx)
	return core.AssetComposition(snap.Assets)
}

// ExpenseChart returns the expense-by-category pie dataset, optionally
// capped to the most recent limit transactions.
func (s *FinanceService) ExpenseChart(ctx context.Context, limit int) []core.NameValue {
	snap := s.loader.Load(ctx)
	return core.ExpenseByCategory(snap.Transactions, limit)
}

// Transactions returns one page of the raw transaction table.
func (s *FinanceService) Transactions(ctx context.Context, size, number int) ([]core.Transaction, core.PageInfo) {
	snap := s.loader.Load(ctx)
	return core.PageSlice(snap.Transactions, size, number)
}

// Assets returns one page of the raw asset table.
func (s *FinanceService) Assets(ctx context.Context, size, number int) ([]core.Asset, core.PageInfo) {
	snap := s.loader.Load(ctx)
	return core.PageSlice(snap.Assets, size, number)
}

// AssetNames lists the asset names the update form can choose from.
func (s *FinanceService) AssetNames(ctx context.Context) []string {
	snap := s.loader.Load(ctx)
	names := make([]string, 0, len(snap.Assets))
	for _, a := range snap.Assets {
		names = append(names, a.Name)
	}
	return names
}

// AppendTransaction validates and appends one transaction row, then
// invalidates the snapshot so the next read reflects the write.
func (s *FinanceService) AppendTransaction(ctx context.Context, in core.TransactionInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	ws, err := s.store.OpenWorksheet(ctx, sheets.SheetTransactions)
	if err != nil {
		return fmt.Errorf("open transactions worksheet: %w", err)
	}
	fields := []any{
		in.Date.Format("2006-01-02"),
		in.Type,
		in.Category,
		in.Description,
		int64(in.Amount),
	}
	if err := s.store.AppendRow(ctx, ws, fields); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}

	s.loader.Invalidate()
	s.publish(ctx, amqp.NewWriteEvent(sheets.SheetTransactions, amqp.OpAppend, in.Description))
	slog.InfoContext(ctx, "Transaction appended",
		"type", in.Type,
		"category", in.Category,
		"amount", int64(in.Amount))
	return nil
}

// UpdateAssetValue validates and overwrites the Nilai Sekarang cell of
// the named asset. A missing asset is core.ErrAssetNotFound and no cell
// write happens.
func (s *FinanceService) UpdateAssetValue(ctx context.Context, in core.AssetUpdateInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	ws, err := s.store.OpenWorksheet(ctx, sheets.SheetAssets)
	if err != nil {
		return fmt.Errorf("open assets worksheet: %w", err)
	}
	h, err := s.store.FindRow(ctx, ws, in.Name)
	if err != nil {
		if errors.Is(err, sheets.ErrRowNotFound) {
			return fmt.Errorf("%w: %q", core.ErrAssetNotFound, in.Name)
		}
		return fmt.Errorf("find asset row: %w", err)
	}
	if err := s.store.UpdateCell(ctx, ws, h, sheets.ColAssetValue, int64(in.NewValue)); err != nil {
		return fmt.Errorf("update asset value: %w", err)
	}

	s.loader.Invalidate()
	s.publish(ctx, amqp.NewWriteEvent(sheets.SheetAssets, amqp.OpUpdate, in.Name))
	slog.InfoContext(ctx, "Asset value updated",
		"asset", in.Name,
		"value", int64(in.NewValue))
	return nil
}

// HandleWriteEvent reacts to a peer instance's write by dropping the
// local snapshot. Invalidating for our own echoed events is harmless.
func (s *FinanceService) HandleWriteEvent(ev amqp.WriteEvent) {
	s.loader.Invalidate()
	slog.Info("Snapshot invalidated by peer write event",
		"worksheet", ev.Worksheet,
		"op", ev.Op)
}

// publish broadcasts a write event. Failure never fails the request;
// the write already landed and peers recover at TTL expiry.
func (s *FinanceService) publish(ctx context.Context, ev amqp.WriteEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishWriteEvent(ctx, ev); err != nil {
		slog.WarnContext(ctx, "Failed to publish write event",
			"worksheet", ev.Worksheet,
			"op", ev.Op,
			"error", err)
	}
}
