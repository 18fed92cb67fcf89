package worker

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"defter/internal/amqp"
	"defter/internal/books"
	"defter/internal/core"
)

// ExportWorker mirrors the assembled ledger to an external destination,
// typically the accountant's spreadsheet. The ledger is a pure projection of
// the raw collections, so every export is a full rebuild and rewrite: there
// is no incremental state to track and a lost message costs nothing that the
// next export does not repair.
type ExportWorker struct {
	store    books.Store
	exporter books.LedgerExporter
}

func NewExportWorker(store books.Store, exporter books.LedgerExporter) *ExportWorker {
	return &ExportWorker{
		store:    store,
		exporter: exporter,
	}
}

// HandleMessage processes a single sync or delete message from AMQP. Both
// kinds trigger the same full re-export.
func (w *ExportWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionMessage) error {
	slog.InfoContext(ctx, "Processing transaction message",
		"kind", msg.Kind,
		"type", msg.Type,
		"id", msg.ID)

	if err := w.Export(ctx); err != nil {
		return fmt.Errorf("export after %s of %s %s: %w", msg.Kind, msg.Type, msg.ID, err)
	}
	return nil
}

// Export rebuilds the ledger from the raw collections and pushes entries and
// summaries to the exporter.
func (w *ExportWorker) Export(ctx context.Context) error {
	invoices, err := w.store.ListInvoices(ctx)
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}
	expenses, err := w.store.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	sales, err := w.store.ListSales(ctx)
	if err != nil {
		return fmt.Errorf("list sales: %w", err)
	}

	entries := core.BuildLedger(invoices, expenses, sales)

	if err := w.exporter.ExportEntries(ctx, entries); err != nil {
		return fmt.Errorf("export entries: %w", err)
	}
	if err := w.exporter.ExportSummary(ctx, core.Summarize(entries), core.SummarizeGross(entries)); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}

	slog.InfoContext(ctx, "Ledger exported",
		"entries", len(entries),
		"invoices", len(invoices),
		"expenses", len(expenses),
		"sales", len(sales))

	return nil
}

// StartupExport pushes a full export at worker startup. This recovers from
// missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup export")
	if err := w.Export(ctx); err != nil {
		return fmt.Errorf("startup export: %w", err)
	}
	return nil
}

// RunPeriodic re-exports the ledger at the given interval until the context
// is cancelled. It is a safety net alongside message-driven exports.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Export(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
