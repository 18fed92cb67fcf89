package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"defter/internal/amqp"
	"defter/internal/books"
	"defter/internal/core"
)

// LedgerService orchestrates the raw-transaction store, the recognition
// engine and the AMQP sync queue. Writes land in the store first; the sync
// message is best-effort and never fails the request.
type LedgerService struct {
	store      books.Store
	amqpClient *amqp.Client
}

func NewLedgerService(store books.Store, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// LedgerView is one assembled, filtered view over the books: entries in
// canonical newest-first order with running balances, plus both summary
// variants the product displays.
type LedgerView struct {
	Entries    []core.LedgerEntry `json:"entries"`
	Recognized core.Summary       `json:"recognized"`
	Gross      core.Summary       `json:"gross"`
}

// Ledger snapshots the three collections, runs the engine, applies the
// filter and summarizes the filtered view.
func (s *LedgerService) Ledger(ctx context.Context, filter core.Filter) (LedgerView, error) {
	invoices, expenses, sales, err := s.snapshot(ctx)
	if err != nil {
		return LedgerView{}, err
	}

	entries := filter.Apply(core.BuildLedger(invoices, expenses, sales))
	return LedgerView{
		Entries:    entries,
		Recognized: core.Summarize(entries),
		Gross:      core.SummarizeGross(entries),
	}, nil
}

// MonthlyReport returns the income/expense series for the `months` calendar
// months ending now.
func (s *LedgerService) MonthlyReport(ctx context.Context, months int) ([]core.MonthTotal, error) {
	invoices, expenses, sales, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return core.MonthlySeries(invoices, expenses, sales, time.Now().UTC(), months), nil
}

func (s *LedgerService) CategoryReport(ctx context.Context) ([]core.CategoryTotal, error) {
	_, expenses, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return core.ExpenseCategories(expenses), nil
}

func (s *LedgerService) CustomerReport(ctx context.Context, limit int) ([]core.CustomerTotal, error) {
	invoices, _, sales, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return core.TopCustomers(invoices, sales, limit), nil
}

func (s *LedgerService) ProfitReport(ctx context.Context) (core.ProfitSummary, error) {
	invoices, expenses, sales, err := s.snapshot(ctx)
	if err != nil {
		return core.ProfitSummary{}, err
	}
	return core.Profit(invoices, expenses, sales), nil
}

func (s *LedgerService) snapshot(ctx context.Context) ([]core.Invoice, []core.Expense, []core.Sale, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list invoices: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list expenses: %w", err)
	}
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list sales: %w", err)
	}
	return invoices, expenses, sales, nil
}

// CreateInvoice saves an invoice and publishes a sync message.
func (s *LedgerService) CreateInvoice(ctx context.Context, inv core.Invoice) (string, error) {
	ref, err := s.store.AppendInvoice(ctx, inv)
	if err != nil {
		return "", fmt.Errorf("save invoice: %w", err)
	}
	s.publishSync(ctx, string(core.TypeInvoice), inv.ID)
	return ref, nil
}

// CreateExpense saves an expense and publishes a sync message.
func (s *LedgerService) CreateExpense(ctx context.Context, exp core.Expense) (string, error) {
	ref, err := s.store.AppendExpense(ctx, exp)
	if err != nil {
		return "", fmt.Errorf("save expense: %w", err)
	}
	s.publishSync(ctx, string(core.TypeExpense), exp.ID)
	return ref, nil
}

// CreateSale saves a direct sale and publishes a sync message.
func (s *LedgerService) CreateSale(ctx context.Context, sale core.Sale) (string, error) {
	ref, err := s.store.AppendSale(ctx, sale)
	if err != nil {
		return "", fmt.Errorf("save sale: %w", err)
	}
	s.publishSync(ctx, string(core.TypeSale), sale.ID)
	return ref, nil
}

// DeleteTransaction removes a transaction of the given type and publishes a
// delete message.
func (s *LedgerService) DeleteTransaction(ctx context.Context, t core.EntryType, id string) error {
	var err error
	switch t {
	case core.TypeInvoice:
		err = s.store.DeleteInvoice(ctx, id)
	case core.TypeExpense:
		err = s.store.DeleteExpense(ctx, id)
	case core.TypeSale:
		err = s.store.DeleteSale(ctx, id)
	default:
		return fmt.Errorf("unknown transaction type %q", t)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", t, err)
	}

	s.publishDelete(ctx, string(t), id)
	return nil
}

func (s *LedgerService) publishSync(ctx context.Context, txType, id string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return
	}
	if err := s.amqpClient.Publish(ctx, amqp.NewSyncMessage(txType, id)); err != nil {
		// The record is saved; export catches up on the next periodic run.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"type", txType, "id", id, "error", err)
	}
}

func (s *LedgerService) publishDelete(ctx context.Context, txType, id string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return
	}
	if err := s.amqpClient.Publish(ctx, amqp.NewDeleteMessage(txType, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"type", txType, "id", id, "error", err)
	}
}

// Close releases the AMQP connection. The store is owned by its factory.
func (s *LedgerService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp: %w", err)
		}
	}
	return nil
}
