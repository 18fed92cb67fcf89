package books

import (
	"context"
	"errors"

	"defter/internal/core"
)

// ErrNotFound is returned by deleters when no live record matches the id.
var ErrNotFound = errors.New("record not found")

// Ports for outbound adapters.
type (
	// TransactionReader fetches the three raw collections the engine merges.
	TransactionReader interface {
		ListInvoices(ctx context.Context) ([]core.Invoice, error)
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		ListSales(ctx context.Context) ([]core.Sale, error)
	}

	// TransactionWriter appends raw transactions to the backing store and
	// returns a store-specific reference for the new record.
	TransactionWriter interface {
		AppendInvoice(ctx context.Context, inv core.Invoice) (ref string, err error)
		AppendExpense(ctx context.Context, exp core.Expense) (ref string, err error)
		AppendSale(ctx context.Context, sale core.Sale) (ref string, err error)
	}

	// TransactionDeleter removes transactions by source id. Implementations
	// may soft-delete.
	TransactionDeleter interface {
		DeleteInvoice(ctx context.Context, id string) error
		DeleteExpense(ctx context.Context, id string) error
		DeleteSale(ctx context.Context, id string) error
	}

	// LedgerExporter pushes an assembled ledger to an external destination,
	// such as the accountant's spreadsheet.
	LedgerExporter interface {
		ExportEntries(ctx context.Context, entries []core.LedgerEntry) error
		ExportSummary(ctx context.Context, recognized, gross core.Summary) error
	}

	// Store is the full storage surface the service layer works against.
	Store interface {
		TransactionReader
		TransactionWriter
		TransactionDeleter
	}
)
