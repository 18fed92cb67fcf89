package core

import (
	"errors"
	"strings"
)

// EntryType discriminates the three transaction sources feeding the ledger.
type EntryType string

const (
	TypeInvoice EntryType = "invoice"
	TypeExpense EntryType = "expense"
	TypeSale    EntryType = "sale"
)

// Sign returns the side of the ledger the type affects: +1 for credit
// (invoice, sale), -1 for debit (expense).
func (t EntryType) Sign() float64 {
	if t == TypeExpense {
		return -1
	}
	return 1
}

// IsValid reports whether the type is one of the three known sources.
func (t EntryType) IsValid() bool {
	switch t {
	case TypeInvoice, TypeExpense, TypeSale:
		return true
	}
	return false
}

type (
	// Party is a named counterparty attached to a transaction. Records may
	// carry either a structured party or a flat name string; the structured
	// form wins when both are present.
	Party struct {
		Name string `json:"name"`
	}

	InvoiceItem struct {
		Description string `json:"description,omitempty"`
		Quantity    any    `json:"quantity"`
		UnitPrice   any    `json:"unitPrice"`
	}

	// Invoice is a raw invoice record as delivered by the fetching layer.
	// Amount fields are deliberately loose: upstream sends machine numbers
	// or locale-formatted strings interchangeably.
	Invoice struct {
		ID            string        `json:"id"`
		InvoiceNumber string        `json:"invoiceNumber,omitempty"`
		CustomerName  string        `json:"customerName,omitempty"`
		Customer      *Party        `json:"customer,omitempty"`
		Total         any           `json:"total,omitempty"`
		Amount        any           `json:"amount,omitempty"`
		Items         []InvoiceItem `json:"items,omitempty"`
		Status        string        `json:"status"`
		IssueDate     string        `json:"issueDate"`
		Kind          string        `json:"type,omitempty"` // "product" or "service"
	}

	// Expense is a raw expense record.
	Expense struct {
		ID            string `json:"id"`
		ExpenseNumber string `json:"expenseNumber,omitempty"`
		Description   string `json:"description"`
		Supplier      string `json:"supplier,omitempty"`
		SupplierParty *Party `json:"supplierParty,omitempty"`
		Amount        any    `json:"amount"`
		Category      string `json:"category,omitempty"`
		Status        string `json:"status"`
		ExpenseDate   string `json:"expenseDate"`
	}

	SaleItem struct {
		ProductName string `json:"productName,omitempty"`
		Quantity    any    `json:"quantity"`
		UnitPrice   any    `json:"unitPrice"`
	}

	// Sale is a raw direct-sale record (sales recorded outside invoicing).
	Sale struct {
		ID           string     `json:"id"`
		SaleNumber   string     `json:"saleNumber,omitempty"`
		CustomerName string     `json:"customerName,omitempty"`
		ProductName  string     `json:"productName,omitempty"`
		Quantity     any        `json:"quantity,omitempty"`
		UnitPrice    any        `json:"unitPrice,omitempty"`
		Amount       any        `json:"amount,omitempty"`
		Total        any        `json:"total,omitempty"`
		Items        []SaleItem `json:"items,omitempty"`
		Status       string     `json:"status"`
		Date         string     `json:"date"`
		// InvoiceID links a sale that was later converted into an invoice;
		// reports exclude linked sales from revenue to avoid double counting.
		InvoiceID string `json:"invoiceId,omitempty"`
	}
)

// LedgerEntry is the canonical projection of one raw transaction. Entries are
// recomputed from scratch on every change to the raw collections; nothing
// writes back to the sources.
type LedgerEntry struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Type        EntryType `json:"type"`
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	Customer    string    `json:"customer,omitempty"`
	Category    string    `json:"category,omitempty"`

	// GrossAmount is the face value regardless of settlement status.
	// RecognizedAmount equals GrossAmount when the recognition gate passes,
	// zero otherwise; recognition is binary, never partial.
	GrossAmount      float64 `json:"grossAmount"`
	RecognizedAmount float64 `json:"recognizedAmount"`

	// Debit and Credit carry the recognized amount on the entry's side of
	// the ledger; exactly one of them is non-zero for recognized entries.
	Debit  float64 `json:"debit"`
	Credit float64 `json:"credit"`

	// RunningBalance is the cumulative signed recognized sum over all
	// entries processed so far, in processing order.
	RunningBalance float64 `json:"balance"`
}

var (
	ErrMissingID     = errors.New("missing id")
	ErrMissingStatus = errors.New("missing status")
	ErrMissingDate   = errors.New("missing date")
)

// Validate checks the fields the engine assumes are always present: id,
// status and the date-bearing field. Everything else is optional and
// tolerated downstream.
func (i Invoice) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(i.Status) == "" {
		return ErrMissingStatus
	}
	if strings.TrimSpace(i.IssueDate) == "" {
		return ErrMissingDate
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(e.Status) == "" {
		return ErrMissingStatus
	}
	if strings.TrimSpace(e.ExpenseDate) == "" {
		return ErrMissingDate
	}
	return nil
}

func (s Sale) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(s.Status) == "" {
		return ErrMissingStatus
	}
	if strings.TrimSpace(s.Date) == "" {
		return ErrMissingDate
	}
	return nil
}
