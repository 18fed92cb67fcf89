package core

// Each source carries its own status vocabulary. Only the recognition
// keywords matter to the engine; the rest are listed for the call sites that
// build transactions.
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"

	ExpenseStatusDraft    = "draft"
	ExpenseStatusApproved = "approved"
	ExpenseStatusPaid     = "paid"

	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// IsRecognized decides whether an entry's monetary effect is settled and
// therefore counts toward the running balance. The gate is a strict
// allow-list: invoices and expenses recognize on "paid", sales on
// "completed", and any other status string — unknown vocabularies and typos
// included — is not recognized. Understating the balance is the fail-safe
// direction; the engine never errors on a strange status.
//
// Matching is case-sensitive. Callers own normalizing upstream status strings
// into the lowercase vocabularies above.
func IsRecognized(t EntryType, status string) bool {
	switch t {
	case TypeInvoice:
		return status == InvoiceStatusPaid
	case TypeExpense:
		return status == ExpenseStatusPaid
	case TypeSale:
		return status == SaleStatusCompleted
	}
	return false
}
