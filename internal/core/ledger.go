package core

import "sort"

// BuildLedger merges the three raw collections into one canonical ledger:
// adapt each record, order the merged list newest-first, then accumulate the
// running balance over that order. The input slices are not modified and the
// result is recomputed from scratch on every call.
func BuildLedger(invoices []Invoice, expenses []Expense, sales []Sale) []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(invoices)+len(expenses)+len(sales))
	for _, inv := range invoices {
		entries = append(entries, AdaptInvoice(inv))
	}
	for _, exp := range expenses {
		entries = append(entries, AdaptExpense(exp))
	}
	for _, sale := range sales {
		entries = append(entries, AdaptSale(sale))
	}
	SortEntries(entries)
	return Accumulate(entries)
}

// SortEntries orders entries by date descending, newest first. Ties keep
// insertion order (invoices before expenses before sales, in source-array
// order), which the stable sort guarantees. Unparseable dates coerce to the
// zero time and land at the end.
func SortEntries(entries []LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return coerceDate(entries[i].Date).After(coerceDate(entries[j].Date))
	})
}

// Accumulate folds a running balance over the entries strictly in the order
// given; it never re-sorts. Each step adds the signed recognized amount:
// credit entries push the balance up, debit entries pull it down, starting
// from zero.
//
// Canonical processing order is the newest-first display order from
// SortEntries, so the balance at the newest entry reflects only that entry's
// own contribution and accumulates toward older rows. That is the behavior
// the product has always shown; switching to an ascending "balance as of this
// date" fold is a product decision, not a cleanup.
func Accumulate(entries []LedgerEntry) []LedgerEntry {
	var balance float64
	for i := range entries {
		balance += entries[i].Type.Sign() * entries[i].RecognizedAmount
		entries[i].RunningBalance = balance
	}
	return entries
}
