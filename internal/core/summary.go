package core

// Summary holds aggregate totals over an entry set, typically the filtered
// view. An empty set yields all-zero totals.
type Summary struct {
	TotalCredit float64 `json:"totalCredit"`
	TotalDebit  float64 `json:"totalDebit"`
	Net         float64 `json:"net"`
}

// Summarize totals the recognized amounts: credit over invoice and sale
// entries, debit over expense entries, net as their difference.
func Summarize(entries []LedgerEntry) Summary {
	var s Summary
	for _, e := range entries {
		if e.Type == TypeExpense {
			s.TotalDebit += e.RecognizedAmount
		} else {
			s.TotalCredit += e.RecognizedAmount
		}
	}
	s.Net = s.TotalCredit - s.TotalDebit
	return s
}

// SummarizeGross totals face values regardless of settlement status. The
// display layer shows gross and recognized totals side by side.
func SummarizeGross(entries []LedgerEntry) Summary {
	var s Summary
	for _, e := range entries {
		if e.Type == TypeExpense {
			s.TotalDebit += e.GrossAmount
		} else {
			s.TotalCredit += e.GrossAmount
		}
	}
	s.Net = s.TotalCredit - s.TotalDebit
	return s
}
