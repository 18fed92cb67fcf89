package core

import (
	"reflect"
	"testing"
)

func sampleEntries() []LedgerEntry {
	return []LedgerEntry{
		{ID: "inv-1", Date: "2024-03-01", Type: TypeInvoice, Description: "Fatura - ABC Teknoloji", Reference: "INV-001", Customer: "ABC Teknoloji", Category: "Hizmet Geliri"},
		{ID: "exp-1", Date: "2024-02-01", Type: TypeExpense, Description: "Gider - Ofis kirası", Customer: "Mal Sahibi", Category: "Kira"},
		{ID: "sal-1", Date: "2024-01-15", Type: TypeSale, Description: "Direkt Satış - Lisans", Reference: "SAL-1", Customer: "XYZ Şirketi", Category: "Direkt Satış Geliri"},
	}
}

func filterIDs(entries []LedgerEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestFilterDimensions(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter passes all", Filter{}, []string{"inv-1", "exp-1", "sal-1"}},
		{"type all passes all", Filter{Type: TypeAll}, []string{"inv-1", "exp-1", "sal-1"}},
		{"type exact", Filter{Type: "expense"}, []string{"exp-1"}},
		{"search description", Filter{Search: "fatura"}, []string{"inv-1"}},
		{"search reference", Filter{Search: "sal-1"}, []string{"sal-1"}},
		{"search customer", Filter{Search: "mal sahibi"}, []string{"exp-1"}},
		{"date lower bound inclusive", Filter{StartDate: "2024-02-01"}, []string{"inv-1", "exp-1"}},
		{"date upper bound inclusive", Filter{EndDate: "2024-02-01"}, []string{"exp-1", "sal-1"}},
		{"date range", Filter{StartDate: "2024-01-20", EndDate: "2024-02-15"}, []string{"exp-1"}},
		{"customer substring", Filter{Customer: "xyz"}, []string{"sal-1"}},
		{"category substring", Filter{Category: "kira"}, []string{"exp-1"}},
		{"combined type and search", Filter{Type: "invoice", Search: "teknoloji"}, []string{"inv-1"}},
		{"no match", Filter{Search: "yok böyle bir şey"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterIDs(tt.filter.Apply(sampleEntries()))
			if !reflect.DeepEqual(got, tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// Independent AND-predicates commute: filtering by date range then free text
// must equal applying both at once.
func TestFilterComposability(t *testing.T) {
	entries := sampleEntries()

	dateOnly := Filter{StartDate: "2024-01-01", EndDate: "2024-02-15"}
	textOnly := Filter{Search: "gider"}
	both := Filter{StartDate: "2024-01-01", EndDate: "2024-02-15", Search: "gider"}

	sequential := textOnly.Apply(dateOnly.Apply(entries))
	combined := both.Apply(entries)

	if !reflect.DeepEqual(filterIDs(sequential), filterIDs(combined)) {
		t.Errorf("sequential %v != combined %v", filterIDs(sequential), filterIDs(combined))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	entries := sampleEntries()
	snapshot := make([]LedgerEntry, len(entries))
	copy(snapshot, entries)

	Filter{Type: "sale"}.Apply(entries)

	if !reflect.DeepEqual(entries, snapshot) {
		t.Error("Apply mutated its input")
	}
}

func TestFilterBadEntryDateExcludedByRange(t *testing.T) {
	entries := []LedgerEntry{{ID: "bad", Date: "garbage"}}
	if got := (Filter{StartDate: "2024-01-01"}).Apply(entries); len(got) != 0 {
		t.Error("entry with unparseable date must fail a date-bounded filter")
	}
	if got := (Filter{}).Apply(entries); len(got) != 1 {
		t.Error("entry with unparseable date passes when no bound is set")
	}
}
