// Package analytics derives financial statements from a flat ledger of
// double-entry journal rows: trial balance, income statement, balance sheet,
// cash flow, aging, drill-down, and error checks.
//
// Every function treats its Ledger receiver as read-only and returns a
// freshly built value, so one Ledger snapshot can be shared by any number of
// concurrent report calls without coordination.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// Ledger is an ordered collection of journal rows. Row order never affects a
// report; all aggregation is by grouping key.
type Ledger []model.Row

// Rows returns a copy of the underlying rows.
func (l Ledger) Rows() []model.Row {
	out := make([]model.Row, len(l))
	copy(out, l)
	return out
}

// TotalDebits sums the Debit column across the whole ledger.
func (l Ledger) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, r := range l {
		total = total.Add(r.Debit)
	}
	return total
}

// TotalCredits sums the Credit column across the whole ledger.
func (l Ledger) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, r := range l {
		total = total.Add(r.Credit)
	}
	return total
}

// Facets lists the distinct non-empty values available for each filterable
// field, for populating dashboard filter controls.
type Facets struct {
	Accounts       []string `json:"accounts"`
	Customers      []string `json:"customers"`
	TxnTypes       []string `json:"transaction_types"`
	PaymentMethods []string `json:"payment_methods"`
}

// Facets scans the ledger and returns sorted distinct values per field.
func (l Ledger) Facets() Facets {
	return Facets{
		Accounts:       l.distinct(func(r model.Row) string { return r.Account }),
		Customers:      l.distinct(func(r model.Row) string { return r.CustomerVendor }),
		TxnTypes:       l.distinct(func(r model.Row) string { return r.TxnType }),
		PaymentMethods: l.distinct(func(r model.Row) string { return r.PaymentMethod }),
	}
}

func (l Ledger) distinct(field func(model.Row) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, r := range l {
		v := field(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// DateRange returns the earliest and latest dated rows. ok is false when no
// row carries a date.
func (l Ledger) DateRange() (min, max time.Time, ok bool) {
	for _, r := range l {
		if !r.HasDate() {
			continue
		}
		if !ok || r.Date.Before(min) {
			min = r.Date
		}
		if !ok || r.Date.After(max) {
			max = r.Date
		}
		ok = true
	}
	return min, max, ok
}
