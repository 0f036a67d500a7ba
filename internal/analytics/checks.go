package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// BalanceTolerance is the absolute debit/credit mismatch below which the
// ledger still counts as balanced.
var BalanceTolerance = decimal.New(1, -6)

// Trial balance status values.
const (
	StatusBalanced    = "Balanced"
	StatusNotBalanced = "Not Balanced"
)

// EntryImbalance reports a journal entry whose rows do not sum to equal
// debits and credits.
type EntryImbalance struct {
	JEID    string          `json:"je_id"`
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
}

// CheckResult aggregates the ledger-wide validation outputs. The row subsets
// are independent copies; mutating them leaves the ledger untouched.
//
// Two balance checks coexist on purpose. UnbalancedRows is the historical
// row-level check (Debit vs Credit within one row, at 2 decimal places),
// which flags every row of the usual one-sided entry style. UnbalancedEntries
// is the entry-level check grouped by JE_ID, the actual double-entry
// discipline. Callers pick whichever matches their entry style.
type CheckResult struct {
	Status            string           `json:"trial_balance_status"`
	TotalDebits       decimal.Decimal  `json:"total_debits"`
	TotalCredits      decimal.Decimal  `json:"total_credits"`
	UnbalancedRows    []model.Row      `json:"unbalanced_rows"`
	UnbalancedEntries []EntryImbalance `json:"unbalanced_entries"`
	Anomalies         []model.Row      `json:"anomalies"`
}

// ErrorChecks validates the ledger: grand totals, balance status, per-row and
// per-entry imbalances, and anomalous rows (negative amounts or missing
// category). Violations are data to report, never errors to raise.
func (l Ledger) ErrorChecks() CheckResult {
	result := CheckResult{
		TotalDebits:  l.TotalDebits(),
		TotalCredits: l.TotalCredits(),
	}

	if result.TotalDebits.Sub(result.TotalCredits).Abs().LessThan(BalanceTolerance) {
		result.Status = StatusBalanced
	} else {
		result.Status = StatusNotBalanced
	}

	for _, r := range l {
		if !r.Debit.Round(2).Equal(r.Credit.Round(2)) {
			result.UnbalancedRows = append(result.UnbalancedRows, r)
		}
		if r.Debit.IsNegative() || r.Credit.IsNegative() || r.Category == "" {
			result.Anomalies = append(result.Anomalies, r)
		}
	}

	result.UnbalancedEntries = l.unbalancedEntries()
	return result
}

// unbalancedEntries groups rows by JE_ID and reports groups whose debits and
// credits differ by at least BalanceTolerance. Rows without a JE_ID cannot be
// attributed to an entry and are skipped here; the row-level check still
// covers them.
func (l Ledger) unbalancedEntries() []EntryImbalance {
	type entrySums struct {
		debits  decimal.Decimal
		credits decimal.Decimal
	}
	sums := make(map[string]*entrySums)
	var order []string
	for _, r := range l {
		if r.JEID == "" {
			continue
		}
		s, ok := sums[r.JEID]
		if !ok {
			s = &entrySums{debits: decimal.Zero, credits: decimal.Zero}
			sums[r.JEID] = s
			order = append(order, r.JEID)
		}
		s.debits = s.debits.Add(r.Debit)
		s.credits = s.credits.Add(r.Credit)
	}

	var out []EntryImbalance
	for _, id := range order {
		s := sums[id]
		if s.debits.Sub(s.credits).Abs().LessThan(BalanceTolerance) {
			continue
		}
		out = append(out, EntryImbalance{JEID: id, Debits: s.debits, Credits: s.credits})
	}
	return out
}
