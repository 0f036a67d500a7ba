package analytics

import (
	"time"
)

// Query holds the optional constraints for Ledger.Filter. Zero-value fields
// impose no constraint; set fields compose by logical AND. Date bounds are
// inclusive.
type Query struct {
	Start          time.Time // zero = unbounded
	End            time.Time // zero = unbounded
	Accounts       []string
	Customers      []string
	TxnTypes       []string
	PaymentMethods []string
}

// dated reports whether the query carries any date bound.
func (q Query) dated() bool {
	return !q.Start.IsZero() || !q.End.IsZero()
}

// Filter returns the rows satisfying every constraint in q. The receiver is
// left untouched.
//
// Rows without a date are excluded whenever either date bound is set: an
// unknown date can never be shown to satisfy a bound, and silently passing
// such rows through would leak them into date-scoped reports.
func (l Ledger) Filter(q Query) Ledger {
	out := make(Ledger, 0, len(l))
	for _, r := range l {
		if q.dated() && !r.HasDate() {
			continue
		}
		if !q.Start.IsZero() && r.Date.Before(q.Start) {
			continue
		}
		if !q.End.IsZero() && r.Date.After(q.End) {
			continue
		}
		if !member(q.Accounts, r.Account) {
			continue
		}
		if !member(q.Customers, r.CustomerVendor) {
			continue
		}
		if !member(q.TxnTypes, r.TxnType) {
			continue
		}
		if !member(q.PaymentMethods, r.PaymentMethod) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// member reports set membership, with the empty set meaning "no constraint".
func member(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// DrillDown filters by single-valued convenience parameters. Empty strings
// and zero times impose no constraint.
func (l Ledger) DrillDown(account, customer, txnType string, from, to time.Time) Ledger {
	q := Query{Start: from, End: to}
	if account != "" {
		q.Accounts = []string{account}
	}
	if customer != "" {
		q.Customers = []string{customer}
	}
	if txnType != "" {
		q.TxnTypes = []string{txnType}
	}
	return l.Filter(q)
}
