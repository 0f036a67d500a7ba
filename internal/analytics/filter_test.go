package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterNoConstraints(t *testing.T) {
	l := sampleLedger()
	got := l.Filter(Query{})
	assert.Equal(t, l.Rows(), got.Rows())
}

func TestFilterDateBoundsInclusive(t *testing.T) {
	l := sampleLedger()

	got := l.Filter(Query{Start: date(2024, 1, 10), End: date(2024, 1, 10)})
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, date(2024, 1, 10), r.Date)
	}

	got = l.Filter(Query{Start: date(2024, 1, 11)})
	require.Len(t, got, 2)
	assert.Equal(t, "JE-0002", got[0].JEID)
}

func TestFilterExcludesUndatedUnderDateBound(t *testing.T) {
	l := Ledger{
		{Account: "Cash", Date: date(2024, 1, 5)},
		{Account: "Cash"}, // no date
	}

	// Without a bound the undated row passes through.
	assert.Len(t, l.Filter(Query{}), 2)

	// Any date bound excludes it, even one the dated row satisfies.
	assert.Len(t, l.Filter(Query{Start: date(2024, 1, 1)}), 1)
	assert.Len(t, l.Filter(Query{End: date(2024, 12, 31)}), 1)
}

func TestFilterSetMembership(t *testing.T) {
	l := sampleLedger()

	got := l.Filter(Query{Accounts: []string{"Cash", "Revenue"}})
	require.Len(t, got, 2)

	got = l.Filter(Query{Customers: []string{"Client A"}})
	require.Len(t, got, 2)

	got = l.Filter(Query{TxnTypes: []string{"Payment"}})
	require.Len(t, got, 2)

	got = l.Filter(Query{PaymentMethods: []string{"Cash"}})
	require.Len(t, got, 2)
}

func TestFilterComposesWithAND(t *testing.T) {
	l := sampleLedger()
	got := l.Filter(Query{
		Start:    date(2024, 1, 1),
		Accounts: []string{"Accounts Receivable", "Cash"},
		TxnTypes: []string{"Invoice"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Accounts Receivable", got[0].Account)
}

func TestFilterIdempotent(t *testing.T) {
	l := sampleLedger()
	q := Query{Start: date(2024, 1, 1), Accounts: []string{"Cash", "Rent Expense"}}
	once := l.Filter(q)
	twice := once.Filter(q)
	assert.Equal(t, once.Rows(), twice.Rows())
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	l := sampleLedger()
	before := l.Rows()
	_ = l.Filter(Query{Accounts: []string{"Cash"}})
	assert.Equal(t, before, l.Rows())
}

func TestFilterNoMatch(t *testing.T) {
	l := sampleLedger()
	got := l.Filter(Query{Accounts: []string{"Nonexistent"}})
	assert.Empty(t, got)
}

func TestDrillDownSingletonFilters(t *testing.T) {
	l := sampleLedger()

	got := l.DrillDown("Cash", "", "", time.Time{}, time.Time{})
	require.Len(t, got, 1)
	assert.Equal(t, "Cash", got[0].Account)

	got = l.DrillDown("", "Client A", "Invoice", time.Time{}, time.Time{})
	require.Len(t, got, 2)

	got = l.DrillDown("", "", "", date(2024, 2, 1), date(2024, 2, 28))
	require.Len(t, got, 2)
	assert.Equal(t, "JE-0002", got[0].JEID)
}

func TestDrillDownEmptyParamsPassThrough(t *testing.T) {
	l := sampleLedger()
	got := l.DrillDown("", "", "", time.Time{}, time.Time{})
	assert.Equal(t, l.Rows(), got.Rows())
}

func TestFilterMissingFieldNeverMatchesSet(t *testing.T) {
	l := Ledger{
		{Account: "Cash", CustomerVendor: ""},
		{Account: "Cash", CustomerVendor: "Client B"},
	}
	got := l.Filter(Query{Customers: []string{"Client B"}})
	require.Len(t, got, 1)
	assert.Equal(t, "Client B", got[0].CustomerVendor)

	// An explicit empty-string literal does match rows missing the field.
	got = l.Filter(Query{Customers: []string{""}})
	require.Len(t, got, 1)
	assert.Equal(t, l[0], got[0])
}
