package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook-dev/tallybook/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// sampleLedger is a balanced two-entry ledger used across tests.
func sampleLedger() Ledger {
	return Ledger{
		{
			JEID:           "JE-0001",
			Date:           date(2024, 1, 10),
			Account:        "Accounts Receivable",
			Debit:          dec("500.00"),
			Category:       model.CategoryAsset,
			TxnType:        "Invoice",
			CustomerVendor: "Client A",
			Reference:      "INV-001",
		},
		{
			JEID:           "JE-0001",
			Date:           date(2024, 1, 10),
			Account:        "Revenue",
			Credit:         dec("500.00"),
			Category:       model.CategoryRevenue,
			TxnType:        "Invoice",
			CustomerVendor: "Client A",
			Reference:      "INV-001",
		},
		{
			JEID:          "JE-0002",
			Date:          date(2024, 2, 5),
			Account:       "Rent Expense",
			Debit:         dec("120.00"),
			Category:      model.CategoryExpense,
			TxnType:       "Payment",
			PaymentMethod: "Cash",
		},
		{
			JEID:          "JE-0002",
			Date:          date(2024, 2, 5),
			Account:       "Cash",
			Credit:        dec("120.00"),
			Category:      model.CategoryAsset,
			TxnType:       "Payment",
			PaymentMethod: "Cash",
		},
	}
}

func TestTotals(t *testing.T) {
	l := sampleLedger()
	assert.True(t, l.TotalDebits().Equal(dec("620.00")))
	assert.True(t, l.TotalCredits().Equal(dec("620.00")))
}

func TestTotalsEmpty(t *testing.T) {
	var l Ledger
	assert.True(t, l.TotalDebits().IsZero())
	assert.True(t, l.TotalCredits().IsZero())
}

func TestRowsReturnsCopy(t *testing.T) {
	l := sampleLedger()
	rows := l.Rows()
	rows[0].Account = "Tampered"
	assert.Equal(t, "Accounts Receivable", l[0].Account)
}

func TestFacets(t *testing.T) {
	l := sampleLedger()
	f := l.Facets()
	assert.Equal(t, []string{"Accounts Receivable", "Cash", "Rent Expense", "Revenue"}, f.Accounts)
	assert.Equal(t, []string{"Client A"}, f.Customers)
	assert.Equal(t, []string{"Invoice", "Payment"}, f.TxnTypes)
	assert.Equal(t, []string{"Cash"}, f.PaymentMethods)
}

func TestFacetsSkipEmptyValues(t *testing.T) {
	l := Ledger{{Account: ""}, {Account: "Cash"}}
	assert.Equal(t, []string{"Cash"}, l.Facets().Accounts)
}

func TestDateRange(t *testing.T) {
	l := sampleLedger()
	min, max, ok := l.DateRange()
	require.True(t, ok)
	assert.Equal(t, date(2024, 1, 10), min)
	assert.Equal(t, date(2024, 2, 5), max)
}

func TestDateRangeSkipsUndated(t *testing.T) {
	l := Ledger{{Account: "Cash"}, {Account: "Cash", Date: date(2024, 3, 1)}}
	min, max, ok := l.DateRange()
	require.True(t, ok)
	assert.Equal(t, date(2024, 3, 1), min)
	assert.Equal(t, date(2024, 3, 1), max)

	_, _, ok = Ledger{{Account: "Cash"}}.DateRange()
	assert.False(t, ok)
}
