package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a journal row for statement purposes.
type Category string

const (
	CategoryAsset     Category = "Asset"
	CategoryLiability Category = "Liability"
	CategoryRevenue   Category = "Revenue"
	CategoryExpense   Category = "Expense"
	CategoryEquity    Category = "Equity"
)

// Known reports whether c is one of the five statement categories.
func (c Category) Known() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryRevenue, CategoryExpense, CategoryEquity:
		return true
	}
	return false
}

// Row is one line of a journal entry.
//
// Optional fields use zero values as explicit "missing" markers: a zero Date
// means the source value was absent or unparseable, an empty string means the
// column was blank. Debit and Credit are always set; the loader coerces
// invalid amounts to zero before rows reach this type.
type Row struct {
	JEID           string          `json:"je_id"` // shared by all rows of one journal entry
	Date           time.Time       `json:"date"`
	Account        string          `json:"account"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Category       Category        `json:"category"`
	TxnType        string          `json:"transaction_type"`
	CustomerVendor string          `json:"customer_vendor"`
	PaymentMethod  string          `json:"payment_method"`
	Reference      string          `json:"reference"`
}

// HasDate reports whether the row carries a usable date.
func (r Row) HasDate() bool {
	return !r.Date.IsZero()
}
