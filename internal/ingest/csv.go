// Package ingest loads journal rows from CSV files and writes them back out.
//
// Ingestion is deliberately tolerant: a date that fails to parse becomes a
// null date, an amount that fails numeric coercion becomes zero, and a
// missing JE_ID is generated. Structural problems (missing columns) are the
// only hard errors.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	date "github.com/joyt/godate"
	"github.com/shopspring/decimal"

	"github.com/tallybook-dev/tallybook/internal/id"
	"github.com/tallybook-dev/tallybook/internal/model"
)

// Column names of the journal-entry schema. JE_ID is optional on input and
// generated when absent; the rest are required.
const (
	ColJEID           = "JE_ID"
	ColDate           = "Date"
	ColAccount        = "Account"
	ColDescription    = "Description"
	ColDebit          = "Debit"
	ColCredit         = "Credit"
	ColCategory       = "Category"
	ColTxnType        = "Transaction_Type"
	ColCustomerVendor = "Customer_Vendor"
	ColPaymentMethod  = "Payment_Method"
	ColReference      = "Reference"
)

var requiredColumns = []string{
	ColDate, ColAccount, ColDescription, ColDebit, ColCredit,
	ColCategory, ColTxnType, ColCustomerVendor, ColPaymentMethod, ColReference,
}

const dateFormat = "2006-01-02"

// ReadRows parses journal rows from CSV. Column order is free; the header row
// maps names to positions. Rows sharing a JE_ID value belong to the same
// journal entry.
func ReadRows(r io.Reader) ([]model.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file: no header row")
	}

	cols := make(map[string]int)
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	rows := make([]model.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		jeID, ok := id.Normalize(field(ColJEID))
		if !ok {
			jeID = id.NewJEID()
		}

		rows = append(rows, model.Row{
			JEID:           jeID,
			Date:           parseDate(field(ColDate)),
			Account:        field(ColAccount),
			Description:    field(ColDescription),
			Debit:          parseAmount(field(ColDebit)),
			Credit:         parseAmount(field(ColCredit)),
			Category:       model.Category(field(ColCategory)),
			TxnType:        field(ColTxnType),
			CustomerVendor: field(ColCustomerVendor),
			PaymentMethod:  field(ColPaymentMethod),
			Reference:      field(ColReference),
		})
	}
	return rows, nil
}

// WriteRows writes rows in canonical column order, header included. Null
// dates and zero amounts come out as blank cells.
func WriteRows(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		ColJEID, ColDate, ColAccount, ColDescription, ColDebit, ColCredit,
		ColCategory, ColTxnType, ColCustomerVendor, ColPaymentMethod, ColReference,
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		rec := make([]string, len(header))
		rec[0] = r.JEID
		if r.HasDate() {
			rec[1] = r.Date.Format(dateFormat)
		}
		rec[2] = r.Account
		rec[3] = r.Description
		if !r.Debit.IsZero() {
			rec[4] = r.Debit.StringFixed(2)
		}
		if !r.Credit.IsZero() {
			rec[5] = r.Credit.StringFixed(2)
		}
		rec[6] = string(r.Category)
		rec[7] = r.TxnType
		rec[8] = r.CustomerVendor
		rec[9] = r.PaymentMethod
		rec[10] = r.Reference
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// parseDate accepts the formats spreadsheets commonly emit. Anything
// unparseable becomes the zero time (a null date).
func parseDate(s string) (t time.Time) {
	if s == "" {
		return t
	}
	parsed, err := date.Parse(s)
	if err != nil {
		return t
	}
	// Normalize to midnight UTC so equal civil dates compare equal.
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
}

// parseAmount coerces a cell to a decimal, stripping thousands separators
// and currency prefixes. Anything unparseable becomes zero. Signs are kept;
// negative amounts are the validation layer's business, not the loader's.
func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
