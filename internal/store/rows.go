package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook-dev/tallybook/internal/model"
)

const dateFormat = "2006-01-02"

// InsertRows appends rows, silently skipping exact duplicates on the
// (je_id, date, account, debit, credit) key. Returns the number actually
// inserted.
func (s *Store) InsertRows(rows []model.Row) (int, error) {
	inserted := 0
	err := s.transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT OR IGNORE INTO journal_entries (
				je_id, date, account, description, debit, credit,
				category, transaction_type, customer_vendor, payment_method, reference
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			dateStr := ""
			if r.HasDate() {
				dateStr = r.Date.Format(dateFormat)
			}
			res, err := stmt.Exec(
				r.JEID, dateStr, r.Account, r.Description,
				r.Debit.String(), r.Credit.String(),
				string(r.Category), r.TxnType, r.CustomerVendor, r.PaymentMethod, r.Reference,
			)
			if err != nil {
				return fmt.Errorf("inserting row %s: %w", r.JEID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("row count for %s: %w", r.JEID, err)
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// FetchAll returns every stored row in insertion order.
func (s *Store) FetchAll() ([]model.Row, error) {
	rows, err := s.db.Query(`
		SELECT je_id, date, account, description, debit, credit,
		       category, transaction_type, customer_vendor, payment_method, reference
		FROM journal_entries ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying journal entries: %w", err)
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		var r model.Row
		var dateStr, debitStr, creditStr, category string
		if err := rows.Scan(
			&r.JEID, &dateStr, &r.Account, &r.Description, &debitStr, &creditStr,
			&category, &r.TxnType, &r.CustomerVendor, &r.PaymentMethod, &r.Reference,
		); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		// Stored values went through the tolerant loader once already; a
		// corrupt cell degrades to the same null/zero markers rather than
		// failing the whole fetch.
		if t, err := time.Parse(dateFormat, dateStr); err == nil {
			r.Date = t
		}
		r.Debit = parseStoredAmount(debitStr)
		r.Credit = parseStoredAmount(creditStr)
		r.Category = model.Category(category)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal entries: %w", err)
	}
	return out, nil
}

func parseStoredAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Reset clears the journal_entries table.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM journal_entries`); err != nil {
		return fmt.Errorf("clearing journal entries: %w", err)
	}
	return nil
}

// ImportRecord is one line of the import audit trail.
type ImportRecord struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"file_name"`
	RowCount   int       `json:"row_count"`
	ImportedAt time.Time `json:"imported_at"`
}

// RecordImport appends an entry to the import audit trail.
func (s *Store) RecordImport(fileName string, rowCount int, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO import_history (file_name, row_count, imported_at) VALUES (?, ?, ?)`,
		fileName, rowCount, at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}
	return nil
}

// Imports returns the import audit trail, newest first.
func (s *Store) Imports() ([]ImportRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, file_name, row_count, imported_at FROM import_history ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying import history: %w", err)
	}
	defer rows.Close()

	var out []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		var at string
		if err := rows.Scan(&rec.ID, &rec.FileName, &rec.RowCount, &at); err != nil {
			return nil, fmt.Errorf("scanning import record: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			rec.ImportedAt = t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating import history: %w", err)
	}
	return out, nil
}
