package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook-dev/tallybook/internal/config"
	"github.com/tallybook-dev/tallybook/internal/store"
)

const seedCSV = `JE_ID,Date,Account,Description,Debit,Credit,Category,Transaction_Type,Customer_Vendor,Payment_Method,Reference
JE-0001,2024-01-10,Accounts Receivable,Invoice 1,500.00,,Asset,Invoice,Client A,,INV-001
JE-0001,2024-01-10,Revenue,Invoice 1,,500.00,Revenue,Invoice,Client A,,INV-001
JE-0002,2024-02-05,Rent Expense,February rent,120.00,,Expense,Payment,,Cash,
JE-0002,2024-02-05,Cash,February rent,,120.00,Asset,Payment,,Cash,
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tallybook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	srv := New(st, cfg)
	srv.now = func() time.Time {
		return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	}

	importCSV(t, srv, seedCSV)
	return srv
}

func importCSV(t *testing.T, srv *Server, csvData string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(csvData))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func get(t *testing.T, srv *Server, path string, v any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestTrialBalanceEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var tb []map[string]any
	get(t, srv, "/api/reports/trial-balance", &tb)
	require.Len(t, tb, 4)
	assert.Equal(t, "Accounts Receivable", tb[0]["account"])
	assert.Equal(t, "500", tb[0]["debit"])
}

func TestTrialBalanceFiltered(t *testing.T) {
	srv := newTestServer(t)

	var tb []map[string]any
	get(t, srv, "/api/reports/trial-balance?start=2024-02-01&end=2024-02-28", &tb)
	require.Len(t, tb, 2)
	assert.Equal(t, "Cash", tb[0]["account"])
	assert.Equal(t, "Rent Expense", tb[1]["account"])
}

func TestIncomeStatementEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var is []map[string]any
	get(t, srv, "/api/reports/income-statement", &is)
	require.Len(t, is, 3)
	assert.Equal(t, "Revenue", is[0]["category"])
	assert.Equal(t, "500", is[0]["amount"])
	assert.Equal(t, "Net Profit", is[2]["category"])
	assert.Equal(t, "380", is[2]["amount"])
}

func TestAgingEndpointWithReferenceDate(t *testing.T) {
	srv := newTestServer(t)

	var aging []map[string]any
	get(t, srv, "/api/reports/aging?account=Accounts+Receivable&as_of=2024-03-01", &aging)
	require.Len(t, aging, 5)
	// 2024-01-10 to 2024-03-01 is 51 days.
	assert.Equal(t, "31-60", aging[1]["aging_bucket"])
	assert.Equal(t, "500", aging[1]["amount"])
}

func TestAgingEndpointDefaultsAccountAndClock(t *testing.T) {
	srv := newTestServer(t) // injected clock: 2024-03-01

	var aging []map[string]any
	get(t, srv, "/api/reports/aging", &aging)
	require.Len(t, aging, 5)
	assert.Equal(t, "500", aging[1]["amount"])
}

func TestAgingEndpointBadAsOf(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/aging?as_of=garbage", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChecksEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var checks map[string]any
	get(t, srv, "/api/checks", &checks)
	assert.Equal(t, "Balanced", checks["trial_balance_status"])
	assert.Equal(t, "620", checks["total_debits"])
	assert.Equal(t, "620", checks["total_credits"])
}

func TestFacetsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var facets map[string][]string
	get(t, srv, "/api/facets", &facets)
	assert.Contains(t, facets["accounts"], "Cash")
	assert.Contains(t, facets["transaction_types"], "Invoice")
	assert.Equal(t, []string{"Client A"}, facets["customers"])
}

func TestEntriesEndpointDrillDown(t *testing.T) {
	srv := newTestServer(t)

	var entries []map[string]any
	get(t, srv, "/api/entries?customer=Client+A", &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "JE-0001", entries[0]["je_id"])
}

func TestImportReportsCounts(t *testing.T) {
	srv := newTestServer(t)

	// Importing the same file again: every row is a duplicate.
	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(seedCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0, result["imported"])
	assert.Equal(t, 4, result["skipped"])
}

func TestImportFlushesReportCache(t *testing.T) {
	srv := newTestServer(t)

	var before []map[string]any
	get(t, srv, "/api/reports/trial-balance", &before)
	require.Len(t, before, 4)

	extra := `JE_ID,Date,Account,Description,Debit,Credit,Category,Transaction_Type,Customer_Vendor,Payment_Method,Reference
JE-0003,2024-02-20,Cash,Consulting,250.00,,Asset,Receipt,Client B,Cash,
JE-0003,2024-02-20,Revenue,Consulting,,250.00,Revenue,Receipt,Client B,Cash,
`
	importCSV(t, srv, extra)

	var after []map[string]any
	get(t, srv, "/api/reports/trial-balance", &after)
	require.Len(t, after, 4)
	for _, line := range after {
		if line["account"] == "Cash" {
			assert.Equal(t, "250", line["debit"])
		}
	}
}

func TestImportHistoryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var recs []map[string]any
	get(t, srv, "/api/imports", &recs)
	require.Len(t, recs, 1)
	assert.Equal(t, float64(4), recs[0]["row_count"])
}

func TestImportBadCSV(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader("Date,Account\n2024-01-01,Cash\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export?account=Cash", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2) // header + one Cash row
	assert.Contains(t, lines[1], "Cash")
}
