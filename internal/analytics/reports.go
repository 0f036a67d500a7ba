package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// CashPaymentMethod is the Payment_Method value that marks a row as a cash
// movement for the cash flow statement.
const CashPaymentMethod = "Cash"

// Labels for the fixed-order summary statements.
const (
	LineRevenue      = "Revenue"
	LineExpenses     = "Expenses"
	LineNetProfit    = "Net Profit"
	LineAssets       = "Assets"
	LineLiabilities  = "Liabilities"
	LineEquity       = "Equity"
	LineCashInflows  = "Cash Inflows"
	LineCashOutflows = "Cash Outflows"
	LineNetCashFlow  = "Net Cash Flow"
)

// TrialBalanceLine is one account's totals in a trial balance.
type TrialBalanceLine struct {
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// SummaryLine is one labeled amount in a fixed-schema statement.
type SummaryLine struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// AgingLine is one day-count bucket in an aging report.
type AgingLine struct {
	Bucket string          `json:"aging_bucket"`
	Amount decimal.Decimal `json:"amount"`
}

// TrialBalance sums debits and credits per account. Rows without an account
// form their own group rather than being dropped; the empty account key sorts
// first. Balance is signed: debit minus credit. An empty ledger yields an
// empty slice.
func (l Ledger) TrialBalance() []TrialBalanceLine {
	sums := make(map[string]*TrialBalanceLine)
	for _, r := range l {
		line, ok := sums[r.Account]
		if !ok {
			line = &TrialBalanceLine{Account: r.Account, Debit: decimal.Zero, Credit: decimal.Zero}
			sums[r.Account] = line
		}
		line.Debit = line.Debit.Add(r.Debit)
		line.Credit = line.Credit.Add(r.Credit)
	}

	accounts := make([]string, 0, len(sums))
	for a := range sums {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)

	out := make([]TrialBalanceLine, 0, len(accounts))
	for _, a := range accounts {
		line := *sums[a]
		line.Balance = line.Debit.Sub(line.Credit)
		out = append(out, line)
	}
	return out
}

// IncomeStatement returns Revenue, Expenses, and Net Profit, always exactly
// three lines in that order. Revenue sums Credit over Revenue-tagged rows,
// Expenses sums Debit over Expense-tagged rows; other categories are ignored.
func (l Ledger) IncomeStatement() []SummaryLine {
	revenue := decimal.Zero
	expenses := decimal.Zero
	for _, r := range l {
		switch r.Category {
		case model.CategoryRevenue:
			revenue = revenue.Add(r.Credit)
		case model.CategoryExpense:
			expenses = expenses.Add(r.Debit)
		}
	}
	return []SummaryLine{
		{Category: LineRevenue, Amount: revenue},
		{Category: LineExpenses, Amount: expenses},
		{Category: LineNetProfit, Amount: revenue.Sub(expenses)},
	}
}

// BalanceSheet returns Assets, Liabilities, and Equity, always exactly three
// lines in that order. Equity is a plug figure (Assets minus Liabilities);
// rows tagged Equity do not feed it.
func (l Ledger) BalanceSheet() []SummaryLine {
	assets := decimal.Zero
	liabilities := decimal.Zero
	for _, r := range l {
		switch r.Category {
		case model.CategoryAsset:
			assets = assets.Add(r.Debit).Sub(r.Credit)
		case model.CategoryLiability:
			liabilities = liabilities.Add(r.Credit).Sub(r.Debit)
		}
	}
	return []SummaryLine{
		{Category: LineAssets, Amount: assets},
		{Category: LineLiabilities, Amount: liabilities},
		{Category: LineEquity, Amount: assets.Sub(liabilities)},
	}
}

// CashFlow returns Cash Inflows, Cash Outflows, and Net Cash Flow over rows
// whose Payment_Method is "Cash", always exactly three lines in that order.
// This is a deliberate simplification: payment method, not cash-account
// movement, is the signal for cash impact.
func (l Ledger) CashFlow() []SummaryLine {
	inflows := decimal.Zero
	outflows := decimal.Zero
	for _, r := range l {
		if r.PaymentMethod != CashPaymentMethod {
			continue
		}
		inflows = inflows.Add(r.Debit)
		outflows = outflows.Add(r.Credit)
	}
	return []SummaryLine{
		{Category: LineCashInflows, Amount: inflows},
		{Category: LineCashOutflows, Amount: outflows},
		{Category: LineNetCashFlow, Amount: inflows.Sub(outflows)},
	}
}

// agingBuckets partitions non-negative day counts. Bounds are inclusive on
// both ends, so together the buckets cover [0, ∞) exactly once.
var agingBuckets = []struct {
	label string
	min   int
	max   int // -1 = unbounded
}{
	{"0-30", 0, 30},
	{"31-60", 31, 60},
	{"61-90", 61, 90},
	{"91-120", 91, 120},
	{"120+", 121, -1},
}

// AgingReport buckets the Debit amounts of one account by days outstanding
// relative to asOf. Rows without a date, and rows dated after asOf, cannot be
// aged and contribute to no bucket. When the account has no rows at all the
// result is empty; otherwise all five buckets are returned in order, zeros
// included.
//
// Amount is a sum of debits, an approximation of open balance; true aging
// would need per-invoice open-item tracking.
func (l Ledger) AgingReport(account string, asOf time.Time) []AgingLine {
	totals := make([]decimal.Decimal, len(agingBuckets))
	for i := range totals {
		totals[i] = decimal.Zero
	}

	matched := false
	for _, r := range l {
		if r.Account != account {
			continue
		}
		matched = true
		if !r.HasDate() {
			continue
		}
		days := daysBetween(r.Date, asOf)
		if days < 0 {
			continue
		}
		for i, b := range agingBuckets {
			if days >= b.min && (b.max < 0 || days <= b.max) {
				totals[i] = totals[i].Add(r.Debit)
				break
			}
		}
	}

	if !matched {
		return nil
	}
	out := make([]AgingLine, len(agingBuckets))
	for i, b := range agingBuckets {
		out[i] = AgingLine{Bucket: b.label, Amount: totals[i]}
	}
	return out
}

// daysBetween returns whole calendar days from one date to another, ignoring
// time of day.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
