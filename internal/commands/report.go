package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/analytics"
)

func newReportCommand() *cobra.Command {
	var (
		startStr       string
		endStr         string
		accounts       []string
		customers      []string
		txnTypes       []string
		paymentMethods []string
		asOfStr        string
		agingAccount   string
	)

	cmd := &cobra.Command{
		Use:       "report <type>",
		Short:     "Print a financial report",
		Long:      "Print one of: trial-balance, income-statement, balance-sheet, cash-flow, aging.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"trial-balance", "income-statement", "balance-sheet", "cash-flow", "aging"},
		RunE: func(cmd *cobra.Command, args []string) error {
			q := analytics.Query{
				Accounts:       accounts,
				Customers:      customers,
				TxnTypes:       txnTypes,
				PaymentMethods: paymentMethods,
			}
			var err error
			if q.Start, err = parseDateFlag(startStr); err != nil {
				return err
			}
			if q.End, err = parseDateFlag(endStr); err != nil {
				return err
			}
			asOf, err := parseDateFlag(asOfStr)
			if err != nil {
				return err
			}
			if asOf.IsZero() {
				asOf = time.Now()
			}

			st, cfg, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := st.FetchAll()
			if err != nil {
				return err
			}
			ledger := analytics.Ledger(rows).Filter(q)

			if agingAccount == "" {
				agingAccount = cfg.Reports.AgingAccount
			}

			out := cmd.OutOrStdout()
			switch args[0] {
			case "trial-balance":
				printTrialBalance(out, ledger.TrialBalance())
			case "income-statement":
				printSummary(out, ledger.IncomeStatement())
			case "balance-sheet":
				printSummary(out, ledger.BalanceSheet())
			case "cash-flow":
				printSummary(out, ledger.CashFlow())
			case "aging":
				printAging(out, agingAccount, ledger.AgingReport(agingAccount, asOf))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "inclusive end date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&accounts, "account", nil, "restrict to account(s)")
	cmd.Flags().StringSliceVar(&customers, "customer", nil, "restrict to customer(s)/vendor(s)")
	cmd.Flags().StringSliceVar(&txnTypes, "txn-type", nil, "restrict to transaction type(s)")
	cmd.Flags().StringSliceVar(&paymentMethods, "payment-method", nil, "restrict to payment method(s)")
	cmd.Flags().StringVar(&asOfStr, "as-of", "", "aging reference date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&agingAccount, "aging-account", "", "account to age (default from config)")

	return cmd
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

func printTrialBalance(out io.Writer, lines []analytics.TrialBalanceLine) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tDEBIT\tCREDIT\tBALANCE")
	for _, line := range lines {
		account := line.Account
		if account == "" {
			account = "(no account)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			account, line.Debit.StringFixed(2), line.Credit.StringFixed(2), line.Balance.StringFixed(2))
	}
	tw.Flush()
}

func printSummary(out io.Writer, lines []analytics.SummaryLine) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, line := range lines {
		fmt.Fprintf(tw, "%s\t%s\n", line.Category, line.Amount.StringFixed(2))
	}
	tw.Flush()
}

func printAging(out io.Writer, account string, lines []analytics.AgingLine) {
	if len(lines) == 0 {
		fmt.Fprintf(out, "No rows for account %q\n", account)
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "AGING: %s\t\n", account)
	for _, line := range lines {
		fmt.Fprintf(tw, "%s\t%s\n", line.Bucket, line.Amount.StringFixed(2))
	}
	tw.Flush()
}
