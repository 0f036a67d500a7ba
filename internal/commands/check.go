package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/analytics"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run double-entry balance checks and anomaly detection",
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := st.FetchAll()
	if err != nil {
		return err
	}

	result := analytics.Ledger(rows).ErrorChecks()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Status:             %s\n", result.Status)
	fmt.Fprintf(out, "Total debits:       %s\n", result.TotalDebits.StringFixed(2))
	fmt.Fprintf(out, "Total credits:      %s\n", result.TotalCredits.StringFixed(2))
	fmt.Fprintf(out, "Unbalanced rows:    %d\n", len(result.UnbalancedRows))
	fmt.Fprintf(out, "Unbalanced entries: %d\n", len(result.UnbalancedEntries))
	fmt.Fprintf(out, "Anomalies:          %d\n", len(result.Anomalies))

	for _, e := range result.UnbalancedEntries {
		fmt.Fprintf(out, "  entry %s: debits %s != credits %s\n",
			e.JEID, e.Debits.StringFixed(2), e.Credits.StringFixed(2))
	}
	for _, r := range result.Anomalies {
		reason := "missing category"
		if r.Debit.IsNegative() || r.Credit.IsNegative() {
			reason = "negative amount"
		}
		fmt.Fprintf(out, "  anomaly [%s] %s: %s\n", r.JEID, r.Account, reason)
	}

	if result.Status != analytics.StatusBalanced {
		return fmt.Errorf("ledger is not balanced: debits %s, credits %s",
			result.TotalDebits.StringFixed(2), result.TotalCredits.StringFixed(2))
	}
	return nil
}
