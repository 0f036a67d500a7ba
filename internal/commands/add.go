package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/id"
	"github.com/tallybook-dev/tallybook/internal/model"
)

func newAddCommand() *cobra.Command {
	var (
		dateStr        string
		description    string
		debitAccount   string
		creditAccount  string
		debitCategory  string
		creditCategory string
		amountStr      string
		txnType        string
		customer       string
		paymentMethod  string
		reference      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one balanced double entry (a debit row and a credit row)",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amountStr, err)
			}
			if amount.IsNegative() || amount.IsZero() {
				return fmt.Errorf("amount must be positive, got %s", amount)
			}

			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", dateStr, err)
			}

			jeID := id.NewJEID()
			shared := model.Row{
				JEID:           jeID,
				Date:           date,
				Description:    description,
				TxnType:        txnType,
				CustomerVendor: customer,
				PaymentMethod:  paymentMethod,
				Reference:      reference,
			}

			debitRow := shared
			debitRow.Account = debitAccount
			debitRow.Debit = amount
			debitRow.Category = model.Category(debitCategory)

			creditRow := shared
			creditRow.Account = creditAccount
			creditRow.Credit = amount
			creditRow.Category = model.Category(creditCategory)

			validateCategories(cmd, debitRow.Category, creditRow.Category)

			st, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.InsertRows([]model.Row{debitRow, creditRow}); err != nil {
				return fmt.Errorf("storing entry: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added entry %s: %s %s -> %s\n",
				jeID, amount.StringFixed(2), debitAccount, creditAccount)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", time.Now().Format("2006-01-02"), "entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "entry description")
	cmd.Flags().StringVar(&debitAccount, "debit", "", "debit account name (required)")
	cmd.Flags().StringVar(&creditAccount, "credit", "", "credit account name (required)")
	cmd.Flags().StringVar(&debitCategory, "debit-category", "", "debit row category (Asset, Liability, Revenue, Expense, Equity)")
	cmd.Flags().StringVar(&creditCategory, "credit-category", "", "credit row category")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&txnType, "txn-type", "", "transaction type (Invoice, Receipt, ...)")
	cmd.Flags().StringVar(&customer, "customer", "", "customer or vendor name")
	cmd.Flags().StringVar(&paymentMethod, "payment-method", "", "payment method (Cash, Bank, ...)")
	cmd.Flags().StringVar(&reference, "reference", "", "source document reference")
	_ = cmd.MarkFlagRequired("debit")
	_ = cmd.MarkFlagRequired("credit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// validateCategories warns rather than fails: unknown categories are legal
// rows that simply surface in error checks later.
func validateCategories(cmd *cobra.Command, categories ...model.Category) {
	for _, c := range categories {
		if c != "" && !c.Known() {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q is not a standard category\n", c)
		}
	}
}
