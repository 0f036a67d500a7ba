package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/ingest"
)

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import journal rows from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0])
		},
	}
}

func runImport(cmd *cobra.Command, file string) error {
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	rows, err := ingest.ReadRows(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}

	inserted, err := st.InsertRows(rows)
	if err != nil {
		return fmt.Errorf("storing rows: %w", err)
	}
	if err := st.RecordImport(filepath.Base(file), inserted, time.Now()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows (%d duplicates skipped) from %s\n",
		inserted, len(rows)-inserted, file)
	return nil
}
