package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/buildinfo"
	"github.com/tallybook-dev/tallybook/internal/config"
	"github.com/tallybook-dev/tallybook/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tallybook",
		Short:   "Journal-entry analytics: import, reports, and error checks",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", config.DefaultFile, "path to tallybook.yaml")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

// loadConfig resolves the --config flag into a Config, falling back to
// defaults when the file does not exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.LoadOrDefault(path)
}

// openStore opens the configured journal-entry database.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}
