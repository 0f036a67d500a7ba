package commands

import (
	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/server"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			return server.New(st, cfg).Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
