package main

import (
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/joho/godotenv"

	"github.com/tallybook-dev/tallybook/internal/commands"
)

func main() {
	// Optional .env for TALLYBOOK_DB / TALLYBOOK_ADDR overrides.
	_ = godotenv.Load()

	rootCmd := commands.NewRootCommand()

	cc.Init(&cc.Config{
		RootCmd:  rootCmd,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
