package main

import (
	"os"

	"github.com/spf13/cobra"

	"readora/internal/interfaces/cli/migrate"
	"readora/internal/interfaces/cli/reset"
	"readora/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "readora",
		Short: "Readora - AI-guided reading practice for students",
		Long:  `Readora serves the reading passage library, guided discussion sessions, and the subscription engine that meters them.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		reset.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
