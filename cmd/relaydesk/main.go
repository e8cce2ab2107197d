package main

import (
	"os"

	"github.com/spf13/cobra"

	"relaydesk/internal/interfaces/cli/migrate"
	"relaydesk/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relaydesk",
		Short: "Relaydesk - per-guild support chat relay",
		Long:  `Relaydesk relays support-channel messages into per-guild tickets, enforcing plan quotas and assembling knowledge-grounded reply context.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
