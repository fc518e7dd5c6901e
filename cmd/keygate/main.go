package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"keygate/internal/interfaces/cli/migrate"
	"keygate/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "keygate",
		Short: "API access control plane",
		Long:  "keygate provisions API credentials, mirrors billing state, and keeps gateway rate limits in step with the active plan.",
	}

	rootCmd.AddCommand(server.NewCommand())
	rootCmd.AddCommand(migrate.NewCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
