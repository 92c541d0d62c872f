package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/patta/internal/cli"
	"github.com/example/patta/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "patta",
		Short:   "patta - land record workflow and audit ledger",
		Version: version.String(),
		Long: `patta tracks land records through the approval chain, keeps an append-only
audit trail of every custody change and issues verifiable patta certificates.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.DetectAndStoreActor()
		},
	}
	cli.RegisterGlobalFlags(rootCmd)

	// Setup
	rootCmd.AddCommand(cli.InitCmd())

	// Records and workflow
	rootCmd.AddCommand(cli.RecordCmd())
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.DocCmd())
	rootCmd.AddCommand(cli.CertCmd())
	rootCmd.AddCommand(cli.IndexCmd())

	// Transports
	rootCmd.AddCommand(cli.InvokeCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
