package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicing-api",
	Short: "Invoicing API - invoices, line items and payment settlement",
	Long: `Invoicing API serves the invoice lifecycle over HTTP: invoice creation,
line-item composition and partial or full payment settlement.

Running without a subcommand starts the HTTP server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
