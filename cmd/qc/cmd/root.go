// Package cmd implements the qc command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoiceqc/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "qc",
	Short: "Invoice extraction and validation pipeline",
	Long: `qc extracts structured invoice records from detector output
(text plus optional tabular grids) and validates them against
completeness, format, business-rule, and anomaly checks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Setup(logger.Config{Level: logLevel, Format: "console"})
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}
