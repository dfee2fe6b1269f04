package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoiceqc/internal/domain"
	"invoiceqc/internal/logger"
	"invoiceqc/internal/validator"
)

var (
	validateInput  string
	validateReport string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate invoices from an extracted JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("validate")

		data, err := os.ReadFile(validateInput)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		var records []domain.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("parsing input: %w", err)
		}
		log.Info().Int("invoices", len(records)).Msg("validating")

		report := validator.NewEngine().Validate(records)

		if err := writeJSON(validateReport, report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Validation complete. Report saved to %s\n", validateReport)
		printSummary(&report.Summary)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateInput, "input", "", "input JSON with extracted invoices")
	validateCmd.Flags().StringVar(&validateReport, "report", "validation_report.json", "output validation report file")
	_ = validateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(validateCmd)
}
