package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoiceqc/internal/export"
	"invoiceqc/internal/extract"
	"invoiceqc/internal/logger"
	"invoiceqc/internal/service"
	"invoiceqc/internal/validator"
)

var (
	runDir    string
	runReport string
	runXLSX   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract and validate end to end",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("run")

		docs, err := loadDocuments(runDir)
		if err != nil {
			return err
		}
		log.Info().Int("documents", len(docs)).Str("dir", runDir).Msg("running pipeline")

		qc := service.NewQCService(extract.NewExtractor(), validator.NewEngine(), nil)
		result, _, err := qc.Run(cmd.Context(), docs)
		if err != nil {
			return err
		}

		if err := writeJSON(runReport, result); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Pipeline complete. Report saved to %s\n", runReport)

		if runXLSX != "" {
			data, err := export.ReportWorkbook(result.Validation)
			if err != nil {
				return fmt.Errorf("building workbook: %w", err)
			}
			if err := os.WriteFile(runXLSX, data, 0o644); err != nil {
				return fmt.Errorf("writing workbook: %w", err)
			}
			fmt.Printf("Workbook saved to %s\n", runXLSX)
		}

		printSummary(&result.Validation.Summary)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runDir, "dir", "", "directory containing document files (.txt or .json)")
	runCmd.Flags().StringVar(&runReport, "report", "validation_report.json", "final validation report file")
	runCmd.Flags().StringVar(&runXLSX, "xlsx", "", "optional XLSX workbook output path")
	_ = runCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(runCmd)
}
