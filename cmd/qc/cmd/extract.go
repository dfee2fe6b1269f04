package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoiceqc/internal/extract"
	"invoiceqc/internal/logger"
	"invoiceqc/internal/service"
)

var (
	extractDir    string
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract invoice records from a directory of documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("extract")

		docs, err := loadDocuments(extractDir)
		if err != nil {
			return err
		}
		log.Info().Int("documents", len(docs)).Str("dir", extractDir).Msg("extracting")

		qc := service.NewQCService(extract.NewExtractor(), nil, nil)
		extracted := qc.Extract(cmd.Context(), docs)

		if err := writeJSON(extractOutput, extracted); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Printf("Extraction complete. Saved to %s\n", extractOutput)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractDir, "dir", "", "directory containing document files (.txt or .json)")
	extractCmd.Flags().StringVar(&extractOutput, "output", "extracted_invoices.json", "where to save extracted JSON")
	_ = extractCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(extractCmd)
}
