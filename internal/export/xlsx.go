// Package export renders validation reports as XLSX workbooks.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"invoiceqc/internal/domain"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

// ReportWorkbook builds an XLSX workbook with one row per invoice result and
// a second sheet holding the batch summary, returned as bytes.
func ReportWorkbook(report *domain.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, err
	}

	headers := []string{"Invoice ID", "Valid", "Error Count", "Errors"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(resultsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, res := range report.Invoices {
		row := i + 2
		values := []interface{}{
			res.InvoiceID,
			res.IsValid,
			len(res.Errors),
			strings.Join(res.Errors, "; "),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(resultsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	if err := writeSummary(f, &report.Summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, summary *domain.Summary) error {
	rows := [][]interface{}{
		{"Total Invoices", summary.TotalInvoices},
		{"Valid Invoices", summary.ValidInvoices},
		{"Invalid Invoices", summary.InvalidInvoices},
	}

	// Error buckets in a stable order.
	codes := make([]string, 0, len(summary.ErrorCounts))
	for code := range summary.ErrorCounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		rows = append(rows, []interface{}{code, summary.ErrorCounts[code]})
	}

	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Filename returns a safe attachment filename for a report export.
func Filename(id string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
	return fmt.Sprintf("validation_report_%s.xlsx", sanitized)
}
