package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoiceqc/internal/domain"
	"invoiceqc/internal/export"
)

func TestReportWorkbook(t *testing.T) {
	report := &domain.Report{
		Invoices: []domain.ValidationResult{
			{InvoiceID: "INV-4500123456", IsValid: true, Errors: []string{}},
			{InvoiceID: "UNKNOWN", IsValid: false, Errors: []string{"missing_field: buyer_name", "invalid_currency: must be EUR"}},
		},
		Summary: domain.Summary{
			TotalInvoices:   2,
			ValidInvoices:   1,
			InvalidInvoices: 1,
			ErrorCounts: map[string]int{
				"missing_field: buyer_name":     1,
				"invalid_currency: must be EUR": 1,
			},
		},
	}

	data, err := export.ReportWorkbook(report)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Invoice ID", "Valid", "Error Count", "Errors"}, rows[0])
	assert.Equal(t, "INV-4500123456", rows[1][0])
	assert.Equal(t, "UNKNOWN", rows[2][0])
	assert.Equal(t, "missing_field: buyer_name; invalid_currency: must be EUR", rows[2][3])

	summaryRows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summaryRows), 3)
	assert.Equal(t, "Total Invoices", summaryRows[0][0])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "validation_report_abc-123.xlsx", export.Filename("abc-123"))
	assert.Equal(t, "validation_report_a_b_c.xlsx", export.Filename("a/b c"))
}
