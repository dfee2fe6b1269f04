package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceqc/internal/domain"
	"invoiceqc/internal/validator"
)

func validRecord() domain.Record {
	return domain.Record{
		"invoice_number": "INV-4500123456",
		"order_number":   "4500123456",
		"invoice_date":   "15.01.2024",
		"seller_name":    "medical equipment (Medizintechnik)",
		"buyer_name":     "Klinikum Musterstadt",
		"delivery_date":  "20.01.2024",
		"payment_terms":  "30 Tage netto",
		"currency":       "EUR",
		"net_total":      100.0,
		"tax_amount":     19.0,
		"gross_total":    119.0,
		"line_items": []any{
			map[string]any{
				"position":    1,
				"description": "Infusionsbesteck",
				"quantity":    2.0,
				"unit_price":  50.0,
				"unit":        "ST",
				"line_total":  100.0,
			},
		},
	}
}

func TestValidate_ValidRecord(t *testing.T) {
	engine := validator.NewEngine()
	report := engine.Validate([]domain.Record{validRecord()})

	require.Len(t, report.Invoices, 1)
	res := report.Invoices[0]
	assert.Equal(t, "INV-4500123456", res.InvoiceID)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.NotNil(t, res.Errors)

	assert.Equal(t, 1, report.Summary.TotalInvoices)
	assert.Equal(t, 1, report.Summary.ValidInvoices)
	assert.Equal(t, 0, report.Summary.InvalidInvoices)
	assert.Empty(t, report.Summary.ErrorCounts)
}

func TestValidate_MissingFields(t *testing.T) {
	engine := validator.NewEngine()

	t.Run("missing_buyer_name", func(t *testing.T) {
		rec := validRecord()
		delete(rec, "buyer_name")
		report := engine.Validate([]domain.Record{rec})
		require.Len(t, report.Invoices, 1)
		assert.Contains(t, report.Invoices[0].Errors, "missing_field: buyer_name")
	})

	t.Run("empty_string_counts_as_missing", func(t *testing.T) {
		rec := validRecord()
		rec["seller_name"] = ""
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "missing_field: seller_name")
	})

	t.Run("zero_amount_counts_as_missing", func(t *testing.T) {
		rec := validRecord()
		rec["tax_amount"] = 0.0
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "missing_field: tax_amount")
	})

	t.Run("empty_line_items", func(t *testing.T) {
		rec := validRecord()
		rec["line_items"] = []any{}
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "missing_field: line_items")
	})
}

func TestValidate_FormatRules(t *testing.T) {
	engine := validator.NewEngine()

	t.Run("wrong_currency", func(t *testing.T) {
		rec := validRecord()
		rec["currency"] = "USD"
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "invalid_currency: must be EUR")
	})

	t.Run("bad_invoice_date", func(t *testing.T) {
		rec := validRecord()
		rec["invoice_date"] = "2024-01-15"
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "invalid_date_format: invoice_date must be DD.MM.YYYY")
	})

	t.Run("non_numeric_amount", func(t *testing.T) {
		rec := validRecord()
		rec["net_total"] = "abc"
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "invalid_number: net_total")
	})

	t.Run("numeric_string_accepted", func(t *testing.T) {
		rec := validRecord()
		rec["net_total"] = "100.0"
		report := engine.Validate([]domain.Record{rec})
		assert.True(t, report.Invoices[0].IsValid)
	})

	t.Run("negative_tax", func(t *testing.T) {
		rec := validRecord()
		rec["tax_amount"] = -1.0
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "invalid_tax_amount: tax_amount must be >= 0")
	})
}

func TestValidate_TotalsRounding(t *testing.T) {
	engine := validator.NewEngine()

	t.Run("rounds_to_equal", func(t *testing.T) {
		rec := validRecord()
		rec["net_total"] = 100.004
		rec["tax_amount"] = 19.00
		rec["gross_total"] = 119.00
		report := engine.Validate([]domain.Record{rec})
		assert.NotContains(t, report.Invoices[0].Errors, "business_rule_failed: totals_mismatch")
	})

	t.Run("mismatch_after_rounding", func(t *testing.T) {
		rec := validRecord()
		rec["net_total"] = 100.004
		rec["tax_amount"] = 19.00
		rec["gross_total"] = 119.01
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "business_rule_failed: totals_mismatch")
	})

	t.Run("gross_off_by_one", func(t *testing.T) {
		rec := validRecord()
		rec["gross_total"] = 120.0
		report := engine.Validate([]domain.Record{rec})
		assert.Equal(t, []string{"business_rule_failed: totals_mismatch"}, report.Invoices[0].Errors)
	})
}

func TestValidate_LineItemRules(t *testing.T) {
	engine := validator.NewEngine()

	t.Run("sum_mismatch", func(t *testing.T) {
		rec := validRecord()
		rec["line_items"] = []any{
			map[string]any{"quantity": 2.0, "unit_price": 50.0, "line_total": 90.0},
		}
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "business_rule_failed: line_items_net_mismatch")
	})

	t.Run("items_without_line_total_excluded", func(t *testing.T) {
		rec := validRecord()
		rec["line_items"] = []any{
			map[string]any{"quantity": 2.0, "unit_price": 50.0, "line_total": 100.0},
			map[string]any{"quantity": 1.0, "unit_price": 10.0},
		}
		report := engine.Validate([]domain.Record{rec})
		assert.NotContains(t, report.Invoices[0].Errors, "business_rule_failed: line_items_net_mismatch")
	})

	t.Run("calculation_error_emitted_once", func(t *testing.T) {
		rec := validRecord()
		rec["line_items"] = []any{
			map[string]any{"quantity": 2.0, "unit_price": 50.0, "line_total": 90.0},
			map[string]any{"quantity": 3.0, "unit_price": 5.0, "line_total": 10.0},
		}
		report := engine.Validate([]domain.Record{rec})

		count := 0
		for _, e := range report.Invoices[0].Errors {
			if e == "business_rule_failed: line_total_calculation_error" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestValidate_DeliveryDateOrdering(t *testing.T) {
	engine := validator.NewEngine()

	t.Run("delivery_before_invoice", func(t *testing.T) {
		rec := validRecord()
		rec["delivery_date"] = "10.01.2024"
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "business_rule_failed: delivery_date_before_invoice_date")
	})

	t.Run("sofort_is_exempt", func(t *testing.T) {
		rec := validRecord()
		rec["delivery_date"] = "Sofort"
		rec["invoice_date"] = "31.12.2099"
		report := engine.Validate([]domain.Record{rec})
		assert.NotContains(t, report.Invoices[0].Errors, "business_rule_failed: delivery_date_before_invoice_date")
	})

	t.Run("unparsable_delivery_date_skipped", func(t *testing.T) {
		rec := validRecord()
		rec["delivery_date"] = "someday"
		report := engine.Validate([]domain.Record{rec})
		assert.NotContains(t, report.Invoices[0].Errors, "business_rule_failed: delivery_date_before_invoice_date")
	})
}

func TestValidate_AnomalyRules(t *testing.T) {
	engine := validator.NewEngine()

	t.Run("negative_totals", func(t *testing.T) {
		rec := validRecord()
		rec["net_total"] = -100.0
		rec["gross_total"] = -119.0
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "anomaly: negative_net_total")
		assert.Contains(t, report.Invoices[0].Errors, "anomaly: negative_gross_total")
	})

	t.Run("skonto_over_100", func(t *testing.T) {
		rec := validRecord()
		rec["payment_terms"] = "150,0% Skonto bei Zahlung innerhalb 14 Tagen"
		report := engine.Validate([]domain.Record{rec})
		assert.Contains(t, report.Invoices[0].Errors, "anomaly: discount_percentage_exceeds_100")
	})

	t.Run("skonto_reasonable", func(t *testing.T) {
		rec := validRecord()
		rec["payment_terms"] = "2,0% Skonto bei Zahlung innerhalb 14 Tagen"
		report := engine.Validate([]domain.Record{rec})
		assert.True(t, report.Invoices[0].IsValid)
	})

	t.Run("no_percentage_no_error", func(t *testing.T) {
		rec := validRecord()
		rec["payment_terms"] = "Skonto nach Vereinbarung"
		report := engine.Validate([]domain.Record{rec})
		assert.True(t, report.Invoices[0].IsValid)
	})
}

func TestValidate_DuplicateOrdering(t *testing.T) {
	engine := validator.NewEngine()

	first := validRecord()
	second := validRecord()
	report := engine.Validate([]domain.Record{first, second})

	require.Len(t, report.Invoices, 2)
	assert.NotContains(t, report.Invoices[0].Errors, "anomaly: duplicate_invoice")
	assert.Contains(t, report.Invoices[1].Errors, "anomaly: duplicate_invoice")
}

func TestValidate_DuplicateStateDoesNotLeakAcrossBatches(t *testing.T) {
	engine := validator.NewEngine()

	batch := []domain.Record{validRecord()}
	firstRun := engine.Validate(batch)
	secondRun := engine.Validate(batch)

	assert.True(t, firstRun.Invoices[0].IsValid)
	assert.True(t, secondRun.Invoices[0].IsValid)
	assert.Equal(t, firstRun, secondRun)
}

func TestValidate_InvoiceIDFallback(t *testing.T) {
	engine := validator.NewEngine()

	t.Run("order_number_fallback", func(t *testing.T) {
		rec := validRecord()
		delete(rec, "invoice_number")
		report := engine.Validate([]domain.Record{rec})
		assert.Equal(t, "4500123456", report.Invoices[0].InvoiceID)
	})

	t.Run("unknown", func(t *testing.T) {
		report := engine.Validate([]domain.Record{{}})
		assert.Equal(t, "UNKNOWN", report.Invoices[0].InvoiceID)
	})

	t.Run("numeric_order_number_without_exponent", func(t *testing.T) {
		rec := validRecord()
		delete(rec, "invoice_number")
		rec["order_number"] = 4500123456.0
		report := engine.Validate([]domain.Record{rec})
		assert.Equal(t, "4500123456", report.Invoices[0].InvoiceID)
	})
}

func TestValidate_SummaryCounts(t *testing.T) {
	engine := validator.NewEngine()

	bad := validRecord()
	delete(bad, "buyer_name")
	alsoBad := validRecord()
	delete(alsoBad, "buyer_name")
	alsoBad["currency"] = "USD"

	report := engine.Validate([]domain.Record{validRecord(), bad, alsoBad})

	assert.Equal(t, 3, report.Summary.TotalInvoices)
	assert.Equal(t, 1, report.Summary.ValidInvoices)
	assert.Equal(t, 2, report.Summary.InvalidInvoices)
	assert.Equal(t, 2, report.Summary.ErrorCounts["missing_field: buyer_name"])
	assert.Equal(t, 1, report.Summary.ErrorCounts["invalid_currency: must be EUR"])
}

func TestValidate_ErrorCategoryOrder(t *testing.T) {
	engine := validator.NewEngine()

	rec := validRecord()
	delete(rec, "buyer_name")
	rec["currency"] = "USD"
	rec["gross_total"] = 120.0
	rec["net_total"] = -100.0

	report := engine.Validate([]domain.Record{rec})
	errs := report.Invoices[0].Errors

	idx := func(code string) int {
		for i, e := range errs {
			if e == code {
				return i
			}
		}
		return -1
	}

	missing := idx("missing_field: buyer_name")
	currency := idx("invalid_currency: must be EUR")
	mismatch := idx("business_rule_failed: totals_mismatch")
	negative := idx("anomaly: negative_net_total")

	require.GreaterOrEqual(t, missing, 0)
	require.GreaterOrEqual(t, currency, 0)
	require.GreaterOrEqual(t, mismatch, 0)
	require.GreaterOrEqual(t, negative, 0)
	assert.Less(t, missing, currency)
	assert.Less(t, currency, mismatch)
	assert.Less(t, mismatch, negative)
}
