package validator

import (
	"invoiceqc/internal/domain"
)

// Engine runs the rule categories over invoice records. The category order
// is fixed: completeness, format, business rules, anomalies, then the
// batch-scoped duplicate check appended last.
type Engine struct {
	categories [][]Rule
}

// NewEngine creates an engine with the built-in rule categories.
func NewEngine() *Engine {
	return &Engine{
		categories: [][]Rule{
			completenessRules(),
			formatRules(),
			businessRules(),
			anomalyRules(),
		},
	}
}

// Validate checks a whole batch and returns the per-invoice results in input
// order plus the aggregated summary. Each call uses a fresh duplicate
// tracker, so batches never leak duplicate state into one another.
func (e *Engine) Validate(batch []domain.Record) *domain.Report {
	tracker := NewDuplicateTracker()

	report := &domain.Report{
		Invoices: make([]domain.ValidationResult, 0, len(batch)),
		Summary: domain.Summary{
			TotalInvoices: len(batch),
			ErrorCounts:   make(map[string]int),
		},
	}

	for _, rec := range batch {
		result := e.ValidateOne(rec, tracker)
		report.Invoices = append(report.Invoices, result)

		if result.IsValid {
			report.Summary.ValidInvoices++
		} else {
			report.Summary.InvalidInvoices++
		}
		for _, err := range result.Errors {
			report.Summary.ErrorCounts[err]++
		}
	}

	return report
}

// ValidateOne evaluates every rule category against a single record and
// appends the duplicate check against the shared tracker.
func (e *Engine) ValidateOne(rec domain.Record, tracker *DuplicateTracker) domain.ValidationResult {
	errs := []string{}
	for _, category := range e.categories {
		for _, rule := range category {
			errs = append(errs, rule.Check(rec)...)
		}
	}

	if tracker != nil && tracker.Observe(rec) {
		errs = append(errs, "anomaly: duplicate_invoice")
	}

	return domain.ValidationResult{
		InvoiceID: invoiceID(rec),
		IsValid:   len(errs) == 0,
		Errors:    errs,
	}
}

// invoiceID picks the identifier reported back for a record: invoice_number,
// then order_number, then the literal "UNKNOWN".
func invoiceID(rec domain.Record) string {
	if v := rec["invoice_number"]; truthy(v) {
		if s := stringify(v); s != "" {
			return s
		}
	}
	if v := rec["order_number"]; truthy(v) {
		if s := stringify(v); s != "" {
			return s
		}
	}
	return "UNKNOWN"
}
