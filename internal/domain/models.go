package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Grid is a detected tabular structure from one page: ordered rows of ordered
// cells, as produced by the upstream page-text/table detector.
type Grid [][]string

// Document is one unit of extractor input: the detector's text blob plus zero
// or more tabular grids, in page order.
type Document struct {
	Name  string `json:"name"`
	Text  string `json:"text"`
	Grids []Grid `json:"grids,omitempty"`
}

// LineItem is a single invoice position recovered by the line-item extractor.
type LineItem struct {
	Position    int     `json:"position"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Conversion  string  `json:"conversion,omitempty"`
	LineTotal   float64 `json:"line_total"`
}

// Invoice is the structured record produced once per document. String fields
// are empty when extraction found nothing; amount fields are nil when absent.
type Invoice struct {
	InvoiceNumber  string     `json:"invoice_number,omitempty"`
	OrderNumber    string     `json:"order_number,omitempty"`
	OrderReference string     `json:"order_reference,omitempty"`
	InvoiceDate    string     `json:"invoice_date,omitempty"`
	SellerName     string     `json:"seller_name,omitempty"`
	SellerAddress  string     `json:"seller_address,omitempty"`
	BuyerName      string     `json:"buyer_name,omitempty"`
	BuyerAddress   string     `json:"buyer_address,omitempty"`
	DeliveryDate   string     `json:"delivery_date,omitempty"`
	PaymentTerms   string     `json:"payment_terms,omitempty"`
	Currency       string     `json:"currency"`
	NetTotal       *float64   `json:"net_total,omitempty"`
	TaxAmount      *float64   `json:"tax_amount,omitempty"`
	GrossTotal     *float64   `json:"gross_total,omitempty"`
	LineItems      []LineItem `json:"line_items"`
}

// Record is an invoice-like mapping, the unit of validation input. Extracted
// invoices are converted through Invoice.Record; externally supplied batches
// (API, CLI) arrive as arbitrary JSON objects and are validated as-is.
type Record map[string]any

// Record converts a typed Invoice into the mapping form the validation engine
// consumes. Absent fields map to nil so completeness checks see them as missing.
func (inv *Invoice) Record() Record {
	rec := Record{
		"invoice_number":  nilIfEmpty(inv.InvoiceNumber),
		"order_number":    nilIfEmpty(inv.OrderNumber),
		"order_reference": nilIfEmpty(inv.OrderReference),
		"invoice_date":    nilIfEmpty(inv.InvoiceDate),
		"seller_name":     nilIfEmpty(inv.SellerName),
		"seller_address":  nilIfEmpty(inv.SellerAddress),
		"buyer_name":      nilIfEmpty(inv.BuyerName),
		"buyer_address":   nilIfEmpty(inv.BuyerAddress),
		"delivery_date":   nilIfEmpty(inv.DeliveryDate),
		"payment_terms":   nilIfEmpty(inv.PaymentTerms),
		"currency":        inv.Currency,
		"net_total":       nilIfAbsent(inv.NetTotal),
		"tax_amount":      nilIfAbsent(inv.TaxAmount),
		"gross_total":     nilIfAbsent(inv.GrossTotal),
	}

	items := make([]any, 0, len(inv.LineItems))
	for i := range inv.LineItems {
		li := &inv.LineItems[i]
		item := map[string]any{
			"position":    li.Position,
			"description": li.Description,
			"unit_price":  li.UnitPrice,
			"quantity":    li.Quantity,
			"unit":        li.Unit,
			"line_total":  li.LineTotal,
		}
		if li.Conversion != "" {
			item["conversion"] = li.Conversion
		}
		items = append(items, item)
	}
	rec["line_items"] = items

	return rec
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilIfAbsent(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// ValidationResult is the per-invoice verdict: the resolved invoice ID, a
// validity flag, and the ordered error-code strings that drove it.
type ValidationResult struct {
	InvoiceID string   `json:"invoice_id"`
	IsValid   bool     `json:"is_valid"`
	Errors    []string `json:"errors"`
}

// Summary aggregates a whole batch. ErrorCounts buckets by the literal
// error-code string, one increment per occurrence.
type Summary struct {
	TotalInvoices   int            `json:"total_invoices"`
	ValidInvoices   int            `json:"valid_invoices"`
	InvalidInvoices int            `json:"invalid_invoices"`
	ErrorCounts     map[string]int `json:"error_counts"`
}

// Report is the batch validation output, results in input order.
type Report struct {
	Invoices []ValidationResult `json:"invoices"`
	Summary  Summary            `json:"summary"`
}

// StoredReport is a persisted validation report row.
type StoredReport struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	TotalInvoices   int             `db:"total_invoices" json:"total_invoices"`
	ValidInvoices   int             `db:"valid_invoices" json:"valid_invoices"`
	InvalidInvoices int             `db:"invalid_invoices" json:"invalid_invoices"`
	Payload         json.RawMessage `db:"payload" json:"payload"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// ExtractedDocument pairs one input document with its extraction outcome.
// Error is set (and Invoice nil) when extraction failed for that document;
// a failed document never aborts the rest of the batch.
type ExtractedDocument struct {
	Name    string   `json:"name,omitempty"`
	Invoice *Invoice `json:"invoice,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// QCResult is the combined extract-and-validate output: every document's
// extraction outcome plus the validation report over the successful ones.
type QCResult struct {
	Extracted  []ExtractedDocument `json:"extracted"`
	Validation *Report             `json:"validation"`
}
