// Package extract recovers structured invoice records from detector output:
// a text blob plus zero or more tabular grids per document. Every field and
// line-item strategy is an ordered chain evaluated until the first match;
// a miss yields absence, never an error. The single fatal condition is a
// document whose text is too short to carry an invoice at all.
package extract

import (
	"fmt"
	"strings"

	"invoiceqc/internal/domain"
)

// minTextLength is the trimmed-text threshold below which a document is
// treated as empty rather than extracted from.
const minTextLength = 10

// Extractor turns one document's text and grids into an Invoice record.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract builds an Invoice from document text and optional grids. It returns
// domain.ErrEmptyDocument (wrapped) when the trimmed text is shorter than the
// minimal threshold; all other misses surface as absent fields.
func (e *Extractor) Extract(text string, grids []domain.Grid) (*domain.Invoice, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\t", " "))
	if len(text) < minTextLength {
		return nil, fmt.Errorf("%w: %d characters after trimming", domain.ErrEmptyDocument, len(text))
	}

	orderNumber := extractOrderNumber(text)

	inv := &domain.Invoice{
		InvoiceNumber:  extractInvoiceNumber(text, orderNumber),
		OrderNumber:    orderNumber,
		OrderReference: extractOrderReference(text),
		InvoiceDate:    extractInvoiceDate(text),
		SellerName:     extractSellerName(text),
		SellerAddress:  extractSellerAddress(text),
		BuyerName:      extractBuyerName(text),
		BuyerAddress:   extractBuyerAddress(text),
		DeliveryDate:   extractDeliveryDate(text),
		PaymentTerms:   extractPaymentTerms(text),
		Currency:       "EUR",
		NetTotal:       extractNetTotal(text),
		TaxAmount:      extractTaxAmount(text),
		GrossTotal:     extractGrossTotal(text),
		LineItems:      extractLineItems(text, grids),
	}

	return inv, nil
}
