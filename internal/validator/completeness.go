package validator

import (
	"fmt"

	"invoiceqc/internal/domain"
)

// requiredScalarFields are checked in this order; each miss gets its own
// error code so the summary buckets stay per-field.
var requiredScalarFields = []string{
	"order_number",
	"invoice_date",
	"seller_name",
	"buyer_name",
	"net_total",
	"tax_amount",
	"gross_total",
}

// completenessRules require the scalar fields to be present and truthy, and
// line_items to be a non-empty sequence.
func completenessRules() []Rule {
	return []Rule{
		{
			Key: "required_fields",
			Check: func(rec domain.Record) []string {
				var errs []string
				for _, field := range requiredScalarFields {
					if !truthy(rec[field]) {
						errs = append(errs, fmt.Sprintf("missing_field: %s", field))
					}
				}
				return errs
			},
		},
		{
			Key: "line_items_present",
			Check: func(rec domain.Record) []string {
				if !hasItems(rec["line_items"]) {
					return []string{"missing_field: line_items"}
				}
				return nil
			},
		},
	}
}
