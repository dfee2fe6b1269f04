package validator

import (
	"fmt"

	"invoiceqc/internal/domain"
)

// amountFields are the monetary fields whose values, when present, must be
// numeric or numeric strings.
var amountFields = []string{"net_total", "tax_amount", "gross_total"}

// formatRules check the shape of values without judging their business
// meaning: currency constant, date layout, and numeric coercibility.
func formatRules() []Rule {
	return []Rule{
		{
			Key: "currency",
			Check: func(rec domain.Record) []string {
				if s, ok := asString(rec["currency"]); !ok || s != "EUR" {
					return []string{"invalid_currency: must be EUR"}
				}
				return nil
			},
		},
		{
			Key: "invoice_date_format",
			Check: func(rec domain.Record) []string {
				v := rec["invoice_date"]
				if !truthy(v) {
					return nil
				}
				s, ok := asString(v)
				if !ok {
					return []string{"invalid_date_format: invoice_date must be DD.MM.YYYY"}
				}
				if _, err := parseDate(s); err != nil {
					return []string{"invalid_date_format: invoice_date must be DD.MM.YYYY"}
				}
				return nil
			},
		},
		{
			Key: "numeric_amounts",
			Check: func(rec domain.Record) []string {
				var errs []string
				for _, field := range amountFields {
					v := rec[field]
					if v == nil {
						continue
					}
					if _, ok := asNumber(v); !ok {
						errs = append(errs, fmt.Sprintf("invalid_number: %s", field))
					}
				}
				return errs
			},
		},
		{
			Key: "tax_amount_sign",
			Check: func(rec domain.Record) []string {
				v := rec["tax_amount"]
				if v == nil {
					return nil
				}
				// Non-numeric values are already reported by numeric_amounts.
				if f, ok := asNumber(v); ok && f < 0 {
					return []string{"invalid_tax_amount: tax_amount must be >= 0"}
				}
				return nil
			},
		},
	}
}
