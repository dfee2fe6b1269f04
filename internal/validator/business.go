package validator

import (
	"strings"

	"invoiceqc/internal/domain"
)

// businessRules check cross-field arithmetic and date ordering. Every rule
// applies only when its inputs are present and coercible; a field that fails
// to coerce is the format category's problem, not a business failure.
func businessRules() []Rule {
	return []Rule{
		{
			Key: "totals_consistency",
			Check: func(rec domain.Record) []string {
				net, tax, gross := rec["net_total"], rec["tax_amount"], rec["gross_total"]
				if net == nil || tax == nil || gross == nil {
					return nil
				}
				n, okN := asNumber(net)
				t, okT := asNumber(tax)
				g, okG := asNumber(gross)
				if !okN || !okT || !okG {
					return nil
				}
				if round2(n+t) != round2(g) {
					return []string{"business_rule_failed: totals_mismatch"}
				}
				return nil
			},
		},
		{
			Key: "line_items_sum",
			Check: func(rec domain.Record) []string {
				net := rec["net_total"]
				items := itemRecords(rec)
				if len(items) == 0 || net == nil {
					return nil
				}
				n, ok := asNumber(net)
				if !ok {
					return nil
				}

				// Items without a line_total are excluded, not counted as zero.
				sum := 0.0
				present := false
				for _, item := range items {
					v := item["line_total"]
					if v == nil {
						continue
					}
					f, ok := asNumber(v)
					if !ok {
						continue
					}
					sum += f
					present = true
				}
				if present && round2(sum) != round2(n) {
					return []string{"business_rule_failed: line_items_net_mismatch"}
				}
				return nil
			},
		},
		{
			Key: "line_total_arithmetic",
			Check: func(rec domain.Record) []string {
				// One error for the whole item list; further bad lines are
				// not enumerated.
				for _, item := range itemRecords(rec) {
					q, u, t := item["quantity"], item["unit_price"], item["line_total"]
					if q == nil || u == nil || t == nil {
						continue
					}
					qf, okQ := asNumber(q)
					uf, okU := asNumber(u)
					tf, okT := asNumber(t)
					if !okQ || !okU || !okT {
						continue
					}
					if round2(qf*uf) != round2(tf) {
						return []string{"business_rule_failed: line_total_calculation_error"}
					}
				}
				return nil
			},
		},
		{
			Key: "delivery_after_invoice",
			Check: func(rec domain.Record) []string {
				delivery, okD := asString(rec["delivery_date"])
				invoice, okI := asString(rec["invoice_date"])
				if !okD || !okI || delivery == "" || invoice == "" {
					return nil
				}
				if strings.EqualFold(delivery, "sofort") {
					return nil
				}
				invDt, err := parseDate(invoice)
				if err != nil {
					return nil
				}
				delDt, err := parseDate(delivery)
				if err != nil {
					return nil
				}
				if delDt.Before(invDt) {
					return []string{"business_rule_failed: delivery_date_before_invoice_date"}
				}
				return nil
			},
		},
	}
}
