package validator

import (
	"regexp"
	"strconv"
	"strings"

	"invoiceqc/internal/domain"
)

// skontoPercentPattern pulls the first "<number>%" out of payment terms,
// decimal comma or point.
var skontoPercentPattern = regexp.MustCompile(`(\d+[,\.]\d+)\s*%`)

// anomalyRules flag values that are syntactically fine but suspicious:
// negative totals and implausible cash-discount percentages.
func anomalyRules() []Rule {
	return []Rule{
		{
			Key: "negative_totals",
			Check: func(rec domain.Record) []string {
				var errs []string
				if v := rec["net_total"]; v != nil {
					if f, ok := asNumber(v); ok && f < 0 {
						errs = append(errs, "anomaly: negative_net_total")
					}
				}
				if v := rec["gross_total"]; v != nil {
					if f, ok := asNumber(v); ok && f < 0 {
						errs = append(errs, "anomaly: negative_gross_total")
					}
				}
				return errs
			},
		},
		{
			Key: "skonto_discount",
			Check: func(rec domain.Record) []string {
				terms, _ := asString(rec["payment_terms"])
				if terms == "" || !strings.Contains(strings.ToLower(terms), "skonto") {
					return nil
				}
				m := skontoPercentPattern.FindStringSubmatch(terms)
				if m == nil {
					return nil
				}
				pct, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
				if err != nil {
					return []string{"anomaly: invalid_discount_format"}
				}
				if pct > 100 {
					return []string{"anomaly: discount_percentage_exceeds_100"}
				}
				return nil
			},
		},
	}
}
