package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Scalar field patterns. Each field is an ordered chain; the first pattern
// that matches wins and the rest are never consulted.
var (
	invoiceNumberPattern = regexp.MustCompile(`(?i)Rechnung\s+([A-Z0-9\-]+)`)
	orderNumberPattern   = regexp.MustCompile(`(?i)Bestellung\s+([A-Z0-9]+)`)
	orderRefPattern      = regexp.MustCompile(`im Auftrag von\s+(\S+)`)
	invoiceDatePattern   = regexp.MustCompile(`vom\s+(\d{2}\.\d{2}\.\d{4})`)
	paymentTermsPattern  = regexp.MustCompile(`(?i)Zahlungsbedingungen:?\s*([^\n]+)`)

	// Five phrasings of the delivery date, from most to least specific. The
	// date may be replaced by the literal "sofort" (deliver immediately).
	deliveryDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Gewünschtes\s+Lieferdatum:?\s*(sofort|\d{2}\.\d{2}\.\d{4})`),
		regexp.MustCompile(`(?i)Lieferdatum:?\s*(sofort|\d{2}\.\d{2}\.\d{4})`),
		regexp.MustCompile(`(?i)Gewünschtes\s+Lieferdatum:?\s*\n\s*(sofort|\d{2}\.\d{2}\.\d{4})`),
		regexp.MustCompile(`(?i)Lieferdatum[^\n]*?\s+(sofort)`),
		regexp.MustCompile(`(?i)(?:Gewünschtes\s+)?Lieferdatum[^\n]*?(\d{2}\.\d{2}\.\d{4})`),
	}

	sellerPhrasePattern   = regexp.MustCompile(`(?i)medical equipment\s*\([^)]+\)`)
	sellerFallbackPattern = regexp.MustCompile(`(?i)ABC Corporation`)

	sellerAddressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)medical equipment\s*\([^)]+\)\s*\n([^\n]+(?:,\s*\d{5}\s+[^\n]+)?)`),
		regexp.MustCompile(`(?i)(?:medical equipment|ABC Corporation)[^\n]*\s*\n([A-Za-zäöüßÄÖÜ\s\-]+,?\s*\d{5}\s+[A-Za-zäöüßÄÖÜ\s]+)`),
	}

	buyerKeywordPattern = regexp.MustCompile(`(?i)Kundenanschrift`)
	addressLabelPattern = regexp.MustCompile(`^[A-Z][a-z]+:`)

	netTotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Gesamtwert\s+EUR\s+(\d+[,\d]*)`),
		regexp.MustCompile(`(?i)Gesamtwert\s+(\d+[,\d]*)\s+EUR`),
		regexp.MustCompile(`(?i)Nettobetrag[:\s]+EUR\s+(\d+[,\d]*)`),
	}
	taxAmountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)MwSt\.?\s*\d+%[^\d]*EUR\s+(\d+[,\d]*)`),
		regexp.MustCompile(`(?i)MwSt\.?\s*[^\d]*EUR\s+(\d+[,\d]*)`),
		regexp.MustCompile(`(?i)Umsatzsteuer[^\d]*EUR\s+(\d+[,\d]*)`),
	}
	grossTotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)inkl\.?\s*MwSt\.?\s*[^\d]*EUR\s+(\d+[,\d]*)`),
		regexp.MustCompile(`(?i)Gesamtwert\s+inkl\.?\s*MwSt\.?\s*[^\d]*EUR\s+(\d+[,\d]*)`),
		regexp.MustCompile(`(?i)Bruttobetrag[:\s]+EUR\s+(\d+[,\d]*)`),
	}
)

// firstCapture returns the trimmed first capture group of the first matching
// pattern in the chain, or "" when none matches.
func firstCapture(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// firstAmount walks an amount chain, normalizing the decimal comma before
// parsing. A pattern whose capture fails to parse is skipped in favor of the
// next one; the field stays absent when the whole chain misses.
func firstAmount(text string, patterns []*regexp.Regexp) *float64 {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

// extractInvoiceNumber synthesizes INV-<order number> when an order number
// was found; otherwise it falls back to a token after "Rechnung".
func extractInvoiceNumber(text, orderNumber string) string {
	if orderNumber != "" {
		return "INV-" + orderNumber
	}
	return firstCapture(text, invoiceNumberPattern)
}

func extractOrderNumber(text string) string {
	return firstCapture(text, orderNumberPattern)
}

func extractOrderReference(text string) string {
	return firstCapture(text, orderRefPattern)
}

func extractInvoiceDate(text string) string {
	return firstCapture(text, invoiceDatePattern)
}

func extractDeliveryDate(text string) string {
	return firstCapture(text, deliveryDatePatterns...)
}

func extractPaymentTerms(text string) string {
	return firstCapture(text, paymentTermsPattern)
}

func extractSellerName(text string) string {
	if m := sellerPhrasePattern.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return sellerFallbackPattern.FindString(text)
}

func extractSellerAddress(text string) string {
	return firstCapture(text, sellerAddressPatterns...)
}

// extractBuyerName returns the first non-blank text after "Kundenanschrift",
// whether it sits on the same line or the following one.
func extractBuyerName(text string) string {
	loc := buyerKeywordPattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	for _, line := range strings.Split(text[loc[1]:], "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// extractBuyerAddress collects the non-blank lines after the buyer name, up
// to a blank line or a new "Capitalized:" label line.
func extractBuyerAddress(text string) string {
	loc := buyerKeywordPattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	lines := strings.Split(text[loc[1]:], "\n")

	// Skip up to and including the buyer-name line.
	i := 0
	for ; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			i++
			break
		}
	}

	var addr []string
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || addressLabelPattern.MatchString(line) {
			break
		}
		addr = append(addr, line)
	}
	return strings.Join(addr, "\n")
}

func extractNetTotal(text string) *float64 {
	return firstAmount(text, netTotalPatterns)
}

func extractTaxAmount(text string) *float64 {
	return firstAmount(text, taxAmountPatterns)
}

func extractGrossTotal(text string) *float64 {
	return firstAmount(text, grossTotalPatterns)
}
