package extract

import (
	"regexp"
	"strconv"
	"strings"

	"invoiceqc/internal/domain"
)

// Keyword sets steering the text-line tier. Header keywords locate (and skip)
// column-header lines; terminator keywords mark the totals block, where the
// item table is over.
var (
	gridHeaderKeywords = []string{"pos", "artikel", "preis", "menge"}
	lineHeaderKeywords = []string{"pos", "artikel", "preis", "menge", "einheit"}
	lineSkipKeywords   = []string{"pos", "artikel", "preis", "menge", "einheit", "umrechnung", "bestellwert"}
	terminatorKeywords = []string{"gesamt", "summe", "total", "mwst", "steuer", "zahlungsbedingungen"}
)

// Cell-shape classifiers for the grid tier.
var (
	positionCellPattern = regexp.MustCompile(`^\d+$`)
	decimalCellPattern  = regexp.MustCompile(`^\d+[,\.]\d+`)
	integerCellPattern  = regexp.MustCompile(`^\d+([,\.]\d+)?$`)
	unitCellPattern     = regexp.MustCompile(`^[A-Za-z]+$`)
)

// Text-line tier patterns. The strict pattern expects the full six-column
// shape; the looser ones tolerate an optional conversion expression between
// unit and total. First structural match wins per line.
var (
	strictLinePattern = regexp.MustCompile(`^(\d+)\s+(.+?)\s+(\d+[,\d]*)\s+(\d+[,\d]*)\s+([A-Z]+).*?(\d+,\d+)$`)

	looseLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d+)\s+([A-Za-z0-9\s\-\.:]+?)\s+(\d+[,\d]*)\s+([\d,\.]+)\s+([A-Z]+)\s+(\d+\s*[A-Z]+\s*=\s*\d+\s*[A-Za-z]+)\s+(\d+,\d+)$`),
		regexp.MustCompile(`^(\d+)\s+([A-Za-z0-9\s\-\.:]+?)\s+(\d+[,\d]*)\s+([\d,\.]+)\s+([A-Z]+).*?(\d+,\d+)$`),
		regexp.MustCompile(`^(\d+)\s+([A-Za-z\s\-\.:]+?)\s+(\d+[,\d]*)\s+([\d,\.]+)\s+([A-Z]+).*?(\d+,\d+)$`),
	}

	lastResortPattern = regexp.MustCompile(`^(\d+)\s+(.+?)\s+.*?(\d+,\d+)$`)
)

const (
	lastResortMaxLines = 20
	lastResortMaxItems = 10
)

// extractLineItems runs the tiers in order and returns the first tier's
// non-empty result: grids, then text-line patterns, then the last-resort scan.
func extractLineItems(text string, grids []domain.Grid) []domain.LineItem {
	if items := gridItems(grids); len(items) > 0 {
		return items
	}

	searchLines := candidateLines(text)
	if items := textLineItems(searchLines); len(items) > 0 {
		return items
	}
	return lastResortItems(searchLines)
}

// gridItems walks the grids in page order, looking for the first one whose
// header row names an item column and whose body yields at least one item.
func gridItems(grids []domain.Grid) []domain.LineItem {
	for _, grid := range grids {
		if len(grid) < 2 {
			continue
		}
		if !headerMatches(grid[0]) {
			continue
		}

		var items []domain.LineItem
		for _, row := range grid[1:] {
			if item, ok := gridRowItem(row); ok {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func headerMatches(header []string) bool {
	for _, cell := range header {
		lower := strings.ToLower(cell)
		for _, kw := range gridHeaderKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// gridRowItem classifies the cells of one body row by shape: the first
// decimal-comma cell is the unit price, the next the line total, the first
// integer-like cell the quantity, a letters-only cell the unit, and a cell
// containing "=" the conversion expression. A row is accepted only when both
// price and total parsed and are positive.
func gridRowItem(row []string) (domain.LineItem, bool) {
	if len(row) < 4 {
		return domain.LineItem{}, false
	}
	pos := strings.TrimSpace(row[0])
	if !positionCellPattern.MatchString(pos) {
		return domain.LineItem{}, false
	}

	desc := strings.TrimSpace(row[1])
	priceStr, qtyStr, totalStr := "", "", ""
	unit, conversion := "", ""

	for _, cell := range row[2:] {
		cell = strings.TrimSpace(cell)
		switch {
		case decimalCellPattern.MatchString(cell):
			if priceStr == "" {
				priceStr = cell
			} else {
				totalStr = cell
			}
		case integerCellPattern.MatchString(cell) && qtyStr == "":
			qtyStr = cell
		case unitCellPattern.MatchString(cell):
			unit = cell
		case strings.Contains(cell, "="):
			conversion = cell
		}
	}

	position, err := strconv.Atoi(pos)
	if err != nil {
		return domain.LineItem{}, false
	}
	price, err := parseDecimal(priceStr)
	if err != nil {
		return domain.LineItem{}, false
	}
	total, err := parseDecimal(totalStr)
	if err != nil {
		return domain.LineItem{}, false
	}
	qty := 1.0
	if qtyStr != "" {
		if qty, err = parseDecimal(qtyStr); err != nil {
			return domain.LineItem{}, false
		}
	}

	if price <= 0 || total <= 0 {
		return domain.LineItem{}, false
	}

	return domain.LineItem{
		Position:    position,
		Description: desc,
		UnitPrice:   price,
		Quantity:    qty,
		Unit:        unit,
		Conversion:  conversion,
		LineTotal:   total,
	}, true
}

// candidateLines returns the text's lines starting after the first
// column-header line, or all lines when no header is found.
func candidateLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if containsAny(strings.ToLower(line), lineHeaderKeywords) {
			return lines[i+1:]
		}
	}
	return lines
}

// textLineItems applies the strict and loose line patterns to each candidate
// line, stopping at the first terminator line. Unmatched lines are skipped.
func textLineItems(lines []string) []domain.LineItem {
	var items []domain.LineItem
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, lineSkipKeywords) {
			continue
		}
		if containsAny(lower, terminatorKeywords) {
			break
		}

		if item, ok := strictLineItem(line); ok {
			items = append(items, item)
			continue
		}
		if item, ok := looseLineItem(line); ok {
			items = append(items, item)
		}
	}
	return items
}

// strictLineItem parses the six-column shape. When the fourth column carries
// more than two fractional digits and the third does not, the two are assumed
// to be swapped (quantity printed before price) and are exchanged.
func strictLineItem(line string) (domain.LineItem, bool) {
	m := strictLinePattern.FindStringSubmatch(line)
	if m == nil {
		return domain.LineItem{}, false
	}

	position, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.LineItem{}, false
	}
	num1 := strings.ReplaceAll(m[3], ",", ".")
	num2 := strings.ReplaceAll(m[4], ",", ".")
	price, err := strconv.ParseFloat(num1, 64)
	if err != nil {
		return domain.LineItem{}, false
	}
	qty, err := strconv.ParseFloat(num2, 64)
	if err != nil {
		return domain.LineItem{}, false
	}
	total, err := parseDecimal(m[6])
	if err != nil {
		return domain.LineItem{}, false
	}

	if fractionDigits(num2) > 2 && fractionDigits(num1) <= 2 {
		price, qty = qty, price
	}

	return domain.LineItem{
		Position:    position,
		Description: strings.TrimSpace(m[2]),
		UnitPrice:   price,
		Quantity:    qty,
		Unit:        m[5],
		LineTotal:   total,
	}, true
}

func looseLineItem(line string) (domain.LineItem, bool) {
	for _, re := range looseLinePatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		position, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		price, err := parseDecimal(m[3])
		if err != nil {
			continue
		}
		qty, err := parseDecimal(m[4])
		if err != nil {
			continue
		}

		conversion, totalStr := "", ""
		if len(m) == 8 {
			conversion = m[6]
			totalStr = m[7]
		} else {
			totalStr = m[6]
		}
		total, err := parseDecimal(totalStr)
		if err != nil {
			continue
		}

		return domain.LineItem{
			Position:    position,
			Description: strings.TrimSpace(m[2]),
			UnitPrice:   price,
			Quantity:    qty,
			Unit:        m[5],
			Conversion:  conversion,
			LineTotal:   total,
		}, true
	}
	return domain.LineItem{}, false
}

// lastResortItems scans only the first candidate lines with a minimal
// position/description/total pattern, synthesizing quantity 1 items with the
// total as unit price. It collects at most lastResortMaxItems.
func lastResortItems(lines []string) []domain.LineItem {
	if len(lines) > lastResortMaxLines {
		lines = lines[:lastResortMaxLines]
	}

	var items []domain.LineItem
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := lastResortPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		position, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		total, err := parseDecimal(m[3])
		if err != nil {
			continue
		}

		items = append(items, domain.LineItem{
			Position:    position,
			Description: truncateRunes(strings.TrimSpace(m[2]), 50),
			UnitPrice:   total,
			Quantity:    1.0,
			LineTotal:   total,
		})
		if len(items) >= lastResortMaxItems {
			break
		}
	}
	return items
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// fractionDigits counts digits after the decimal point of an already
// comma-normalized numeric string.
func fractionDigits(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
