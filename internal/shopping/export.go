package shopping

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatQuantity rounds half-up to two decimals and trims trailing zeros.
func FormatQuantity(q float64) string {
	return decimal.NewFromFloat(q).Round(2).String()
}

// FormatAsChecklist renders one "- [ ] <qty> <unit> <name>" line per item,
// newline separated, without a trailing newline. The unit is left out when
// empty.
func FormatAsChecklist(items []AggregatedItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		parts := []string{"- [ ]", FormatQuantity(it.Quantity)}
		if it.Unit != "" {
			parts = append(parts, it.Unit)
		}
		parts = append(parts, it.Name)
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
