package shopping

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortItems orders items by name using root-locale collation, ignoring case.
// The sort is stable so ties keep their incoming order.
func SortItems(items []AggregatedItem) []AggregatedItem {
	out := slices.Clone(items)
	c := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b AggregatedItem) int {
		return c.CompareString(a.Name, b.Name)
	})
	return out
}
