package shopping

import (
	"slices"
	"time"
)

// TargetPortions is the number of portions every planned recipe is scaled to.
const TargetPortions = 4

// AggregatedItem is one line of the consolidated shopping list.
type AggregatedItem struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Checked  bool    `json:"checked"`
}

// Totals is the insertion-ordered result of Aggregate, keyed by normalized
// ingredient name.
type Totals struct {
	index map[string]int
	items []AggregatedItem
}

func newTotals() *Totals {
	return &Totals{index: make(map[string]int)}
}

// Len returns the number of distinct keys.
func (t *Totals) Len() int {
	if t == nil {
		return 0
	}
	return len(t.items)
}

// Get looks up an item by ingredient name, normalizing it first.
func (t *Totals) Get(name string) (AggregatedItem, bool) {
	if t == nil {
		return AggregatedItem{}, false
	}
	i, ok := t.index[NormalizeName(name)]
	if !ok {
		return AggregatedItem{}, false
	}
	return t.items[i], true
}

// Items returns a copy of the items in first-seen order.
func (t *Totals) Items() []AggregatedItem {
	if t == nil {
		return []AggregatedItem{}
	}
	return slices.Clone(t.items)
}

// keys returns the normalized keys in first-seen order.
func (t *Totals) keys() []string {
	keys := make([]string, 0, t.Len())
	for _, it := range t.Items() {
		keys = append(keys, it.Key)
	}
	return keys
}

// ShoppingList is an exported checklist kept for history.
type ShoppingList struct {
	ID        int64            `json:"id"`
	Items     []AggregatedItem `json:"items"`
	Checklist string           `json:"checklist"`
	CreatedAt time.Time        `json:"created_at"`
}
