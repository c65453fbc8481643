package recipe

import "slices"

// Filter selects a subset of the recipe browser.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterUnder60  Filter = "under60"
	FilterHighIron Filter = "highIron"
)

// ParseFilter maps user input to a Filter, defaulting to FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterUnder60, FilterHighIron:
		return Filter(s)
	default:
		return FilterAll
	}
}

// Apply returns the recipes matching f, preserving order.
func (f Filter) Apply(recipes []Recipe) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		switch f {
		case FilterUnder60:
			if r.PrepTimeMinutes >= 60 {
				continue
			}
		case FilterHighIron:
			if !r.HasTag(TagHighIron) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// SortHighIronFirst moves high-iron recipes to the front when focus is on.
// Relative order is otherwise kept.
func SortHighIronFirst(recipes []Recipe, focus bool) []Recipe {
	out := slices.Clone(recipes)
	if !focus {
		return out
	}
	slices.SortStableFunc(out, func(a, b Recipe) int {
		ai, bi := a.HasTag(TagHighIron), b.HasTag(TagHighIron)
		switch {
		case ai && !bi:
			return -1
		case !ai && bi:
			return 1
		}
		return 0
	})
	return out
}

// Difficulty buckets a preparation time.
func Difficulty(minutes int) string {
	switch {
	case minutes <= 30:
		return "Easy"
	case minutes <= 60:
		return "Medium"
	default:
		return "Hard"
	}
}
