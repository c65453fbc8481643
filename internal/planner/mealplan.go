package planner

import (
	"slices"
	"strings"
)

// Weekdays lists the day keys of the weekly planner, in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MealPlan maps a day key (weekday name or YYYY-MM-DD date) to the recipe
// ids planned for it. The same id may appear more than once per day.
type MealPlan map[string][]string

// weekdayIndex returns the position of day in Weekdays, ignoring case.
func weekdayIndex(day string) int {
	for i, d := range Weekdays {
		if strings.EqualFold(d, day) {
			return i
		}
	}
	return -1
}

// SortedDays returns the plan's day keys in a stable order: weekdays Monday
// to Sunday first, then every other key lexicographically, which is
// chronological for ISO dates. Aggregation walks days in this order.
func SortedDays(plan MealPlan) []string {
	days := make([]string, 0, len(plan))
	for d := range plan {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b string) int {
		ai, bi := weekdayIndex(a), weekdayIndex(b)
		switch {
		case ai >= 0 && bi >= 0:
			if ai != bi {
				return ai - bi
			}
		case ai >= 0:
			return -1
		case bi >= 0:
			return 1
		}
		return strings.Compare(a, b)
	})
	return days
}

// MealCount is the number of planned recipe instances, dangling ones included.
func MealCount(plan MealPlan) int {
	n := 0
	for _, ids := range plan {
		n += len(ids)
	}
	return n
}

// Clone returns a deep copy of the plan.
func (p MealPlan) Clone() MealPlan {
	out := make(MealPlan, len(p))
	for d, ids := range p {
		out[d] = slices.Clone(ids)
	}
	return out
}
