package shopping

import (
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
)

// ListInput is the snapshot a shopping list is derived from.
type ListInput struct {
	Plan        planner.MealPlan
	Catalog     []recipe.Recipe
	Staples     StapleSet
	ShowStaples bool
	Checked     CheckState
}

// Build runs aggregation, staple filtering, sorting and the check-state
// overlay, in that order.
func Build(in ListInput) ([]AggregatedItem, error) {
	totals, err := Aggregate(in.Plan, in.Catalog)
	if err != nil {
		return nil, err
	}
	items := FilterStaples(totals.Items(), in.Staples, in.ShowStaples)
	items = SortItems(items)
	return ApplyCheckState(items, in.Checked), nil
}
