package shopping

import (
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
)

// Aggregate walks every planned recipe instance and sums scaled ingredient
// quantities per normalized name.
//
// Days are visited in planner.SortedDays order, recipe ids in list order
// (duplicates count again) and ingredients in declared order; float64 sums
// accumulate in exactly that order. Ids missing from the catalog are skipped.
// The unit and display name of an item come from its first occurrence; units
// are never converted.
//
// A recipe with non-positive servings aborts the whole call with an
// *InvalidRecipeError and no partial result.
func Aggregate(plan planner.MealPlan, catalog []recipe.Recipe) (*Totals, error) {
	byID := make(map[string]*recipe.Recipe, len(catalog))
	for i := range catalog {
		if _, dup := byID[catalog[i].ID]; !dup {
			byID[catalog[i].ID] = &catalog[i]
		}
	}

	totals := newTotals()
	for _, day := range planner.SortedDays(plan) {
		for _, id := range plan[day] {
			rec, ok := byID[id]
			if !ok {
				continue
			}
			factor, err := ScaleFactor(rec.Servings)
			if err != nil {
				return nil, &InvalidRecipeError{RecipeID: rec.ID, Title: rec.Title, Servings: rec.Servings}
			}
			for _, ing := range rec.Ingredients {
				totals.add(ing, ing.Quantity*factor)
			}
		}
	}
	return totals, nil
}

func (t *Totals) add(ing recipe.Ingredient, qty float64) {
	key := NormalizeName(ing.Name)
	if i, ok := t.index[key]; ok {
		t.items[i].Quantity += qty
		return
	}
	t.index[key] = len(t.items)
	t.items = append(t.items, AggregatedItem{
		Key:      key,
		Name:     ing.Name,
		Quantity: qty,
		Unit:     ing.Unit,
	})
}
