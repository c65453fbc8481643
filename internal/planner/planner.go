package planner

// Assign appends recipeID to day and returns the updated copy of plan.
func Assign(plan MealPlan, day, recipeID string) MealPlan {
	out := plan.Clone()
	out[day] = append(out[day], recipeID)
	return out
}

// Remove drops the first occurrence of recipeID from day; a day left empty
// is removed. The plan is returned unchanged when the id is not planned.
func Remove(plan MealPlan, day, recipeID string) MealPlan {
	out := plan.Clone()
	ids := out[day]
	for i, id := range ids {
		if id == recipeID {
			out[day] = append(ids[:i:i], ids[i+1:]...)
			if len(out[day]) == 0 {
				delete(out, day)
			}
			return out
		}
	}
	return out
}

// FirstEmptyDay finds the first weekday with nothing planned, for quick-add.
func FirstEmptyDay(plan MealPlan) (string, bool) {
	for _, d := range Weekdays {
		if len(plan[d]) == 0 {
			return d, true
		}
	}
	return "", false
}
