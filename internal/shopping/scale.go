package shopping

import "fmt"

// InvalidRecipeError is raised when a recipe cannot be scaled. It means the
// catalog holds data recipe validation should have rejected.
type InvalidRecipeError struct {
	RecipeID string
	Title    string
	Servings int
}

func (e *InvalidRecipeError) Error() string {
	if e.RecipeID == "" {
		return fmt.Sprintf("invalid recipe: servings must be positive, got %d", e.Servings)
	}
	return fmt.Sprintf("invalid recipe %s (%q): servings must be positive, got %d", e.RecipeID, e.Title, e.Servings)
}

// ScaleFactor returns TargetPortions / servings.
func ScaleFactor(servings int) (float64, error) {
	if servings <= 0 {
		return 0, &InvalidRecipeError{Servings: servings}
	}
	return float64(TargetPortions) / float64(servings), nil
}
