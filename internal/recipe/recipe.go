package recipe

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// TagHighIron marks recipes that count towards the high-iron focus.
const TagHighIron = "High Iron"

// ErrNotFound is returned when a recipe id is not present in the catalog.
var ErrNotFound = errors.New("recipe not found")

// importNamespace scopes the ids derived for imported recipes.
var importNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("meal-planner/recipe-import"))

// ImportID derives a stable id for a recipe that arrives without one, so that
// importing the same source again updates the recipe instead of adding a copy.
// Recipes of one source with the same title share an id.
func ImportID(source, title string) string {
	name := source + "\x00" + strings.ToLower(strings.TrimSpace(title))
	return uuid.NewSHA1(importNamespace, []byte(name)).String()
}

// Ingredient is one required quantity of a named item, as written for the
// recipe's own serving count.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Nutrition holds macro nutrients in grams per serving.
type Nutrition struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Recipe is a single entry of the recipe catalog.
type Recipe struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	SourceURL       string       `json:"sourceUrl"`
	PrepTimeMinutes int          `json:"prepTimeMinutes"`
	Servings        int          `json:"servings"`
	Ingredients     []Ingredient `json:"ingredients"`
	Tags            []string     `json:"tags"`
	Nutrition       *Nutrition   `json:"nutrition,omitempty"`
	ImageURL        string       `json:"imageUrl,omitempty"`
}

// Input carries the user supplied fields of a new recipe.
type Input struct {
	Title           string
	SourceURL       string
	PrepTimeMinutes int
	Servings        int
	Ingredients     []Ingredient
	Tags            []string
	Nutrition       *Nutrition
	ImageURL        string
}

// ValidationError describes a recipe that must not enter the catalog.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid recipe: %s %s", e.Field, e.Reason)
}

// New builds a validated recipe with a fresh id.
func New(in Input) (Recipe, error) {
	rec := Recipe{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(in.Title),
		SourceURL:       strings.TrimSpace(in.SourceURL),
		PrepTimeMinutes: in.PrepTimeMinutes,
		Servings:        in.Servings,
		Ingredients:     slices.Clone(in.Ingredients),
		Tags:            dedupeTags(in.Tags),
		Nutrition:       in.Nutrition,
		ImageURL:        strings.TrimSpace(in.ImageURL),
	}
	if err := rec.Validate(); err != nil {
		return Recipe{}, err
	}
	return rec, nil
}

// Validate checks the invariants the shopping list relies on.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if r.Servings <= 0 {
		return &ValidationError{Field: "servings", Reason: fmt.Sprintf("must be positive, got %d", r.Servings)}
	}
	if r.PrepTimeMinutes <= 0 {
		return &ValidationError{Field: "prepTimeMinutes", Reason: fmt.Sprintf("must be positive, got %d", r.PrepTimeMinutes)}
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return &ValidationError{Field: fmt.Sprintf("ingredients[%d].name", i), Reason: "must not be empty"}
		}
		if ing.Quantity <= 0 {
			return &ValidationError{Field: fmt.Sprintf("ingredients[%d].quantity", i), Reason: fmt.Sprintf("must be positive, got %v", ing.Quantity)}
		}
	}
	return nil
}

// HasTag reports whether the recipe carries tag, ignoring case.
func (r Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
