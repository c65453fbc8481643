package shopping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
)

func beefStirFry() recipe.Recipe {
	return recipe.Recipe{
		ID:              "beef",
		Title:           "Beef Stir Fry",
		PrepTimeMinutes: 20,
		Servings:        4,
		Ingredients: []recipe.Ingredient{
			{Name: "Beef", Quantity: 1, Unit: "lb"},
			{Name: "Soy Sauce", Quantity: 2, Unit: "tbsp"},
		},
	}
}

func riceBowl() recipe.Recipe {
	return recipe.Recipe{
		ID:              "rice",
		Title:           "Rice Bowl",
		PrepTimeMinutes: 15,
		Servings:        2,
		Ingredients: []recipe.Ingredient{
			{Name: "Rice", Quantity: 1, Unit: "cup"},
			{Name: "soy sauce", Quantity: 1, Unit: "tsp"},
		},
	}
}

func TestScaleFactor(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for servings, want := range map[int]float64{1: 4, 2: 2, 4: 1, 8: 0.5, 3: 4.0 / 3.0} {
			got, err := ScaleFactor(servings)
			require.NoError(t, err)
			assert.Equal(t, want, got, "servings %d", servings)
		}
	})

	t.Run("NonPositive", func(t *testing.T) {
		for _, servings := range []int{0, -1} {
			_, err := ScaleFactor(servings)
			var invalid *InvalidRecipeError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, servings, invalid.Servings)
		}
	})
}

func TestAggregate(t *testing.T) {
	catalog := []recipe.Recipe{beefStirFry(), riceBowl()}

	t.Run("SinglePlannedRecipe", func(t *testing.T) {
		totals, err := Aggregate(planner.MealPlan{"Monday": {"beef"}}, catalog)
		require.NoError(t, err)

		beef, ok := totals.Get("Beef")
		require.True(t, ok)
		assert.Equal(t, AggregatedItem{Key: "beef", Name: "Beef", Quantity: 1, Unit: "lb"}, beef)
	})

	t.Run("PlannedTwiceDoubles", func(t *testing.T) {
		single, err := Aggregate(planner.MealPlan{"Monday": {"beef"}}, catalog)
		require.NoError(t, err)

		for name, plan := range map[string]planner.MealPlan{
			"DifferentDays": {"Monday": {"beef"}, "Wednesday": {"beef"}},
			"SameDay":       {"Monday": {"beef", "beef"}},
		} {
			t.Run(name, func(t *testing.T) {
				double, err := Aggregate(plan, catalog)
				require.NoError(t, err)
				for _, it := range single.Items() {
					got, ok := double.Get(it.Name)
					require.True(t, ok)
					assert.Equal(t, 2*it.Quantity, got.Quantity, it.Name)
				}
			})
		}
	})

	t.Run("ScalesToTargetPortions", func(t *testing.T) {
		totals, err := Aggregate(planner.MealPlan{"Tuesday": {"rice"}}, catalog)
		require.NoError(t, err)

		rice, ok := totals.Get("rice")
		require.True(t, ok)
		assert.Equal(t, 2.0, rice.Quantity)
		assert.Equal(t, "cup", rice.Unit)
	})

	t.Run("MergesCaseInsensitiveKeepingFirstUnit", func(t *testing.T) {
		totals, err := Aggregate(planner.MealPlan{"Monday": {"beef"}, "Tuesday": {"rice"}}, catalog)
		require.NoError(t, err)

		soy, ok := totals.Get("SOY SAUCE")
		require.True(t, ok)
		assert.Equal(t, "Soy Sauce", soy.Name)
		assert.Equal(t, "tbsp", soy.Unit)
		assert.Equal(t, 2.0+2.0, soy.Quantity)
		assert.Equal(t, []string{"beef", "soy sauce", "rice"}, totals.keys())
	})

	t.Run("IgnoresSurroundingWhitespace", func(t *testing.T) {
		padded := recipe.Recipe{
			ID: "padded", Title: "Padded", PrepTimeMinutes: 5, Servings: 4,
			Ingredients: []recipe.Ingredient{{Name: " beef  ", Quantity: 3, Unit: "lb"}},
		}
		totals, err := Aggregate(planner.MealPlan{"Monday": {"beef", "padded"}}, []recipe.Recipe{beefStirFry(), padded})
		require.NoError(t, err)

		beef, ok := totals.Get("Beef")
		require.True(t, ok)
		assert.Equal(t, "Beef", beef.Name)
		assert.Equal(t, 4.0, beef.Quantity)
		assert.Equal(t, 2, totals.Len())
	})

	t.Run("SkipsDanglingReferences", func(t *testing.T) {
		totals, err := Aggregate(planner.MealPlan{"Monday": {"missing", "beef"}, "Friday": {"gone"}}, catalog)
		require.NoError(t, err)
		assert.Equal(t, 2, totals.Len())
	})

	t.Run("EmptyPlan", func(t *testing.T) {
		totals, err := Aggregate(planner.MealPlan{}, catalog)
		require.NoError(t, err)
		assert.Equal(t, 0, totals.Len())
		assert.Empty(t, totals.Items())

		totals, err = Aggregate(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, totals.Len())
	})

	t.Run("InvalidServingsAborts", func(t *testing.T) {
		broken := beefStirFry()
		broken.ID = "broken"
		broken.Servings = 0

		totals, err := Aggregate(planner.MealPlan{"Monday": {"beef", "broken"}}, append(catalog, broken))
		assert.Nil(t, totals)

		var invalid *InvalidRecipeError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "broken", invalid.RecipeID)
		assert.Equal(t, 0, invalid.Servings)
	})

	t.Run("DoesNotMutateInputs", func(t *testing.T) {
		plan := planner.MealPlan{"Monday": {"beef"}}
		cat := []recipe.Recipe{beefStirFry()}
		_, err := Aggregate(plan, cat)
		require.NoError(t, err)
		assert.Equal(t, planner.MealPlan{"Monday": {"beef"}}, plan)
		assert.Equal(t, beefStirFry(), cat[0])
	})

	t.Run("Deterministic", func(t *testing.T) {
		third := recipe.Recipe{
			ID: "third", Title: "Thirds", PrepTimeMinutes: 5, Servings: 3,
			Ingredients: []recipe.Ingredient{{Name: "Rice", Quantity: 0.1, Unit: "cup"}},
		}
		cat := append(catalog, third)
		plan := planner.MealPlan{
			"Sunday": {"third", "rice"}, "Monday": {"third"}, "Saturday": {"rice", "third"},
			"Holiday": {"third"}, "Thursday": {"third", "beef"},
		}
		first, err := Aggregate(plan, cat)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			again, err := Aggregate(plan, cat)
			require.NoError(t, err)
			assert.Equal(t, first.Items(), again.Items())
		}
	})
}

func TestTotalsItemsIsCopy(t *testing.T) {
	totals, err := Aggregate(planner.MealPlan{"Monday": {"beef"}}, []recipe.Recipe{beefStirFry()})
	require.NoError(t, err)

	items := totals.Items()
	items[0].Quantity = 99
	beef, _ := totals.Get("beef")
	assert.Equal(t, 1.0, beef.Quantity)

	var nilTotals *Totals
	assert.Equal(t, 0, nilTotals.Len())
	assert.Empty(t, nilTotals.keys())
}
