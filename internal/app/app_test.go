package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"meal-planner/internal/database"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"
	"meal-planner/internal/storage"
)

func newTestApp(t *testing.T, logger *zap.Logger) *App {
	t.Helper()
	db, err := database.NewDB(database.MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	snapshots, err := storage.NewSnapshotStore(t.TempDir())
	require.NoError(t, err)
	if logger == nil {
		logger = zaptest.NewLogger(t)
	}
	return NewApp(db.SQL, snapshots, logger)
}

func addBeef(t *testing.T, a *App) recipe.Recipe {
	t.Helper()
	rec, err := a.AddRecipe(context.Background(), recipe.Input{
		Title:           "Beef Stir Fry",
		PrepTimeMinutes: 25,
		Servings:        4,
		Ingredients: []recipe.Ingredient{
			{Name: "Beef", Quantity: 1, Unit: "lb"},
			{Name: "Soy Sauce", Quantity: 2, Unit: "tbsp"},
		},
		Tags: []string{recipe.TagHighIron},
	})
	require.NoError(t, err)
	return rec
}

func addRice(t *testing.T, a *App) recipe.Recipe {
	t.Helper()
	rec, err := a.AddRecipe(context.Background(), recipe.Input{
		Title:           "Rice Bowl",
		PrepTimeMinutes: 70,
		Servings:        2,
		Ingredients:     []recipe.Ingredient{{Name: "Rice", Quantity: 1, Unit: "cup"}},
	})
	require.NoError(t, err)
	return rec
}

func TestShoppingListFlow(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, nil)
	beef := addBeef(t, a)
	rice := addRice(t, a)

	require.NoError(t, a.PlanMeal(ctx, "Monday", beef.ID))
	require.NoError(t, a.PlanMeal(ctx, "Wednesday", beef.ID))
	require.NoError(t, a.PlanMeal(ctx, "Wednesday", rice.ID))

	t.Run("Aggregated", func(t *testing.T) {
		view, err := a.ShoppingList(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, view.MealCount)
		assert.Equal(t, "Based on 3 meals (scaled to 4 portions each)", view.Summary())
		require.Len(t, view.Items, 3)
		assert.Equal(t, "Beef", view.Items[0].Name)
		assert.Equal(t, 2.0, view.Items[0].Quantity)
		assert.Equal(t, "Rice", view.Items[1].Name)
		assert.Equal(t, 2.0, view.Items[1].Quantity)
	})

	t.Run("StaplesAndChecks", func(t *testing.T) {
		isStaple, err := a.ToggleStaple(ctx, "soy sauce")
		require.NoError(t, err)
		assert.True(t, isStaple)

		checked, err := a.ToggleChecked(ctx, "BEEF")
		require.NoError(t, err)
		assert.True(t, checked)

		view, err := a.ShoppingList(ctx)
		require.NoError(t, err)
		require.Len(t, view.Items, 2)
		assert.True(t, view.Items[0].Checked)
		assert.False(t, view.Items[1].Checked)

		require.NoError(t, a.SetShowStaples(ctx, true))
		view, err = a.ShoppingList(ctx)
		require.NoError(t, err)
		assert.Len(t, view.Items, 3)
		require.NoError(t, a.SetShowStaples(ctx, false))
	})

	t.Run("Export", func(t *testing.T) {
		checklist, err := a.ExportChecklist(ctx)
		require.NoError(t, err)
		assert.Equal(t, "- [ ] 2 lb Beef\n- [ ] 2 cup Rice", checklist)

		history, err := a.ExportHistory(ctx, 5)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, checklist, history[0].Checklist)

		activity, err := a.DailyActivity(ctx, 1)
		require.NoError(t, err)
		require.NotEmpty(t, activity)
		assert.GreaterOrEqual(t, activity[0].Runs, 4)
	})

	t.Run("DeletedRecipeIsSkipped", func(t *testing.T) {
		require.NoError(t, a.DeleteRecipe(ctx, rice.ID))
		view, err := a.ShoppingList(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, view.MealCount)
		require.Len(t, view.Items, 1)
		assert.Equal(t, "Beef", view.Items[0].Name)
	})
}

func TestInvalidRecipeIsLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.ErrorLevel)
	a := newTestApp(t, zap.New(core))

	broken := recipe.Recipe{ID: "broken", Title: "Broken", PrepTimeMinutes: 5, Servings: 0}
	require.NoError(t, a.recipeRepo.Save(ctx, broken))
	require.NoError(t, a.planRepo.Add(ctx, "Monday", "broken"))

	_, err := a.ShoppingList(ctx)
	var invalid *shopping.InvalidRecipeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "broken", invalid.RecipeID)

	entries := logs.FilterField(zap.String("recipe_id", "broken")).All()
	assert.Len(t, entries, 1)
}

func TestPlanning(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, nil)
	beef := addBeef(t, a)

	t.Run("UnknownRecipe", func(t *testing.T) {
		err := a.PlanMeal(ctx, "Monday", "missing")
		assert.True(t, errors.Is(err, recipe.ErrNotFound))
	})

	t.Run("QuickAddFillsWeek", func(t *testing.T) {
		for _, want := range planner.Weekdays {
			day, err := a.QuickAdd(ctx, beef.ID)
			require.NoError(t, err)
			assert.Equal(t, want, day)
		}
		_, err := a.QuickAdd(ctx, beef.ID)
		assert.ErrorIs(t, err, ErrWeekFull)
	})

	t.Run("UnplanAndClear", func(t *testing.T) {
		removed, err := a.UnplanMeal(ctx, "Monday", beef.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		day, err := a.QuickAdd(ctx, beef.ID)
		require.NoError(t, err)
		assert.Equal(t, "Monday", day)

		require.NoError(t, a.ClearPlan(ctx))
		plan, err := a.MealPlan(ctx)
		require.NoError(t, err)
		assert.Empty(t, plan)
	})
}

func TestRecipeBrowsing(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, nil)
	rice := addRice(t, a)
	beef := addBeef(t, a)

	all, err := a.ListRecipes(ctx, recipe.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []string{rice.ID, beef.ID}, []string{all[0].ID, all[1].ID})

	focus, err := a.ToggleHighIronFocus(ctx)
	require.NoError(t, err)
	assert.True(t, focus)

	all, err = a.ListRecipes(ctx, recipe.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, beef.ID, all[0].ID)

	quick, err := a.ListRecipes(ctx, recipe.FilterUnder60)
	require.NoError(t, err)
	require.Len(t, quick, 1)
	assert.Equal(t, beef.ID, quick[0].ID)

	_, err = a.AddRecipe(ctx, recipe.Input{Title: "Nothing", PrepTimeMinutes: 5, Servings: 0})
	var verr *recipe.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, nil)
	beef := addBeef(t, a)
	require.NoError(t, a.PlanMeal(ctx, "Friday", beef.ID))
	_, err := a.ToggleStaple(ctx, "Salt")
	require.NoError(t, err)

	name, err := a.SaveSnapshot(ctx, "", false)
	require.NoError(t, err)
	names, err := a.Snapshots()
	require.NoError(t, err)
	assert.Equal(t, []string{name}, names)

	_, err = a.SaveSnapshot(ctx, name, false)
	assert.ErrorIs(t, err, ErrSnapshotExists)
	_, err = a.SaveSnapshot(ctx, name, true)
	require.NoError(t, err)

	rice := addRice(t, a)
	require.NoError(t, a.PlanMeal(ctx, "Monday", rice.ID))
	_, err = a.ToggleChecked(ctx, "Rice")
	require.NoError(t, err)

	require.NoError(t, a.RestoreSnapshot(ctx, name))

	snap, err := a.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Recipes, 1)
	assert.Equal(t, beef.ID, snap.Recipes[0].ID)
	assert.Equal(t, planner.MealPlan{"Friday": {beef.ID}}, snap.MealPlan)
	assert.Equal(t, []string{"salt"}, snap.Staples)
	assert.Empty(t, snap.CheckedItems)

	t.Run("RejectsInvalid", func(t *testing.T) {
		err := a.Restore(ctx, storage.Snapshot{Recipes: []recipe.Recipe{{ID: "x", Title: "x", PrepTimeMinutes: 1}}})
		var verr *recipe.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestRestoreIsAtomic(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, nil)
	beef := addBeef(t, a)
	require.NoError(t, a.PlanMeal(ctx, "Friday", beef.ID))
	_, err := a.ToggleStaple(ctx, "Salt")
	require.NoError(t, err)

	// Plan rows are written after the catalog, so this fails the restore midway.
	_, err = a.db.ExecContext(ctx, `CREATE TRIGGER reject_plan BEFORE INSERT ON meal_plan_entries
		BEGIN SELECT RAISE(ABORT, 'plan write rejected'); END`)
	require.NoError(t, err)

	pasta := recipe.Recipe{
		ID: "pasta", Title: "Pasta", PrepTimeMinutes: 15, Servings: 2,
		Ingredients: []recipe.Ingredient{{Name: "Penne", Quantity: 200, Unit: "g"}},
	}
	err = a.Restore(ctx, storage.Snapshot{
		Recipes:  []recipe.Recipe{pasta},
		MealPlan: planner.MealPlan{"Monday": {"pasta"}},
		Staples:  []string{"olive oil"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan write rejected")

	snap, err := a.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Recipes, 1)
	assert.Equal(t, beef.ID, snap.Recipes[0].ID)
	assert.Equal(t, planner.MealPlan{"Friday": {beef.ID}}, snap.MealPlan)
	assert.Equal(t, []string{"salt"}, snap.Staples)
}

func TestImportRecipeFile(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, nil)
	dir := t.TempDir()

	single := filepath.Join(dir, "soup.json")
	require.NoError(t, os.WriteFile(single, []byte(`{"title":"Soup","prepTimeMinutes":10,"servings":2,"ingredients":[{"name":"Water","quantity":1,"unit":"l"}],"tags":[]}`), 0644))
	n, err := a.ImportRecipeFile(ctx, single)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	many := filepath.Join(dir, "many.json")
	require.NoError(t, os.WriteFile(many, []byte(`[
		{"id":"fixed","title":"Toast","prepTimeMinutes":5,"servings":1,"ingredients":[{"name":"Bread","quantity":2,"unit":"slice"}]},
		{"title":"Broken","prepTimeMinutes":5,"servings":0,"ingredients":[]}
	]`), 0644))
	n, err = a.ImportRecipeFile(ctx, many)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	toast, err := a.GetRecipe(ctx, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "Toast", toast.Title)

	t.Run("ReimportUpdatesInPlace", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			n, err := a.ImportRecipeFile(ctx, single)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		}
		all, err := a.ListRecipes(ctx, recipe.FilterAll)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		require.NoError(t, os.WriteFile(single, []byte(`{"title":"Soup","prepTimeMinutes":40,"servings":2,"ingredients":[{"name":"Water","quantity":2,"unit":"l"}]}`), 0644))
		_, err = a.ImportRecipeFile(ctx, single)
		require.NoError(t, err)
		soup, err := a.GetRecipe(ctx, recipe.ImportID("soup.json", "Soup"))
		require.NoError(t, err)
		assert.Equal(t, 40, soup.PrepTimeMinutes)
	})

	_, err = a.ImportRecipeFile(ctx, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = a.ImportRecipes(ctx, "inline", []byte("not json"))
	assert.Error(t, err)
}
