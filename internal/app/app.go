package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"
	"meal-planner/internal/storage"
)

var (
	// ErrWeekFull is returned by QuickAdd when every weekday has a meal.
	ErrWeekFull = errors.New("every day of the week already has a meal")
	// ErrNoSnapshots is returned when snapshot operations run without a store.
	ErrNoSnapshots = errors.New("snapshot storage is not configured")
	// ErrSnapshotExists is returned by SaveSnapshot instead of overwriting.
	ErrSnapshotExists = errors.New("snapshot already exists")
)

// App holds the application's dependencies.
type App struct {
	db           *sql.DB
	recipeRepo   *recipe.Repository
	planRepo     *planner.PlanRepository
	stateRepo    *shopping.StateRepository
	historyRepo  *shopping.Repository
	metricsStore *metrics.Store
	snapshots    *storage.SnapshotStore
	logger       *zap.Logger

	// mu serializes read-modify-write updates of plan and toggle state.
	mu sync.Mutex
}

// NewApp creates and initializes a new App instance. snapshots may be nil.
func NewApp(db *sql.DB, snapshots *storage.SnapshotStore, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		db:           db,
		recipeRepo:   recipe.NewRepository(db),
		planRepo:     planner.NewPlanRepository(db),
		stateRepo:    shopping.NewStateRepository(db),
		historyRepo:  shopping.NewRepository(db),
		metricsStore: metrics.NewStore(db),
		snapshots:    snapshots,
		logger:       logger,
	}
}

// AddRecipe validates and stores a new recipe.
func (a *App) AddRecipe(ctx context.Context, in recipe.Input) (recipe.Recipe, error) {
	rec, err := recipe.New(in)
	if err != nil {
		return recipe.Recipe{}, err
	}
	if err := a.recipeRepo.Save(ctx, rec); err != nil {
		return recipe.Recipe{}, err
	}
	a.logger.Info("recipe added", zap.String("id", rec.ID), zap.String("title", rec.Title))
	return rec, nil
}

// SaveRecipe stores a recipe that may already carry an id, as imports do.
func (a *App) SaveRecipe(ctx context.Context, rec recipe.Recipe) (recipe.Recipe, error) {
	if rec.ID == "" {
		return a.AddRecipe(ctx, recipe.Input{
			Title:           rec.Title,
			SourceURL:       rec.SourceURL,
			PrepTimeMinutes: rec.PrepTimeMinutes,
			Servings:        rec.Servings,
			Ingredients:     rec.Ingredients,
			Tags:            rec.Tags,
			Nutrition:       rec.Nutrition,
			ImageURL:        rec.ImageURL,
		})
	}
	if err := rec.Validate(); err != nil {
		return recipe.Recipe{}, err
	}
	if err := a.recipeRepo.Save(ctx, rec); err != nil {
		return recipe.Recipe{}, err
	}
	return rec, nil
}

// DeleteRecipe removes a recipe. Plan entries that point at it stay and are
// skipped by the shopping list.
func (a *App) DeleteRecipe(ctx context.Context, id string) error {
	if err := a.recipeRepo.Delete(ctx, id); err != nil {
		return err
	}
	a.logger.Info("recipe deleted", zap.String("id", id))
	return nil
}

// GetRecipe returns a recipe or recipe.ErrNotFound.
func (a *App) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	rec, err := a.recipeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", recipe.ErrNotFound, id)
	}
	return rec, nil
}

// ListRecipes returns the filtered catalog, high-iron recipes first when the
// focus flag is on.
func (a *App) ListRecipes(ctx context.Context, filter recipe.Filter) ([]recipe.Recipe, error) {
	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	focus, err := a.stateRepo.HighIronFocus(ctx)
	if err != nil {
		return nil, err
	}
	return recipe.SortHighIronFirst(filter.Apply(recipes), focus), nil
}

// MealPlan returns the current plan.
func (a *App) MealPlan(ctx context.Context) (planner.MealPlan, error) {
	return a.planRepo.Load(ctx)
}

// PlanMeal assigns a known recipe to day.
func (a *App) PlanMeal(ctx context.Context, day, recipeID string) error {
	day = strings.TrimSpace(day)
	if day == "" {
		return fmt.Errorf("day must not be empty")
	}
	if _, err := a.GetRecipe(ctx, recipeID); err != nil {
		return err
	}
	if err := a.planRepo.Add(ctx, day, recipeID); err != nil {
		return err
	}
	a.logger.Debug("meal planned", zap.String("day", day), zap.String("recipe_id", recipeID))
	return nil
}

// UnplanMeal removes one occurrence of recipeID from day.
func (a *App) UnplanMeal(ctx context.Context, day, recipeID string) (bool, error) {
	return a.planRepo.Remove(ctx, day, recipeID)
}

// QuickAdd plans recipeID on the first weekday without a meal.
func (a *App) QuickAdd(ctx context.Context, recipeID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	plan, err := a.planRepo.Load(ctx)
	if err != nil {
		return "", err
	}
	day, ok := planner.FirstEmptyDay(plan)
	if !ok {
		return "", ErrWeekFull
	}
	if err := a.PlanMeal(ctx, day, recipeID); err != nil {
		return "", err
	}
	return day, nil
}

// ClearPlan removes every planned meal.
func (a *App) ClearPlan(ctx context.Context) error {
	return a.planRepo.Clear(ctx)
}

// Staples returns the staple set.
func (a *App) Staples(ctx context.Context) (shopping.StapleSet, error) {
	return a.stateRepo.Staples(ctx)
}

// ToggleStaple flips name in the staple set and reports whether it is now a staple.
func (a *App) ToggleStaple(ctx context.Context, name string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	staples, err := a.stateRepo.Staples(ctx)
	if err != nil {
		return false, err
	}
	staples = staples.Toggle(name)
	if err := a.stateRepo.SaveStaples(ctx, staples); err != nil {
		return false, err
	}
	return staples.Contains(name), nil
}

// SetShowStaples stores whether staples are listed.
func (a *App) SetShowStaples(ctx context.Context, show bool) error {
	return a.stateRepo.SetShowStaples(ctx, show)
}

// ToggleChecked flips the checked state of name and reports the new state.
func (a *App) ToggleChecked(ctx context.Context, name string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	checked, err := a.stateRepo.Checked(ctx)
	if err != nil {
		return false, err
	}
	checked = shopping.ToggleChecked(checked, name)
	if err := a.stateRepo.SaveChecked(ctx, checked); err != nil {
		return false, err
	}
	return checked.Contains(name), nil
}

// ToggleHighIronFocus flips the focus flag and returns its new value.
func (a *App) ToggleHighIronFocus(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	focus, err := a.stateRepo.HighIronFocus(ctx)
	if err != nil {
		return false, err
	}
	if err := a.stateRepo.SetHighIronFocus(ctx, !focus); err != nil {
		return false, err
	}
	return !focus, nil
}

// ShoppingListView is a computed shopping list plus the context it was built from.
type ShoppingListView struct {
	Items       []shopping.AggregatedItem `json:"items"`
	MealCount   int                       `json:"mealCount"`
	ShowStaples bool                      `json:"showStaples"`
}

// Summary describes what the list was derived from.
func (v *ShoppingListView) Summary() string {
	return fmt.Sprintf("Based on %d meals (scaled to %d portions each)", v.MealCount, shopping.TargetPortions)
}

// ShoppingList recomputes the list from the current snapshot of catalog,
// plan, staples and check state.
func (a *App) ShoppingList(ctx context.Context) (*ShoppingListView, error) {
	start := time.Now()

	in, err := a.listInput(ctx)
	if err != nil {
		return nil, err
	}
	items, err := shopping.Build(in)
	if err != nil {
		var invalid *shopping.InvalidRecipeError
		if errors.As(err, &invalid) {
			a.logger.Error("catalog holds an invalid recipe",
				zap.String("recipe_id", invalid.RecipeID),
				zap.Int("servings", invalid.Servings),
				zap.Error(err))
		}
		return nil, err
	}

	a.record(ctx, metrics.Since(metrics.OpShoppingList, start, len(in.Catalog), len(items)))
	return &ShoppingListView{
		Items:       items,
		MealCount:   planner.MealCount(in.Plan),
		ShowStaples: in.ShowStaples,
	}, nil
}

// ExportChecklist renders the current list as a markdown checklist and keeps
// a copy in the export history.
func (a *App) ExportChecklist(ctx context.Context) (string, error) {
	start := time.Now()

	view, err := a.ShoppingList(ctx)
	if err != nil {
		return "", err
	}
	checklist := shopping.FormatAsChecklist(view.Items)
	if _, err := a.historyRepo.Save(ctx, view.Items, checklist); err != nil {
		return "", err
	}

	a.record(ctx, metrics.Since(metrics.OpExport, start, view.MealCount, len(view.Items)))
	return checklist, nil
}

// ExportHistory returns up to limit previous exports, newest first.
func (a *App) ExportHistory(ctx context.Context, limit int) ([]shopping.ShoppingList, error) {
	return a.historyRepo.List(ctx, limit)
}

// LastExport returns the most recent export, or nil if there is none.
func (a *App) LastExport(ctx context.Context) (*shopping.ShoppingList, error) {
	return a.historyRepo.Latest(ctx)
}

// RecipeCount returns the size of the catalog.
func (a *App) RecipeCount(ctx context.Context) (int, error) {
	return a.recipeRepo.Count(ctx)
}

func (a *App) listInput(ctx context.Context) (shopping.ListInput, error) {
	catalog, err := a.recipeRepo.List(ctx)
	if err != nil {
		return shopping.ListInput{}, err
	}
	plan, err := a.planRepo.Load(ctx)
	if err != nil {
		return shopping.ListInput{}, err
	}
	staples, err := a.stateRepo.Staples(ctx)
	if err != nil {
		return shopping.ListInput{}, err
	}
	show, err := a.stateRepo.ShowStaples(ctx)
	if err != nil {
		return shopping.ListInput{}, err
	}
	checked, err := a.stateRepo.Checked(ctx)
	if err != nil {
		return shopping.ListInput{}, err
	}
	return shopping.ListInput{
		Plan:        plan,
		Catalog:     catalog,
		Staples:     staples,
		ShowStaples: show,
		Checked:     checked,
	}, nil
}

func (a *App) record(ctx context.Context, m metrics.ExecutionMetric) {
	if err := a.metricsStore.Record(ctx, m); err != nil {
		a.logger.Warn("failed to record metric", zap.String("operation", m.Operation), zap.Error(err))
	}
}

// DailyActivity returns recorded activity for the last days days.
func (a *App) DailyActivity(ctx context.Context, days int) ([]metrics.DailyActivity, error) {
	return a.metricsStore.GetDailyActivity(ctx, days)
}

// CleanupMetrics drops metrics older than days days.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	n, err := a.metricsStore.Cleanup(ctx, days)
	if err != nil {
		return 0, err
	}
	a.logger.Info("metrics cleaned up", zap.Int64("deleted", n), zap.Int("older_than_days", days))
	return n, nil
}
