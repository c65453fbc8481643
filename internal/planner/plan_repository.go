package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meal-planner/internal/planner/plan_db"
)

// PlanRepository is a database-backed store for the weekly meal plan.
type PlanRepository struct {
	queries *plan_db.Queries
	db      *sql.DB
	inTx    bool
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{
		queries: plan_db.New(d),
		db:      d,
	}
}

// WithTx returns a PlanRepository bound to tx. Replace then runs inside tx
// instead of opening its own transaction.
func (r *PlanRepository) WithTx(tx *sql.Tx) *PlanRepository {
	return &PlanRepository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
		inTx:    true,
	}
}

// Load returns the current plan. Entries keep the order they were added in.
func (r *PlanRepository) Load(ctx context.Context) (MealPlan, error) {
	entries, err := r.queries.ListMealPlanEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plan entries: %w", err)
	}

	plan := make(MealPlan)
	for _, e := range entries {
		plan[e.Day] = append(plan[e.Day], e.RecipeID)
	}
	return plan, nil
}

// Add plans recipeID on day.
func (r *PlanRepository) Add(ctx context.Context, day, recipeID string) error {
	err := r.queries.InsertMealPlanEntry(ctx, plan_db.InsertMealPlanEntryParams{
		Day:       day,
		RecipeID:  recipeID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to add recipe %s to %s: %w", recipeID, day, err)
	}
	return nil
}

// Remove drops the first occurrence of recipeID on day and reports whether
// anything was removed.
func (r *PlanRepository) Remove(ctx context.Context, day, recipeID string) (bool, error) {
	n, err := r.queries.DeleteFirstMealPlanEntry(ctx, plan_db.DeleteFirstMealPlanEntryParams{
		Day:      day,
		RecipeID: recipeID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove recipe %s from %s: %w", recipeID, day, err)
	}
	return n > 0, nil
}

// Clear removes every planned meal.
func (r *PlanRepository) Clear(ctx context.Context) error {
	if err := r.queries.DeleteAllMealPlanEntries(ctx); err != nil {
		return fmt.Errorf("failed to clear meal plan: %w", err)
	}
	return nil
}

// Replace swaps the stored plan for plan inside one transaction. Days are
// written in SortedDays order.
func (r *PlanRepository) Replace(ctx context.Context, plan MealPlan) error {
	if r.inTx {
		return replaceEntries(ctx, r.queries, plan)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceEntries(ctx, r.queries.WithTx(tx), plan); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceEntries(ctx context.Context, q *plan_db.Queries, plan MealPlan) error {
	if err := q.DeleteAllMealPlanEntries(ctx); err != nil {
		return fmt.Errorf("failed to clear meal plan: %w", err)
	}
	now := time.Now().UTC()
	for _, day := range SortedDays(plan) {
		for _, id := range plan[day] {
			if err := q.InsertMealPlanEntry(ctx, plan_db.InsertMealPlanEntryParams{
				Day:       day,
				RecipeID:  id,
				CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("failed to add recipe %s to %s: %w", id, day, err)
			}
		}
	}
	return nil
}
