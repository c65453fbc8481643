package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	db "meal-planner/internal/recipe/db"
)

// Repository is a database-backed recipe catalog.
type Repository struct {
	queries *db.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: db.New(d),
		db:      d,
	}
}

// WithTx returns a Repository bound to tx.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
	}
}

// Save inserts or replaces a recipe.
func (r *Repository) Save(ctx context.Context, rec Recipe) error {
	if rec.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	recipeJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	now := time.Now().UTC()
	if err := r.queries.InsertRecipe(ctx, db.InsertRecipeParams{
		ID:        rec.ID,
		Data:      string(recipeJSON),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a recipe by its ID. A missing recipe yields nil, nil.
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	dbRecipe, err := r.queries.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(dbRecipe.Data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &rec, nil
}

// List returns the whole catalog in insertion order.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	dbRecipes, err := r.queries.ListAllRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]Recipe, 0, len(dbRecipes))
	for _, dbRec := range dbRecipes {
		var rec Recipe
		if err := json.Unmarshal([]byte(dbRec.Data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe JSON for ID %s: %w", dbRec.ID, err)
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

// Delete removes a recipe. Meal plan entries pointing at it are left alone.
func (r *Repository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteRecipe(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to delete recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of recipes in the database.
func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return int(count), nil
}
