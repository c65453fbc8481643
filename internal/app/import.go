package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"meal-planner/internal/metrics"
	"meal-planner/internal/recipe"
)

// DecodeRecipes reads a single recipe object or an array of recipes.
func DecodeRecipes(data []byte) ([]recipe.Recipe, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty recipe document")
	}

	if data[0] == '[' {
		var recipes []recipe.Recipe
		if err := json.Unmarshal(data, &recipes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipes: %w", err)
		}
		return recipes, nil
	}

	var rec recipe.Recipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return []recipe.Recipe{rec}, nil
}

// ImportRecipes saves every decoded recipe. Recipes without an id get one
// derived from source and title, so re-importing a source updates in place.
// Invalid recipes are logged and skipped; the number saved is returned.
func (a *App) ImportRecipes(ctx context.Context, source string, data []byte) (int, error) {
	start := time.Now()

	recipes, err := DecodeRecipes(data)
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", source, err)
	}

	saved := 0
	for _, rec := range recipes {
		if rec.ID == "" {
			rec.ID = recipe.ImportID(source, rec.Title)
		}
		stored, err := a.SaveRecipe(ctx, rec)
		if err != nil {
			a.logger.Warn("skipping recipe",
				zap.String("source", source),
				zap.String("title", rec.Title),
				zap.Error(err))
			continue
		}
		a.logger.Info("recipe imported", zap.String("source", source), zap.String("id", stored.ID))
		saved++
	}

	a.record(ctx, metrics.Since(metrics.OpImport, start, saved, 0))
	return saved, nil
}

// ImportRecipeFile imports the recipes in a JSON file.
func (a *App) ImportRecipeFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return a.ImportRecipes(ctx, filepath.Base(path), data)
}
