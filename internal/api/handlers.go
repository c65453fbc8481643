package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"meal-planner/internal/recipe"
)

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *server) listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.svc.ListRecipes(r.Context(), recipe.ParseFilter(r.URL.Query().Get("filter")))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

type createRecipeRequest struct {
	Title           string              `json:"title"`
	SourceURL       string              `json:"sourceUrl"`
	PrepTimeMinutes int                 `json:"prepTimeMinutes"`
	Servings        int                 `json:"servings"`
	Ingredients     []recipe.Ingredient `json:"ingredients"`
	// IngredientsText holds one free-text ingredient per line and is
	// appended after Ingredients.
	IngredientsText string            `json:"ingredientsText"`
	Tags            []string          `json:"tags"`
	Nutrition       *recipe.Nutrition `json:"nutrition"`
	ImageURL        string            `json:"imageUrl"`
}

func (s *server) createRecipe(w http.ResponseWriter, r *http.Request) {
	var req createRecipeRequest
	if !decode(w, r, &req) {
		return
	}
	ingredients := req.Ingredients
	if strings.TrimSpace(req.IngredientsText) != "" {
		parsed, err := recipe.ParseIngredients(req.IngredientsText)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ingredients = append(ingredients, parsed...)
	}

	rec, err := s.svc.AddRecipe(r.Context(), recipe.Input{
		Title:           req.Title,
		SourceURL:       req.SourceURL,
		PrepTimeMinutes: req.PrepTimeMinutes,
		Servings:        req.Servings,
		Ingredients:     ingredients,
		Tags:            req.Tags,
		Nutrition:       req.Nutrition,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRecipe(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) getPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.svc.MealPlan(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type planMealRequest struct {
	RecipeID string `json:"recipeId"`
}

func (s *server) planMeal(w http.ResponseWriter, r *http.Request) {
	var req planMealRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.PlanMeal(r.Context(), mux.Vars(r)["day"], req.RecipeID); err != nil {
		s.fail(w, err)
		return
	}
	s.getPlanWithStatus(w, r, http.StatusCreated)
}

func (s *server) unplanMeal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	removed, err := s.svc.UnplanMeal(r.Context(), vars["day"], vars["recipeID"])
	if err != nil {
		s.fail(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "recipe is not planned on "+vars["day"])
		return
	}
	s.getPlanWithStatus(w, r, http.StatusOK)
}

func (s *server) getPlanWithStatus(w http.ResponseWriter, r *http.Request, status int) {
	plan, err := s.svc.MealPlan(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, status, plan)
}

func (s *server) shoppingList(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.ShoppingList(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":       view.Items,
		"mealCount":   view.MealCount,
		"showStaples": view.ShowStaples,
		"summary":     view.Summary(),
	})
}

func (s *server) exportChecklist(w http.ResponseWriter, r *http.Request) {
	checklist, err := s.svc.ExportChecklist(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(checklist))
}

type nameRequest struct {
	Name string `json:"name"`
}

func (s *server) toggleChecked(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	checked, err := s.svc.ToggleChecked(r.Context(), req.Name)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": req.Name, "checked": checked})
}

func (s *server) listStaples(w http.ResponseWriter, r *http.Request) {
	staples, err := s.svc.Staples(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, staples.Slice())
}

func (s *server) toggleStaple(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	staple, err := s.svc.ToggleStaple(r.Context(), req.Name)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": req.Name, "staple": staple})
}

func (s *server) showStaples(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Show bool `json:"show"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.SetShowStaples(r.Context(), req.Show); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"show": req.Show})
}
