package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"meal-planner/internal/app"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"
)

// Service is the part of the app exposed over HTTP.
type Service interface {
	AddRecipe(ctx context.Context, in recipe.Input) (recipe.Recipe, error)
	ListRecipes(ctx context.Context, filter recipe.Filter) ([]recipe.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	MealPlan(ctx context.Context) (planner.MealPlan, error)
	PlanMeal(ctx context.Context, day, recipeID string) error
	UnplanMeal(ctx context.Context, day, recipeID string) (bool, error)
	ShoppingList(ctx context.Context) (*app.ShoppingListView, error)
	ExportChecklist(ctx context.Context) (string, error)
	ToggleChecked(ctx context.Context, name string) (bool, error)
	Staples(ctx context.Context) (shopping.StapleSet, error)
	ToggleStaple(ctx context.Context, name string) (bool, error)
	SetShowStaples(ctx context.Context, show bool) error
}

// Options configures the router.
type Options struct {
	// JWTSecret enables bearer-token auth on /api routes when set.
	JWTSecret string
	// Webhook, when set, is mounted at /webhook outside of auth.
	Webhook        http.Handler
	AllowedOrigins []string
}

type server struct {
	svc    Service
	logger *zap.Logger
}

// NewRouter builds the HTTP handler for the API.
func NewRouter(svc Service, opts Options, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &server{svc: svc, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	if opts.Webhook != nil {
		r.Handle("/webhook", opts.Webhook).Methods(http.MethodPost)
	}

	api := r.PathPrefix("/api").Subrouter()
	if opts.JWTSecret != "" {
		api.Use(authMiddleware(opts.JWTSecret))
	}
	api.HandleFunc("/recipes", s.listRecipes).Methods(http.MethodGet)
	api.HandleFunc("/recipes", s.createRecipe).Methods(http.MethodPost)
	api.HandleFunc("/recipes/{id}", s.deleteRecipe).Methods(http.MethodDelete)
	api.HandleFunc("/plan", s.getPlan).Methods(http.MethodGet)
	api.HandleFunc("/plan/{day}", s.planMeal).Methods(http.MethodPost)
	api.HandleFunc("/plan/{day}/{recipeID}", s.unplanMeal).Methods(http.MethodDelete)
	api.HandleFunc("/shopping-list", s.shoppingList).Methods(http.MethodGet)
	api.HandleFunc("/shopping-list/export", s.exportChecklist).Methods(http.MethodGet)
	api.HandleFunc("/shopping-list/check", s.toggleChecked).Methods(http.MethodPost)
	api.HandleFunc("/staples", s.listStaples).Methods(http.MethodGet)
	api.HandleFunc("/staples/toggle", s.toggleStaple).Methods(http.MethodPost)
	api.HandleFunc("/staples/show", s.showStaples).Methods(http.MethodPut)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return c.Handler(loggingMiddleware(logger)(r))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps domain errors to HTTP statuses.
func (s *server) fail(w http.ResponseWriter, err error) {
	var (
		verr    *recipe.ValidationError
		perr    *recipe.ParseError
		invalid *shopping.InvalidRecipeError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &perr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, recipe.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalid):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
