package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"meal-planner/internal/app"
	"meal-planner/internal/database"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	db, err := database.NewDB(database.MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zaptest.NewLogger(t)
	srv := httptest.NewServer(NewRouter(app.NewApp(db.SQL, nil, logger), opts, logger))
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path, body string) *http.Response {
	c.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPIWorkflow(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := &client{t: t, base: srv.URL}

	resp := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodPost, "/api/recipes", `{
		"title": "Beef Stir Fry", "prepTimeMinutes": 20, "servings": 4,
		"ingredientsText": "1 lb Beef\n2 tbsp Soy Sauce", "tags": ["High Iron"]
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var beef recipe.Recipe
	decodeBody(t, resp, &beef)
	require.Len(t, beef.Ingredients, 2)

	resp = c.do(http.MethodPost, "/api/recipes", `{
		"title": "Rice", "prepTimeMinutes": 10, "servings": 2,
		"ingredients": [{"name": "Rice", "quantity": 1, "unit": "cup"}]
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/recipes?filter=highIron", "")
	var filtered []recipe.Recipe
	decodeBody(t, resp, &filtered)
	require.Len(t, filtered, 1)
	assert.Equal(t, beef.ID, filtered[0].ID)

	for _, day := range []string{"Monday", "Wednesday"} {
		resp = c.do(http.MethodPost, "/api/plan/"+day, `{"recipeId": "`+beef.ID+`"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	var plan planner.MealPlan
	decodeBody(t, c.do(http.MethodGet, "/api/plan", ""), &plan)
	assert.Equal(t, planner.MealPlan{"Monday": {beef.ID}, "Wednesday": {beef.ID}}, plan)

	resp = c.do(http.MethodPost, "/api/staples/toggle", `{"name": "Soy Sauce"}`)
	var staple map[string]any
	decodeBody(t, resp, &staple)
	assert.Equal(t, true, staple["staple"])

	resp = c.do(http.MethodPost, "/api/shopping-list/check", `{"name": "beef"}`)
	var checked map[string]any
	decodeBody(t, resp, &checked)
	assert.Equal(t, true, checked["checked"])

	var list struct {
		Items []struct {
			Name     string  `json:"name"`
			Quantity float64 `json:"quantity"`
			Checked  bool    `json:"checked"`
		} `json:"items"`
		MealCount int    `json:"mealCount"`
		Summary   string `json:"summary"`
	}
	decodeBody(t, c.do(http.MethodGet, "/api/shopping-list", ""), &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Beef", list.Items[0].Name)
	assert.Equal(t, 2.0, list.Items[0].Quantity)
	assert.True(t, list.Items[0].Checked)
	assert.Equal(t, "Based on 2 meals (scaled to 4 portions each)", list.Summary)

	resp = c.do(http.MethodPut, "/api/staples/show", `{"show": true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = c.do(http.MethodGet, "/api/shopping-list/export", "")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "- [ ] 2 lb Beef\n- [ ] 4 tbsp Soy Sauce", string(body))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")

	resp = c.do(http.MethodDelete, "/api/plan/Monday/"+beef.ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = c.do(http.MethodDelete, "/api/plan/Monday/"+beef.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = c.do(http.MethodDelete, "/api/recipes/"+beef.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = c.do(http.MethodDelete, "/api/recipes/"+beef.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIErrors(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := &client{t: t, base: srv.URL}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"InvalidJSON", http.MethodPost, "/api/recipes", `{`, http.StatusBadRequest},
		{"ValidationError", http.MethodPost, "/api/recipes", `{"title":"x","prepTimeMinutes":5,"servings":0}`, http.StatusBadRequest},
		{"BadIngredientText", http.MethodPost, "/api/recipes", `{"title":"x","prepTimeMinutes":5,"servings":1,"ingredientsText":"1/2/3 cup Milk"}`, http.StatusBadRequest},
		{"PlanUnknownRecipe", http.MethodPost, "/api/plan/Monday", `{"recipeId":"nope"}`, http.StatusNotFound},
		{"CheckWithoutName", http.MethodPost, "/api/shopping-list/check", `{}`, http.StatusBadRequest},
		{"WrongMethod", http.MethodPut, "/api/recipes", ``, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAPIAuth(t *testing.T) {
	srv := newTestServer(t, Options{JWTSecret: testSecret})

	t.Run("MissingToken", func(t *testing.T) {
		c := &client{t: t, base: srv.URL}
		assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/plan", "").StatusCode)
		assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", "").StatusCode)
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := IssueToken(testSecret, "tester", time.Minute)
		require.NoError(t, err)
		c := &client{t: t, base: srv.URL, token: token}
		assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/plan", "").StatusCode)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := IssueToken("other", "tester", time.Minute)
		require.NoError(t, err)
		c := &client{t: t, base: srv.URL, token: token}
		assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/plan", "").StatusCode)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := IssueToken(testSecret, "tester", -time.Minute)
		require.NoError(t, err)
		c := &client{t: t, base: srv.URL, token: token}
		assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/plan", "").StatusCode)
	})

	t.Run("EmptySecret", func(t *testing.T) {
		_, err := IssueToken("", "tester", time.Minute)
		assert.Error(t, err)
	})
}

func TestWebhookMounted(t *testing.T) {
	called := false
	hook := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	srv := newTestServer(t, Options{JWTSecret: testSecret, Webhook: hook})
	c := &client{t: t, base: srv.URL}

	resp := c.do(http.MethodPost, "/webhook", `{}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, called)
}
