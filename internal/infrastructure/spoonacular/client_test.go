package spoonacular

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL, apiKey string) *Client {
	return NewClient(Config{
		APIKey:          apiKey,
		BaseURL:         baseURL,
		Timeout:         2 * time.Second,
		RequestsPerHour: 3600 * 100,
	}, logger.NewTestLogger(t))
}

func TestNewClient(t *testing.T) {
	client := NewClient(Config{APIKey: "test-api-key", BaseURL: "https://api.example.com/"}, logger.NewNoOpLogger())

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, limiterBurst, client.rateLimiter.Burst())
}

func TestFindByIngredients_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/findByIngredients", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-api-key", q.Get("apiKey"))
		assert.Equal(t, "tomato,red onion", q.Get("ingredients"))
		assert.Equal(t, "25", q.Get("number"))
		assert.Equal(t, "1", q.Get("ranking"))
		assert.Equal(t, "true", q.Get("ignorePantry"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 641803, "title": "Easy Tomato Salad", "image": "https://img/641803.jpg",
			 "usedIngredients": [{"id": 11529, "name": "tomatoes"}],
			 "missedIngredients": [{"id": 2047, "name": "Sea Salt"}],
			 "readyInMinutes": 15},
			{"id": 12, "title": "Onion Soup", "usedIngredients": [], "missedIngredients": []}
		]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "test-api-key")
	recipes, err := client.FindByIngredients(context.Background(), []string{"tomato", "red onion"}, 25)

	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, int64(641803), recipes[0].ID)
	assert.Equal(t, "Easy Tomato Salad", recipes[0].Title)
	assert.Equal(t, "tomatoes", recipes[0].UsedIngredients[0].Name)
	assert.Equal(t, "Sea Salt", recipes[0].MissedIngredients[0].Name)
	require.NotNil(t, recipes[0].ReadyInMinutes)
	assert.Equal(t, 15, *recipes[0].ReadyInMinutes)
	assert.Nil(t, recipes[1].ReadyInMinutes)
}

func TestFindByIngredients_MissingAPIKey(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")
	_, err := client.FindByIngredients(context.Background(), []string{"tomato"}, 25)

	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.Zero(t, atomic.LoadInt32(&calls), "no request should be sent without a key")
}

func TestFindByIngredients_ServerErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"status":"failure","message":"daily points limit reached"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "test-api-key")
	_, err := client.FindByIngredients(context.Background(), []string{"tomato"}, 25)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
	assert.Contains(t, err.Error(), "402")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFindByIngredients_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "test-api-key")
	_, err := client.FindByIngredients(context.Background(), []string{"tomato"}, 25)

	assert.ErrorIs(t, err, domain.ErrProviderFailure)
}

func TestFindByIngredients_TransportErrorRedactsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := newTestClient(t, baseURL, "secret-key-123")
	_, err := client.FindByIngredients(context.Background(), []string{"tomato"}, 25)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
	assert.NotContains(t, err.Error(), "secret-key-123")
}

func TestFindByIngredients_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "test-api-key")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.FindByIngredients(ctx, []string{"tomato"}, 25)
	assert.Error(t, err)
}

func TestGetNutritionWidget_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/641803/nutritionWidget.json", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("apiKey"))

		json.NewEncoder(w).Encode(map[string]string{
			"calories": "543kcal",
			"carbs":    "45g",
			"fat":      "21g",
			"protein":  "12g",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "test-api-key")
	widget, err := client.GetNutritionWidget(context.Background(), "641803")

	require.NoError(t, err)
	assert.Equal(t, "543kcal", widget.Calories)
	assert.Equal(t, "45g", widget.Carbs)
	assert.Equal(t, "21g", widget.Fat)
	assert.Equal(t, "12g", widget.Protein)
}

func TestGetNutritionWidget_EscapesRecipeID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.EscapedPath(), "/recipes/a%2Fb/"), r.URL.EscapedPath())
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "test-api-key")
	_, err := client.GetNutritionWidget(context.Background(), "a/b")
	require.NoError(t, err)
}

func TestGetNutritionWidget_NotFoundIsProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "test-api-key")
	_, err := client.GetNutritionWidget(context.Background(), "999")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
	assert.Contains(t, err.Error(), "status 404")
}

func TestRedactKey(t *testing.T) {
	assert.Equal(t, "GET /x?apiKey=REDACTED", redactKey("GET /x?apiKey=abc", "abc"))
	assert.Equal(t, "unchanged", redactKey("unchanged", ""))
}
