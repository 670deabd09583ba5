package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/logger"
	"github.com/mealcraft/backend/internal/metrics"
	"golang.org/x/time/rate"
)

const (
	providerName = "spoonacular"

	// rankingMaximizeUsed asks the provider to rank by used ingredients
	// rather than by fewest missing ones.
	rankingMaximizeUsed = "1"

	defaultTimeout         = 20 * time.Second
	defaultRequestsPerHour = 1000
	limiterBurst           = 10
	maxErrorBodyBytes      = 1024
)

// Config holds the client settings
type Config struct {
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	RequestsPerHour int
}

// Client handles communication with the Spoonacular recipe API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      logger.Logger
}

// NewClient creates a new Spoonacular API client
func NewClient(cfg Config, log logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	perHour := cfg.RequestsPerHour
	if perHour <= 0 {
		perHour = defaultRequestsPerHour
	}

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(perHour)/3600), limiterBurst)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: limiter,
		logger:      log.WithFields(map[string]interface{}{"provider": providerName}),
	}
}

// FindByIngredients returns recipes that use the given ingredients, each
// annotated with used and missed ingredients. A single attempt is made.
func (c *Client) FindByIngredients(ctx context.Context, ingredients []string, number int) ([]domain.CandidateRecipe, error) {
	params := url.Values{}
	params.Set("ingredients", strings.Join(ingredients, ","))
	params.Set("number", strconv.Itoa(number))
	params.Set("ranking", rankingMaximizeUsed)
	params.Set("ignorePantry", "true")

	var recipes []domain.CandidateRecipe
	if err := c.getJSON(ctx, "findByIngredients", "/recipes/findByIngredients", params, &recipes); err != nil {
		return nil, err
	}

	c.logger.Debug("recipes found", map[string]interface{}{
		"ingredients": len(ingredients),
		"recipes":     len(recipes),
	})
	return recipes, nil
}

// GetNutritionWidget retrieves the nutrition summary for a recipe
func (c *Client) GetNutritionWidget(ctx context.Context, recipeID string) (*domain.NutritionWidget, error) {
	path := fmt.Sprintf("/recipes/%s/nutritionWidget.json", url.PathEscape(recipeID))

	var widget domain.NutritionWidget
	if err := c.getJSON(ctx, "nutritionWidget", path, url.Values{}, &widget); err != nil {
		return nil, err
	}
	return &widget, nil
}

// getJSON performs an authenticated, rate-limited GET and decodes the body into out
func (c *Client) getJSON(ctx context.Context, operation, path string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: spoonacular API key is not set", domain.ErrMissingCredential)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	params.Set("apiKey", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	start := time.Now()
	resp, err := c.doRequest(ctx, reqURL)
	metrics.ProviderRequestDuration.WithLabelValues(providerName, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		c.recordFailure(operation, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		err = fmt.Errorf("%w: status %d, body: %s", domain.ErrProviderFailure, resp.StatusCode, string(body))
		c.recordFailure(operation, err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("%w: failed to decode response: %v", domain.ErrProviderFailure, err)
		c.recordFailure(operation, err)
		return err
	}

	metrics.ProviderRequestsTotal.WithLabelValues(providerName, operation, metrics.OutcomeSuccess).Inc()
	return nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "MealCraft/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, redactKey(err.Error(), c.apiKey))
	}

	return resp, nil
}

func (c *Client) recordFailure(operation string, err error) {
	metrics.ProviderRequestsTotal.WithLabelValues(providerName, operation, metrics.OutcomeError).Inc()
	c.logger.Warn("provider request failed", map[string]interface{}{
		"operation": operation,
		"error":     err.Error(),
	})
}

// redactKey strips the API key from error text; url.Error includes the full URL.
func redactKey(msg, key string) string {
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, key, "REDACTED")
}
