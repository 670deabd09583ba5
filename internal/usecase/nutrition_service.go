package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/infrastructure/spoonacular"
	"github.com/mealcraft/backend/internal/logger"
	"github.com/mealcraft/backend/internal/metrics"
)

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	CacheTTL time.Duration
}

// NutritionService handles nutrition lookups with caching
type NutritionService struct {
	cache    domain.CacheRepository
	provider domain.NutritionProvider
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewNutritionService creates a new nutrition service with dependencies
func NewNutritionService(
	cache domain.CacheRepository,
	provider domain.NutritionProvider,
	config NutritionServiceConfig,
	log logger.Logger,
) *NutritionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &NutritionService{
		cache:    cache,
		provider: provider,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "nutrition"}),
	}
}

// GetNutrition looks up the nutrition summary for a recipe.
// Flow: check cache -> query provider -> parse magnitudes -> cache -> return
func (s *NutritionService) GetNutrition(ctx context.Context, recipeID string) (*domain.NutritionFacts, error) {
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return nil, fmt.Errorf("%w: recipe id is required", domain.ErrInvalidRequest)
	}

	cacheKey := nutritionCacheKey(recipeID)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	} else if errors.Is(err, domain.ErrCacheMiss) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		s.logger.Warn("cache read failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
	}

	widget, err := s.provider.GetNutritionWidget(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	facts := spoonacular.MapToNutritionFacts(recipeID, widget)

	// Caching is best effort; a cache outage must not fail the lookup.
	if err := s.setInCache(ctx, cacheKey, facts); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
	}

	return facts, nil
}

func nutritionCacheKey(recipeID string) string {
	return fmt.Sprintf("nutrition:%s", recipeID)
}

func (s *NutritionService) getFromCache(ctx context.Context, key string) (*domain.NutritionFacts, error) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var facts domain.NutritionFacts
	if err := json.Unmarshal(raw, &facts); err != nil {
		return nil, fmt.Errorf("decode cached nutrition: %w", err)
	}
	return &facts, nil
}

func (s *NutritionService) setInCache(ctx context.Context, key string, facts *domain.NutritionFacts) error {
	raw, err := json.Marshal(facts)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, s.cacheTTL)
}
