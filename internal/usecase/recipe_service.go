package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/logger"
)

// RecipeService answers match requests: query provider -> rank -> return
type RecipeService struct {
	provider        domain.RecipeProvider
	matchingService *MatchingService
	logger          logger.Logger
}

// NewRecipeService creates a new recipe service with dependencies
func NewRecipeService(
	provider domain.RecipeProvider,
	matchingService *MatchingService,
	log logger.Logger,
) *RecipeService {
	return &RecipeService{
		provider:        provider,
		matchingService: matchingService,
		logger:          log.WithFields(map[string]interface{}{"component": "recipes"}),
	}
}

// MatchRecipes finds recipes for the pantry in the request. Any provider
// failure fails the whole request; there are no partial results.
func (s *RecipeService) MatchRecipes(ctx context.Context, request *domain.MatchRequest) (*domain.MatchResponse, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := validateMatchRequest(request); err != nil {
		return nil, err
	}
	request.Normalize()

	pantryNames := make([]string, len(request.Items))
	for i, item := range request.Items {
		pantryNames[i] = NormalizeName(item.Name)
	}

	candidates, err := s.provider.FindByIngredients(ctx, pantryNames, CandidateLimit)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	maxMissing := request.MaxMissingOrDefault()
	recipes := s.matchingService.Rank(request.Items, candidates, maxMissing, request.TimeLimitMinutes)

	s.logger.Info("recipes matched", map[string]interface{}{
		"pantryItems": len(request.Items),
		"candidates":  len(candidates),
		"returned":    len(recipes),
		"maxMissing":  maxMissing,
		"cuisine":     stringOrEmpty(request.Cuisine),
		"spiceLevel":  stringOrEmpty(request.SpiceLevel),
		"budgetMode":  request.BudgetMode,
	})

	return &domain.MatchResponse{Recipes: recipes}, nil
}

// validateMatchRequest enforces the invariants the scorer relies on. The HTTP
// layer checks the same rules with a JSON schema; this covers other callers.
func validateMatchRequest(request *domain.MatchRequest) error {
	for i, item := range request.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be positive", domain.ErrInvalidRequest, i)
		}
		switch item.Location {
		case "", domain.LocationPantry, domain.LocationFridge, domain.LocationFreezer:
		default:
			return fmt.Errorf("%w: items[%d].location %q is not one of pantry, fridge, freezer",
				domain.ErrInvalidRequest, i, item.Location)
		}
	}
	if request.MaxMissing != nil && *request.MaxMissing < 0 {
		return fmt.Errorf("%w: max_missing must not be negative", domain.ErrInvalidRequest)
	}
	if request.TimeLimitMinutes != nil && *request.TimeLimitMinutes < 0 {
		return fmt.Errorf("%w: time_limit_minutes must not be negative", domain.ErrInvalidRequest)
	}
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
