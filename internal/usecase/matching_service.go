package usecase

import (
	"sort"
	"strconv"
	"time"

	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/logger"
	"github.com/mealcraft/backend/internal/metrics"
)

// Score weights
const (
	baseScore          = 100.0
	missingPenalty     = 35.0 // per missing ingredient
	usedBonus          = 2.0  // per used ingredient
	urgencyWeight      = 15.0 // times the summed urgency of used ingredients
	overtimePenaltyMin = 0.5  // per minute over the time limit
)

const (
	// CandidateLimit is how many recipes are requested from the provider
	CandidateLimit = 25
	// MaxResults is how many ranked recipes are returned
	MaxResults = 15

	untitledRecipe = "Untitled"
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	// Clock supplies "today" for expiry urgency. Defaults to time.Now.
	Clock              func() time.Time
	EnableDebugLogging bool
}

// MatchingService ranks provider recipes against a pantry
type MatchingService struct {
	now                func() time.Time
	enableDebugLogging bool
	logger             logger.Logger
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig, log logger.Logger) *MatchingService {
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &MatchingService{
		now:                clock,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             log.WithFields(map[string]interface{}{"component": "matching"}),
	}
}

// UrgencyByName computes one urgency per pantry item keyed by normalized name.
// When two items normalize to the same name the later item wins.
func (s *MatchingService) UrgencyByName(items []domain.PantryItem) map[string]float64 {
	today := s.now()
	urgency := make(map[string]float64, len(items))
	for _, item := range items {
		urgency[NormalizeName(item.Name)] = ExpiryUrgency(item.ExpiryDate, today)
	}
	return urgency
}

// Rank scores every candidate, drops those missing more than maxMissing
// ingredients, and returns the best MaxResults sorted by descending score.
// Equal scores keep the provider's order. The result is never nil.
func (s *MatchingService) Rank(
	items []domain.PantryItem,
	candidates []domain.CandidateRecipe,
	maxMissing int,
	timeLimitMinutes *int,
) []domain.ScoredRecipe {
	urgency := s.UrgencyByName(items)

	recipes := make([]domain.ScoredRecipe, 0, len(candidates))
	for _, c := range candidates {
		used := NormalizeNames(ingredientNames(c.UsedIngredients))
		missed := NormalizeNames(ingredientNames(c.MissedIngredients))

		if len(missed) > maxMissing {
			metrics.CandidatesTotal.WithLabelValues("filtered").Inc()
			if s.enableDebugLogging {
				s.logger.Debug("candidate filtered", map[string]interface{}{
					"recipeId": c.ID,
					"missing":  len(missed),
				})
			}
			continue
		}

		score := ScoreRecipe(used, missed, urgency, c.ReadyInMinutes, timeLimitMinutes)
		if s.enableDebugLogging {
			s.logger.Debug("candidate scored", map[string]interface{}{
				"recipeId": c.ID,
				"used":     used,
				"missed":   missed,
				"score":    score,
			})
		}

		recipes = append(recipes, toScoredRecipe(c, used, missed, score))
	}

	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].MatchScore > recipes[j].MatchScore
	})

	if len(recipes) > MaxResults {
		metrics.CandidatesTotal.WithLabelValues("truncated").Add(float64(len(recipes) - MaxResults))
		recipes = recipes[:MaxResults]
	}
	metrics.CandidatesTotal.WithLabelValues("kept").Add(float64(len(recipes)))

	return recipes
}

// ScoreRecipe computes the composite match score:
//
//	100 - 35*|missed| + 2*|used| + 15*sum(urgency[u] for u in used) - overtime
//
// where overtime is 0.5 per minute that readyIn exceeds timeLimit, applied only
// when both are present and non-zero. The score is not clamped.
func ScoreRecipe(
	used, missed []string,
	urgencyByName map[string]float64,
	readyInMinutes, timeLimitMinutes *int,
) float64 {
	score := baseScore - missingPenalty*float64(len(missed))
	score += usedBonus * float64(len(used))

	var urgencySum float64
	for _, u := range used {
		urgencySum += urgencyByName[u]
	}
	score += urgencyWeight * urgencySum

	if readyInMinutes != nil && timeLimitMinutes != nil &&
		*readyInMinutes != 0 && *timeLimitMinutes != 0 &&
		*readyInMinutes > *timeLimitMinutes {
		score -= overtimePenaltyMin * float64(*readyInMinutes-*timeLimitMinutes)
	}

	return score
}

func ingredientNames(ingredients []domain.ProviderIngredient) []string {
	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = ing.Name
	}
	return names
}

func toScoredRecipe(c domain.CandidateRecipe, used, missed []string, score float64) domain.ScoredRecipe {
	title := c.Title
	if title == "" {
		title = untitledRecipe
	}

	var image *string
	if c.Image != "" {
		img := c.Image
		image = &img
	}

	return domain.ScoredRecipe{
		ID:                 strconv.FormatInt(c.ID, 10),
		Title:              title,
		Image:              image,
		UsedIngredients:    used,
		MissingIngredients: missed,
		MatchScore:         score,
		ReadyInMinutes:     c.ReadyInMinutes,
		Source:             domain.RecipeSourceSpoonacular,
	}
}
