package spoonacular

import (
	"strconv"
	"strings"

	"github.com/mealcraft/backend/internal/domain"
)

// MapToNutritionFacts converts the provider nutrition widget to our domain model
func MapToNutritionFacts(recipeID string, widget *domain.NutritionWidget) *domain.NutritionFacts {
	facts := &domain.NutritionFacts{RecipeID: recipeID}
	if widget == nil {
		return facts
	}

	facts.Calories = ParseMagnitude(widget.Calories)
	facts.ProteinG = ParseMagnitude(widget.Protein)
	facts.CarbsG = ParseMagnitude(widget.Carbs)
	facts.FatG = ParseMagnitude(widget.Fat)
	return facts
}

// ParseMagnitude extracts the number from a "<number><unit>" string by
// dropping every character that is not a digit or '.': "543kcal" -> 543,
// "12g" -> 12. Returns nil for empty or unparseable input.
func ParseMagnitude(s string) *float64 {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return nil
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}
	return &v
}
