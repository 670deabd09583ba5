package domain

import (
	"context"
	"io"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque bytes; callers own the encoding.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RecipeProvider defines the interface for the ingredient-search provider
type RecipeProvider interface {
	FindByIngredients(ctx context.Context, ingredients []string, number int) ([]CandidateRecipe, error)
}

// NutritionProvider defines the interface for the recipe nutrition provider
type NutritionProvider interface {
	GetNutritionWidget(ctx context.Context, recipeID string) (*NutritionWidget, error)
}

// TranscriptionProvider defines the interface for the speech-to-text provider
type TranscriptionProvider interface {
	Configured() bool
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}
