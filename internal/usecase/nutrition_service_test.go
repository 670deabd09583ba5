package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/logger"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string][]byte
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockNutritionProvider is a mock implementation of domain.NutritionProvider
type MockNutritionProvider struct {
	widget *domain.NutritionWidget
	err    error
	calls  int
}

func (m *MockNutritionProvider) GetNutritionWidget(ctx context.Context, recipeID string) (*domain.NutritionWidget, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.widget, nil
}

func TestNewNutritionService(t *testing.T) {
	svc := NewNutritionService(NewMockCacheRepository(), &MockNutritionProvider{}, NutritionServiceConfig{}, logger.NewNoOpLogger())
	if svc == nil {
		t.Fatal("NewNutritionService returned nil")
	}
	if svc.cacheTTL != 24*time.Hour {
		t.Errorf("default cacheTTL = %v, want 24h", svc.cacheTTL)
	}
}

func TestGetNutrition(t *testing.T) {
	widget := &domain.NutritionWidget{Calories: "543k", Carbs: "61g", Fat: "22g", Protein: "27g"}

	tests := []struct {
		name          string
		recipeID      string
		providerErr   error
		cacheGetErr   error
		cacheSetErr   error
		wantErr       error
		wantCalories  float64
		wantCacheSet  bool
		wantProviders int
	}{
		{
			name:          "provider success is cached",
			recipeID:      "641803",
			wantCalories:  543,
			wantCacheSet:  true,
			wantProviders: 1,
		},
		{
			name:          "trims id",
			recipeID:      "  641803 ",
			wantCalories:  543,
			wantCacheSet:  true,
			wantProviders: 1,
		},
		{
			name:          "cache write failure is tolerated",
			recipeID:      "641803",
			cacheSetErr:   domain.ErrCacheUnavailable,
			wantCalories:  543,
			wantCacheSet:  true,
			wantProviders: 1,
		},
		{
			name:          "cache read failure falls through to provider",
			recipeID:      "641803",
			cacheGetErr:   domain.ErrCacheUnavailable,
			wantCalories:  543,
			wantCacheSet:  true,
			wantProviders: 1,
		},
		{
			name:     "empty id",
			recipeID: "  ",
			wantErr:  domain.ErrInvalidRequest,
		},
		{
			name:          "missing credential",
			recipeID:      "1",
			providerErr:   domain.ErrMissingCredential,
			wantErr:       domain.ErrMissingCredential,
			wantProviders: 1,
		},
		{
			name:          "provider status error",
			recipeID:      "1",
			providerErr:   fmt.Errorf("%w: status 404, body: not found", domain.ErrProviderFailure),
			wantErr:       domain.ErrProviderFailure,
			wantProviders: 1,
		},
		{
			name:          "provider failure",
			recipeID:      "1",
			providerErr:   errors.New("connection reset"),
			wantErr:       domain.ErrProviderFailure,
			wantProviders: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewMockCacheRepository()
			cache.getError = tt.cacheGetErr
			cache.setError = tt.cacheSetErr
			provider := &MockNutritionProvider{widget: widget, err: tt.providerErr}

			svc := NewNutritionService(cache, provider, NutritionServiceConfig{CacheTTL: time.Hour}, logger.NewTestLogger(t))

			facts, err := svc.GetNutrition(context.Background(), tt.recipeID)

			if provider.calls != tt.wantProviders {
				t.Errorf("provider calls = %d, want %d", provider.calls, tt.wantProviders)
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetNutrition() error = %v, want %v", err, tt.wantErr)
				}
				if cache.setCalled {
					t.Error("failed lookups must not be cached")
				}
				return
			}

			if err != nil {
				t.Fatalf("GetNutrition() error = %v", err)
			}
			if facts.RecipeID != "641803" {
				t.Errorf("RecipeID = %q, want 641803", facts.RecipeID)
			}
			if facts.Calories == nil || *facts.Calories != tt.wantCalories {
				t.Errorf("Calories = %v, want %v", facts.Calories, tt.wantCalories)
			}
			if cache.setCalled != tt.wantCacheSet {
				t.Errorf("cache set called = %v, want %v", cache.setCalled, tt.wantCacheSet)
			}
			if tt.wantCacheSet && cache.lastTTL != time.Hour {
				t.Errorf("cache TTL = %v, want 1h", cache.lastTTL)
			}
		})
	}
}

func TestGetNutrition_CacheHitSkipsProvider(t *testing.T) {
	cache := NewMockCacheRepository()
	cache.data["nutrition:99"] = []byte(`{"recipe_id":"99","calories":300,"protein_g":null,"carbs_g":40,"fat_g":10}`)
	provider := &MockNutritionProvider{err: errors.New("should not be called")}

	svc := NewNutritionService(cache, provider, NutritionServiceConfig{}, logger.NewTestLogger(t))

	facts, err := svc.GetNutrition(context.Background(), "99")
	if err != nil {
		t.Fatalf("GetNutrition() error = %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times on cache hit", provider.calls)
	}
	if facts.Calories == nil || *facts.Calories != 300 {
		t.Errorf("Calories = %v, want 300", facts.Calories)
	}
	if facts.ProteinG != nil {
		t.Errorf("ProteinG = %v, want nil", *facts.ProteinG)
	}
}

func TestGetNutrition_SecondLookupServedFromCache(t *testing.T) {
	cache := NewMockCacheRepository()
	provider := &MockNutritionProvider{widget: &domain.NutritionWidget{Calories: "100", Protein: "5g"}}
	svc := NewNutritionService(cache, provider, NutritionServiceConfig{}, logger.NewTestLogger(t))

	for i := 0; i < 3; i++ {
		if _, err := svc.GetNutrition(context.Background(), "5"); err != nil {
			t.Fatalf("GetNutrition() #%d error = %v", i, err)
		}
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}

func TestNutritionCacheKey(t *testing.T) {
	if got := nutritionCacheKey("641803"); got != "nutrition:641803" {
		t.Errorf("nutritionCacheKey() = %q", got)
	}
}
