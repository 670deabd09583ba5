package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mealcraft/backend/config"
	httpDelivery "github.com/mealcraft/backend/internal/delivery/http"
	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/infrastructure/cache"
	"github.com/mealcraft/backend/internal/infrastructure/openai"
	"github.com/mealcraft/backend/internal/infrastructure/spoonacular"
	"github.com/mealcraft/backend/internal/logger"
	"github.com/mealcraft/backend/internal/usecase"
	"golang.org/x/sync/errgroup"
)

// cacheBackend is a CacheRepository that owns resources
type cacheBackend interface {
	domain.CacheRepository
	Close() error
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("mealcraft backend: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	appLogger.Info("starting MealCraft backend", map[string]interface{}{
		"version":     httpDelivery.Version,
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"cacheType":   cfg.Cache.Type,
		"cacheTTL":    cfg.Cache.TTL.String(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	cacheRepo, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer cacheRepo.Close()

	spoonacularClient := spoonacular.NewClient(spoonacular.Config{
		APIKey:          cfg.Spoonacular.APIKey,
		BaseURL:         cfg.Spoonacular.BaseURL,
		Timeout:         cfg.Spoonacular.Timeout,
		RequestsPerHour: cfg.RateLimit.Provider,
	}, appLogger)

	openaiClient := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	}, appLogger)

	if cfg.Spoonacular.APIKey == "" {
		appLogger.Warn("spoonacular api key not configured; /match and /nutrition will fail", nil)
	}
	if !openaiClient.Configured() {
		appLogger.Warn("openai api key not configured; /stt will fail", nil)
	}

	// Initialize usecase layer
	matchingService := usecase.NewMatchingService(usecase.MatchConfig{
		EnableDebugLogging: cfg.Server.Environment == "development",
	}, appLogger)
	recipeService := usecase.NewRecipeService(spoonacularClient, matchingService, appLogger)
	nutritionService := usecase.NewNutritionService(cacheRepo, spoonacularClient, usecase.NutritionServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	}, appLogger)
	transcriptionService := usecase.NewTranscriptionService(openaiClient, usecase.TranscriptionServiceConfig{
		TempDir:        cfg.OpenAI.TempDir,
		MaxUploadBytes: cfg.OpenAI.MaxUploadBytes,
	}, appLogger)

	handler := httpDelivery.NewHandler(recipeService, nutritionService, transcriptionService, appLogger)
	router := httpDelivery.SetupRouter(cfg, handler, appLogger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("shutting down", map[string]interface{}{"timeout": cfg.Server.ShutdownTimeout.String()})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.WithError(err).Error("server stopped with error", nil)
		return err
	}

	appLogger.Info("server stopped", nil)
	return nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cacheBackend, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, "mealcraft:")
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisCache, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}
