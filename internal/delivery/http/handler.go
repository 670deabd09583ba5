package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/logger"
	"github.com/mealcraft/backend/internal/usecase"
)

const serviceName = "mealcraft-backend"

// Version is reported by the health check. Overridden at build time with
// -ldflags "-X github.com/mealcraft/backend/internal/delivery/http.Version=..."
var Version = "0.1.0"

// RecipeMatcher ranks recipes for a pantry
type RecipeMatcher interface {
	MatchRecipes(ctx context.Context, request *domain.MatchRequest) (*domain.MatchResponse, error)
}

// NutritionLookup returns nutrition facts for a recipe
type NutritionLookup interface {
	GetNutrition(ctx context.Context, recipeID string) (*domain.NutritionFacts, error)
}

// Transcriber turns an audio upload into text
type Transcriber interface {
	Transcribe(ctx context.Context, upload usecase.AudioUpload) (*domain.Transcript, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recipes       RecipeMatcher
	nutrition     NutritionLookup
	transcription Transcriber
	logger        logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(recipes RecipeMatcher, nutrition NutritionLookup, transcription Transcriber, log logger.Logger) *Handler {
	return &Handler{
		recipes:       recipes,
		nutrition:     nutrition,
		transcription: transcription,
		logger:        log,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"service": serviceName,
		"version": Version,
	})
}

// MatchRecipes handles POST /api/v1/match
func (h *Handler) MatchRecipes(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.writeError(c, domain.ErrInvalidRequest)
		return
	}

	if err := validateMatchBody(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var request domain.MatchRequest
	if err := json.Unmarshal(body, &request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	response, err := h.recipes.MatchRecipes(c.Request.Context(), &request)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetNutrition handles GET /api/v1/nutrition/:recipeId
func (h *Handler) GetNutrition(c *gin.Context) {
	facts, err := h.nutrition.GetNutrition(c.Request.Context(), c.Param("recipeId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, facts)
}

// Transcribe handles POST /api/v1/stt with a multipart "file" field
func (h *Handler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.logger.Debug("upload rejected", map[string]interface{}{"limit": tooLarge.Limit})
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": bodyTooLargeMessage(tooLarge.Limit)})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	transcript, err := h.transcription.Transcribe(c.Request.Context(), usecase.AudioUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, transcript)
}

// writeError maps domain errors onto HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusForError(err)

	fields := map[string]interface{}{
		"path":   c.FullPath(),
		"status": status,
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("request failed", fields)
	} else {
		h.logger.WithError(err).Debug("request rejected", fields)
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidAudio):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		// Missing credentials and provider failures are server-side problems.
		return http.StatusInternalServerError
	}
}
