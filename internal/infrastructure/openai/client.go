package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/logger"
	"github.com/mealcraft/backend/internal/metrics"
)

const (
	providerName      = "openai"
	defaultModel      = "gpt-4o-mini-transcribe"
	defaultTimeout    = 60 * time.Second
	maxErrorBodyBytes = 1024
)

// Config holds the client settings
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client handles communication with the OpenAI audio transcription API
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	logger     logger.Logger
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// NewClient creates a new OpenAI API client
func NewClient(cfg Config, log logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      model,
		logger:     log.WithFields(map[string]interface{}{"provider": providerName}),
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Transcribe uploads audio and returns the transcript text as sent by the provider
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: openai API key is not set", domain.ErrMissingCredential)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", pr)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", "MealCraft/1.0")

	// The transport closes pr when the request ends, which unblocks the writer.
	go writeMultipart(pw, mw, c.model, filename, audio)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(providerName, "transcribe").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", c.fail(fmt.Errorf("%w: %v", domain.ErrProviderFailure, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", c.fail(fmt.Errorf("%w: status %d, body: %s", domain.ErrProviderFailure, resp.StatusCode, string(msg)))
	}

	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", c.fail(fmt.Errorf("%w: failed to decode response: %v", domain.ErrProviderFailure, err))
	}

	metrics.ProviderRequestsTotal.WithLabelValues(providerName, "transcribe", metrics.OutcomeSuccess).Inc()
	return out.Text, nil
}

// writeMultipart streams the form into pw so the audio is never buffered
// in memory.
func writeMultipart(pw *io.PipeWriter, mw *multipart.Writer, model, filename string, audio io.Reader) {
	err := func() error {
		if err := mw.WriteField("model", model); err != nil {
			return err
		}
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, audio); err != nil {
			return err
		}
		return mw.Close()
	}()
	pw.CloseWithError(err)
}

func (c *Client) fail(err error) error {
	metrics.ProviderRequestsTotal.WithLabelValues(providerName, "transcribe", metrics.OutcomeError).Inc()
	c.logger.Warn("provider request failed", map[string]interface{}{
		"operation": "transcribe",
		"error":     err.Error(),
	})
	return err
}
