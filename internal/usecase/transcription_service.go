package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mealcraft/backend/internal/domain"
	"github.com/mealcraft/backend/internal/logger"
)

const defaultAudioSuffix = ".m4a"

// TranscriptionServiceConfig holds configuration for the transcription service
type TranscriptionServiceConfig struct {
	// TempDir is where uploads are spooled; empty means os.TempDir().
	TempDir        string
	MaxUploadBytes int64
}

// AudioUpload is an uploaded audio file awaiting transcription
type AudioUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// TranscriptionService forwards audio uploads to the transcription provider
type TranscriptionService struct {
	provider       domain.TranscriptionProvider
	tempDir        string
	maxUploadBytes int64
	logger         logger.Logger
}

// NewTranscriptionService creates a new transcription service with dependencies
func NewTranscriptionService(
	provider domain.TranscriptionProvider,
	config TranscriptionServiceConfig,
	log logger.Logger,
) *TranscriptionService {
	return &TranscriptionService{
		provider:       provider,
		tempDir:        config.TempDir,
		maxUploadBytes: config.MaxUploadBytes,
		logger:         log.WithFields(map[string]interface{}{"component": "transcription"}),
	}
}

// Transcribe spools the upload to a temp file and sends it to the provider.
// The temp file is removed on every return path.
func (s *TranscriptionService) Transcribe(ctx context.Context, upload AudioUpload) (*domain.Transcript, error) {
	if !s.provider.Configured() {
		return nil, domain.ErrMissingCredential
	}

	// An empty content type is accepted.
	if upload.ContentType != "" && !strings.HasPrefix(upload.ContentType, "audio/") {
		return nil, fmt.Errorf("%w: expected audio/* content-type, got %s", domain.ErrInvalidAudio, upload.ContentType)
	}
	if upload.Body == nil {
		return nil, fmt.Errorf("%w: audio file is required", domain.ErrInvalidRequest)
	}

	tmp, err := os.CreateTemp(s.tempDir, "stt-*"+audioSuffix(upload.Filename))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove temp audio file", map[string]interface{}{"path": tmpPath, "error": err.Error()})
		}
	}()

	body := upload.Body
	if s.maxUploadBytes > 0 {
		body = io.LimitReader(upload.Body, s.maxUploadBytes+1)
	}
	written, err := io.Copy(tmp, body)
	if err != nil {
		return nil, fmt.Errorf("spool audio upload: %w", err)
	}
	if s.maxUploadBytes > 0 && written > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: audio file exceeds %d bytes", domain.ErrInvalidRequest, s.maxUploadBytes)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind temp file: %w", err)
	}

	text, err := s.provider.Transcribe(ctx, filepath.Base(tmpPath), tmp)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transcription failed: %v", domain.ErrProviderFailure, err)
	}

	s.logger.Info("audio transcribed", map[string]interface{}{
		"bytes": written,
		"chars": len(text),
	})

	return &domain.Transcript{Text: strings.TrimSpace(text)}, nil
}

// audioSuffix keeps the upload's extension so the provider can infer the format
func audioSuffix(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		ext := filename[i+1:]
		if !strings.ContainsAny(ext, `/\`) {
			return "." + ext
		}
	}
	return defaultAudioSuffix
}
