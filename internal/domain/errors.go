package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidAudio is returned when an upload is not an audio file
	ErrInvalidAudio = errors.New("expected audio content")

	// ErrMissingCredential is returned when a provider API key is not configured
	ErrMissingCredential = errors.New("provider credential not configured")

	// ErrProviderFailure is returned when an external provider request fails
	ErrProviderFailure = errors.New("provider request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
