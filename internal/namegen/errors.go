package namegen

import "errors"

var (
	ErrAPIKeyRequired    = errors.New("API key is required")
	ErrEmptyDescription  = errors.New("description cannot be empty")
	ErrGenerationFailed  = errors.New("failed to generate names")
	ErrRateLimitExceeded = errors.New("generation rate limit exceeded")
	ErrGeneratorRequired = errors.New("generator is required")
	ErrCheckerRequired   = errors.New("domain checker is required")
)
