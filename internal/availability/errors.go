package availability

import "errors"

var (
	ErrClientRequired  = errors.New("registry client is required")
	ErrLimiterRequired = errors.New("rate limiter is required")
)
