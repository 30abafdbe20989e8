package service

import "errors"

// Error kinds surfaced by the chat services. Handlers match them with
// errors.Is; anything else is treated as a persistence failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrValidation   = errors.New("invalid input")
)
