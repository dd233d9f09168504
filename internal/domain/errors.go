package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy (sentinels)
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrMalformedResponse   = errors.New("malformed provider response")
	ErrConfiguration       = errors.New("configuration error")
)

// ProviderError marks a failure of a single text-generation backend. It is
// the only error class that triggers inter-backend fallback; anything else
// signals a caller bug and propagates immediately.
type ProviderError struct {
	Provider string
	Err      error
}

// NewProviderError wraps err as a failure of the named provider.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err is (or wraps) a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
