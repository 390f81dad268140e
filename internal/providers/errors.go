package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates the prompt is empty or whitespace only.
	ErrInvalidRequest = errors.New("prompt is required")

	// ErrUnknownProvider indicates the name is not in the configured set.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrProviderFailure matches every *ProviderError.
	ErrProviderFailure = errors.New("provider failure")
)

// UnknownProviderError names the provider that was asked for.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %q", e.Name)
}

func (e *UnknownProviderError) Is(target error) bool {
	return target == ErrUnknownProvider
}

// ProviderError is a fault raised while calling one provider: transport
// errors, non-2xx statuses, in-band error payloads and unusable responses.
type ProviderError struct {
	Provider string
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderFailure
}

// StatusError represents a non-2xx response from a provider API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status: HTTP %d", e.Code)
	}
	return fmt.Sprintf("unexpected status: HTTP %d: %s", e.Code, e.Body)
}
