package ai

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned when the selected provider has no key.
var ErrNoAPIKey = errors.New("API key not found")

// VendorError represents a failed call to a provider endpoint.
type VendorError struct {
	Provider   string
	StatusCode int // zero when no HTTP response was received
	Err        error
}

func (e *VendorError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *VendorError) Unwrap() error {
	return e.Err
}

// ParseError represents a provider response that is not the expected JSON object.
type ParseError struct {
	Provider string
	Response string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response as JSON: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
