package platform

import (
	"errors"
	"fmt"
)

// Common provider errors that can be checked with errors.Is.
var (
	// ErrNotFound is returned when a song, album, artist or playlist does not exist.
	ErrNotFound = errors.New("platform: resource not found")

	// ErrTransport marks network and HTTP status failures.
	ErrTransport = errors.New("platform: transport failure")

	// ErrResponseShape is returned when a payload is malformed or misses a required key.
	ErrResponseShape = errors.New("platform: unexpected response shape")

	// ErrUnsupported is returned when a provider does not implement a capability.
	ErrUnsupported = errors.New("platform: feature not supported")

	// ErrCategoryNotFound is returned when a playlist category has no provider-side id.
	ErrCategoryNotFound = errors.New("platform: category not found")

	// ErrUnavailableQuality is returned when no stream tier, including the default, exists.
	ErrUnavailableQuality = errors.New("platform: no stream available for quality")
)

// ProviderError wraps an error with the provider and resource it came from.
type ProviderError struct {
	// Provider is the provider name, e.g. "netease".
	Provider string

	// Resource is what was being accessed, e.g. "song" or "search".
	Resource string

	// ID identifies the resource, if any.
	ID string

	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s %s: %v", e.Provider, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Resource, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a ProviderError for a missing resource.
func NewNotFoundError(provider, resource, id string) error {
	return &ProviderError{Provider: provider, Resource: resource, ID: id, Err: ErrNotFound}
}

// NewTransportError wraps a transport failure. The cause stays reachable
// through errors.As.
func NewTransportError(provider, resource, id string, err error) error {
	return &ProviderError{Provider: provider, Resource: resource, ID: id, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
}

// NewShapeError wraps a decoding or missing-key failure.
func NewShapeError(provider, resource, id string, err error) error {
	return &ProviderError{Provider: provider, Resource: resource, ID: id, Err: fmt.Errorf("%w: %w", ErrResponseShape, err)}
}

// NewUnsupportedError creates a ProviderError for an unimplemented capability.
func NewUnsupportedError(provider, feature string) error {
	return &ProviderError{Provider: provider, Resource: feature, Err: ErrUnsupported}
}

// NewCategoryNotFoundError creates a ProviderError for an unknown playlist category.
func NewCategoryNotFoundError(provider, category string) error {
	return &ProviderError{Provider: provider, Resource: "category", ID: category, Err: ErrCategoryNotFound}
}

// NewUnavailableQualityError creates a ProviderError when no stream tier exists.
func NewUnavailableQualityError(provider, songID string, quality Quality) error {
	return &ProviderError{
		Provider: provider,
		Resource: "song",
		ID:       songID,
		Err:      fmt.Errorf("%w: %s", ErrUnavailableQuality, quality.String()),
	}
}
