package planning

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoRecord is returned by a Store when no persisted record matches a lookup.
	ErrNoRecord = errors.New("no matching record")

	// ErrProviderNotConfigured is returned when a provider is missing its credentials.
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// NotConfiguredError means a provider cannot be called for lack of
// credentials or endpoints. It matches ErrProviderNotConfigured.
type NotConfiguredError struct {
	Detail string
}

func (e *NotConfiguredError) Error() string {
	return e.Detail
}

func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrProviderNotConfigured
}

// NotFoundError means the upstream answered successfully with no result.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string {
	return e.Detail
}

// UpstreamError means a provider call failed. Status is what callers should
// surface; UpstreamStatus is what the provider returned, zero when the
// request never got a response.
type UpstreamError struct {
	Provider       string
	UpstreamStatus int
	Status         int
	Detail         string
	Err            error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Detail, e.UpstreamStatus)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError builds an UpstreamError that forwards the provider status.
func NewUpstreamError(provider string, status int, detail string) *UpstreamError {
	return &UpstreamError{
		Provider:       provider,
		UpstreamStatus: status,
		Status:         status,
		Detail:         detail,
	}
}

// NewTransportError builds an UpstreamError for a request that got no response.
func NewTransportError(provider, detail string, err error) *UpstreamError {
	return &UpstreamError{
		Provider: provider,
		Status:   http.StatusBadGateway,
		Detail:   detail,
		Err:      err,
	}
}

// AuthError means no bearer credential could be obtained.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token exchange failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
