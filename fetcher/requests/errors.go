package requests

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError is returned when the caller input is malformed.
// It's raised before any request is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthenticationError is returned for 401 and 403 responses.
type AuthenticationError struct {
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("riot api rejected the credentials (status %d)", e.StatusCode)
}

// NotFoundError is returned for 404 responses.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "riot api resource not found"
	}
	return fmt.Sprintf("riot api %s not found", e.Resource)
}

// RateLimitError is returned for 429 responses.
type RateLimitError struct {
	RetryAfter    time.Duration
	HasRetryAfter bool
}

func (e *RateLimitError) Error() string {
	if e.HasRetryAfter {
		return fmt.Sprintf("riot api rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "riot api rate limit exceeded"
}

// ServerError is returned for any 5xx response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("riot api server error (status %d)", e.StatusCode)
}

// UnexpectedStatusError is returned for any other non 2xx response.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("riot api returned unexpected status %d", e.StatusCode)
}

// TimeoutError is returned when a single attempt exceeds the request timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("riot api request timed out after %s", e.Timeout)
}

// TransportError is returned when the connection itself failed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("riot api request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a 2xx body can't be parsed into the expected shape.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed riot api response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsRetryable tells if a failed attempt can be retried.
// Only ambiguous upstream faults are retried, explicit signals are surfaced.
func IsRetryable(err error) bool {
	var serverErr *ServerError
	var unexpectedErr *UnexpectedStatusError
	var timeoutErr *TimeoutError

	return errors.As(err, &serverErr) ||
		errors.As(err, &unexpectedErr) ||
		errors.As(err, &timeoutErr)
}

// IsNotFound tells if the error is a upstream not found.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// Messages that can be shown to end users.
const (
	MessageUnavailable = "service temporarily unavailable"
	MessageRateLimited = "too many requests, try again later"
	MessageNotFound    = "not found"
)

// PublicMessage returns a message safe to show to end users.
// Credentials and upstream bodies never leak through it.
func PublicMessage(err error) string {
	var validationErr *ValidationError
	var rateLimitErr *RateLimitError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case IsNotFound(err):
		return MessageNotFound
	case errors.As(err, &rateLimitErr):
		return MessageRateLimited
	default:
		return MessageUnavailable
	}
}
