package parley

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, temporary network issues, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, insufficient permissions.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the user provided invalid input that must be corrected.
	// Examples: malformed request, invalid parameters, unknown model.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool           // convenience: returns true if Category == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// APIError is a categorized vendor/API error. It preserves the HTTP
// status code and raw response body so the rendering layer can format a
// message even when the payload cannot be parsed.
type APIError struct {
	Provider   string
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	Body       string        // raw response body, empty if unavailable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error         // underlying error
}

// Error returns the error message.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *APIError) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *APIError) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *APIError) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *APIError) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *APIError {
	return &APIError{
		Msg:   msg,
		Cat:   ErrorTransient,
		Code:  statusCode,
		Cause: cause,
	}
}

// NewTransientErrorWithRetry creates a transient error with a suggested retry delay.
func NewTransientErrorWithRetry(msg string, statusCode int, retryAfter time.Duration, cause error) *APIError {
	return &APIError{
		Msg:        msg,
		Cat:        ErrorTransient,
		Code:       statusCode,
		RetryDelay: retryAfter,
		Cause:      cause,
	}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *APIError {
	return &APIError{
		Msg:   msg,
		Cat:   ErrorPermanent,
		Code:  statusCode,
		Cause: cause,
	}
}

// NewUserInputError creates an error indicating invalid user input.
func NewUserInputError(msg string, statusCode int, cause error) *APIError {
	return &APIError{
		Msg:   msg,
		Cat:   ErrorUserInput,
		Code:  statusCode,
		Cause: cause,
	}
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
// It checks if the error or any wrapped error implements CategorizedError.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}

// CredentialError is returned when the environment credential for a
// provider is absent. It is never retried.
type CredentialError struct {
	// Provider is the short provider name.
	Provider string
	// DisplayName is the human-readable provider label.
	DisplayName string
	// EnvKey is the primary credential variable.
	EnvKey string
	// AltEnvKeys are the accepted alternates, if any.
	AltEnvKeys []string
}

// Error returns the message with remediation text naming the variable to set.
func (e *CredentialError) Error() string {
	if len(e.AltEnvKeys) > 0 {
		return fmt.Sprintf("%s: no API key configured: set %s (or %s)",
			e.DisplayName, e.EnvKey, strings.Join(e.AltEnvKeys, ", "))
	}
	return fmt.Sprintf("%s: no API key configured: set %s", e.DisplayName, e.EnvKey)
}

// NotFoundError is returned when a requested provider name is not registered.
type NotFoundError struct {
	// Name is the provider name that was requested.
	Name string
	// Known lists the registered provider names in registration order.
	Known []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown provider %q (valid providers: %s)",
		e.Name, strings.Join(e.Known, ", "))
}

// ModelNotFoundError is returned when a requested model id is not known
// to a provider's catalog. A vendor-side "model does not exist" response
// surfaces as an APIError instead.
type ModelNotFoundError struct {
	Provider string
	Model    string
	Known    []string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("%s: unknown model %q (known models: %s)",
		e.Provider, e.Model, strings.Join(e.Known, ", "))
}

// NoProviderError is returned when no registered provider has
// credentials configured. It is a configuration problem for the user,
// not a crash.
type NoProviderError struct {
	// EnvKeys lists the primary credential variable of each provider.
	EnvKeys []string
}

func (e *NoProviderError) Error() string {
	return fmt.Sprintf("no provider available: set one of %s",
		strings.Join(e.EnvKeys, ", "))
}
