package integration

import (
	"errors"
	"fmt"
	"net/http"
)

// ---------------------------------------------------------------------------
// Sentinel Errors
// ---------------------------------------------------------------------------

var (
	// ErrNotConfigured is returned when a required credential is empty
	ErrNotConfigured = errors.New("integration: provider not configured")
	// ErrProviderUnavailable is returned when the provider cannot be reached
	ErrProviderUnavailable = errors.New("integration: provider unavailable")
	// ErrRequestFailed is returned when the provider answers with a non-2xx status
	ErrRequestFailed = errors.New("integration: provider request failed")
	// ErrInvalidResponse is returned when the provider body cannot be decoded
	ErrInvalidResponse = errors.New("integration: invalid provider response")
	// ErrProviderRejected is returned when the provider answers 2xx but reports a failure in the body
	ErrProviderRejected = errors.New("integration: provider rejected request")
	// ErrNotImplemented is returned by adapters that have no live API wiring
	ErrNotImplemented = errors.New("integration: provider not wired")
	// ErrInvalidPlatform is returned for an unknown platform code
	ErrInvalidPlatform = errors.New("integration: invalid platform code")
	// ErrAdapterNotRegistered is returned when no adapter exists for a platform
	ErrAdapterNotRegistered = errors.New("integration: adapter not registered")
	// ErrInvalidRequest is returned when caller input fails validation
	ErrInvalidRequest = errors.New("integration: invalid request")
)

// ---------------------------------------------------------------------------
// Error Taxonomy
// ---------------------------------------------------------------------------

// ErrorKind classifies an integration failure
type ErrorKind string

const (
	// ErrorKindConfiguration means required credentials are missing; no request was sent
	ErrorKindConfiguration ErrorKind = "CONFIGURATION"
	// ErrorKindTransport means a network failure or a non-2xx response
	ErrorKindTransport ErrorKind = "TRANSPORT"
	// ErrorKindProviderLogic means a 2xx response whose body reports failure
	ErrorKindProviderLogic ErrorKind = "PROVIDER_LOGIC"
	// ErrorKindNotImplemented means the provider has no live wiring
	ErrorKindNotImplemented ErrorKind = "NOT_IMPLEMENTED"
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	return string(k)
}

// IntegrationError is the error type returned by every provider adapter.
// Message carries the provider's own error text when there is one.
type IntegrationError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Message    string
	sentinel   error
	cause      error
}

// Error implements error
func (e *IntegrationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.cause)
	}
	if e.sentinel != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.sentinel)
	}
	return e.Provider + ": " + string(e.Kind)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As
func (e *IntegrationError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.sentinel != nil {
		errs = append(errs, e.sentinel)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// NewConfigurationError reports missing credentials for a provider
func NewConfigurationError(provider string, missing []string) *IntegrationError {
	msg := provider + " credentials not configured"
	if len(missing) > 0 {
		msg = fmt.Sprintf("%s (missing: %v)", msg, missing)
	}
	return &IntegrationError{
		Provider: provider,
		Kind:     ErrorKindConfiguration,
		Message:  msg,
		sentinel: ErrNotConfigured,
	}
}

// NewTransportError reports a network level failure
func NewTransportError(provider string, cause error) *IntegrationError {
	return &IntegrationError{
		Provider: provider,
		Kind:     ErrorKindTransport,
		Message:  fmt.Sprintf("%s API error: %v", provider, cause),
		sentinel: ErrProviderUnavailable,
		cause:    cause,
	}
}

// NewHTTPStatusError reports a non-2xx response. body is the provider's raw error text.
func NewHTTPStatusError(provider string, statusCode int, body string) *IntegrationError {
	text := body
	if text == "" {
		text = http.StatusText(statusCode)
	}
	return &IntegrationError{
		Provider:   provider,
		Kind:       ErrorKindTransport,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("%s API error: %s", provider, text),
		sentinel:   ErrRequestFailed,
	}
}

// NewInvalidResponseError reports a body that could not be decoded
func NewInvalidResponseError(provider string, cause error) *IntegrationError {
	return &IntegrationError{
		Provider: provider,
		Kind:     ErrorKindProviderLogic,
		Message:  fmt.Sprintf("%s API error: invalid response: %v", provider, cause),
		sentinel: ErrInvalidResponse,
		cause:    cause,
	}
}

// NewProviderLogicError reports a failure the provider signalled inside a 2xx body
func NewProviderLogicError(provider, message string) *IntegrationError {
	return &IntegrationError{
		Provider: provider,
		Kind:     ErrorKindProviderLogic,
		Message:  message,
		sentinel: ErrProviderRejected,
	}
}

// NewNotImplementedError reports a provider with no live wiring
func NewNotImplementedError(provider string) *IntegrationError {
	return &IntegrationError{
		Provider: provider,
		Kind:     ErrorKindNotImplemented,
		Message:  provider + " API integration is not wired",
		sentinel: ErrNotImplemented,
	}
}

// KindOf returns the ErrorKind of err, or an empty kind if err is not an IntegrationError
func KindOf(err error) ErrorKind {
	var ie *IntegrationError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

// IsConfigurationError reports whether err is a missing-credentials failure
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// Message returns the operator-facing text of err. For an IntegrationError anywhere
// in the chain that is its own message, without the call-site wrapping.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ie *IntegrationError
	if errors.As(err, &ie) {
		return ie.Error()
	}
	return err.Error()
}
