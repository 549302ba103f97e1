package dto

import (
	"net/http"

	"github.com/siparisbot/backend/internal/domain/integration"
)

// Request error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// Provider error codes, derived from integration.ErrorKind
const (
	ErrCodeNotConfigured       = "NOT_CONFIGURED"
	ErrCodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderError       = "PROVIDER_ERROR"
	ErrCodeNotImplemented      = "NOT_IMPLEMENTED"
)

// ErrCodeStorageUnavailable is used when order storage is not wired
const ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"

var statusByCode = map[string]int{
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeRequestTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
	ErrCodeInternal:            http.StatusInternalServerError,
	ErrCodeUnavailable:         http.StatusServiceUnavailable,
	ErrCodeNotConfigured:       http.StatusBadGateway,
	ErrCodeProviderUnavailable: http.StatusBadGateway,
	ErrCodeProviderError:       http.StatusBadGateway,
	ErrCodeNotImplemented:      http.StatusBadGateway,
	ErrCodeStorageUnavailable:  http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code. Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// CodeForKind maps a provider failure kind to its error code.
// A failure without a kind is reported as PROVIDER_ERROR.
func CodeForKind(kind integration.ErrorKind) string {
	switch kind {
	case integration.ErrorKindConfiguration:
		return ErrCodeNotConfigured
	case integration.ErrorKindTransport:
		return ErrCodeProviderUnavailable
	case integration.ErrorKindNotImplemented:
		return ErrCodeNotImplemented
	default:
		return ErrCodeProviderError
	}
}
