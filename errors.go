package netbird

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// APIError is the base type for all errors returned by this library. It
// carries the human-readable message, the HTTP status code (zero when the
// error did not originate from an API response) and the raw response payload
// for diagnostics. The typed error structs embed it under the name APIError
// rather than Error because a field named Error would shadow the promoted
// Error method and the types would no longer satisfy the error interface.
type APIError struct {
	Message    string
	StatusCode int
	Response   map[string]any
}

// Error is an alias for APIError, kept so the base type can still be
// referred to as Error.
type Error = APIError

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// Status returns the HTTP status code associated with the error, or zero.
func (e *APIError) Status() int { return e.StatusCode }

// ValidationError is returned for rejected input (400, 422) and for model
// data that fails normalization.
type ValidationError struct{ APIError }

// NewValidationError creates a ValidationError without an HTTP status.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{APIError{Message: message}}
}

// AuthenticationError is returned when authentication fails (401).
type AuthenticationError struct{ APIError }

// AuthorizationError is returned when the token lacks permission (403).
type AuthorizationError struct{ APIError }

// ResourceNotFoundError is returned when the requested resource does not
// exist (404).
type ResourceNotFoundError struct{ APIError }

// ConflictError is returned when the request conflicts with current state
// (409).
type ConflictError struct{ APIError }

// RateLimitError is returned when the API rate limit is exceeded (429).
// RetryAfter holds the server's backoff hint when one was provided.
type RateLimitError struct {
	APIError
	RetryAfter time.Duration
}

// ServerError is returned for 5xx responses.
type ServerError struct{ APIError }

// NetworkError is returned when the request fails at the transport level.
type NetworkError struct {
	APIError
	Err error
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError is returned when a request exceeds the configured timeout.
type TimeoutError struct {
	APIError
	Err error
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ConfigurationError is returned when client configuration is invalid.
type ConfigurationError struct{ APIError }

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(message string) *ConfigurationError {
	return &ConfigurationError{APIError{Message: message}}
}

// Classify maps a non-2xx API response to the matching typed error. The
// message is extracted from the response body's message/error/detail/
// description field, falling back to the first element of an "errors" list
// and finally to the HTTP status text.
func Classify(statusCode int, body []byte, header http.Header) error {
	var response map[string]any
	if len(body) > 0 {
		_ = json.Unmarshal(body, &response)
	}

	message := extractMessage(response)
	if message == "" {
		message = fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode))
	}

	base := Error{Message: message, StatusCode: statusCode, Response: response}

	switch statusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{base}
	case http.StatusUnauthorized:
		return &AuthenticationError{base}
	case http.StatusForbidden:
		return &AuthorizationError{base}
	case http.StatusNotFound:
		return &ResourceNotFoundError{base}
	case http.StatusConflict:
		return &ConflictError{base}
	case http.StatusTooManyRequests:
		return &RateLimitError{APIError: base, RetryAfter: retryAfterHint(response, header)}
	}

	if statusCode >= 500 && statusCode < 600 {
		return &ServerError{base}
	}

	return &base
}

func extractMessage(response map[string]any) string {
	if len(response) == 0 {
		return ""
	}

	for _, field := range []string{"message", "error", "detail", "description"} {
		if v, ok := response[field]; ok && v != nil && v != "" {
			return fmt.Sprintf("%v", v)
		}
	}

	if list, ok := response["errors"].([]any); ok && len(list) > 0 {
		if m, ok := list[0].(map[string]any); ok {
			if msg, ok := m["message"]; ok {
				return fmt.Sprintf("%v", msg)
			}
			return fmt.Sprintf("%v", m)
		}
		return fmt.Sprintf("%v", list[0])
	}

	return ""
}

func retryAfterHint(response map[string]any, header http.Header) time.Duration {
	if v := header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	if v, ok := response["retry_after"]; ok {
		if secs, ok := v.(float64); ok && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}

	return 0
}
