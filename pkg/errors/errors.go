package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigRequired ErrorCode = "CONFIG_REQUIRED"

	// Persistence errors
	ErrCodePersistence       ErrorCode = "PERSISTENCE"
	ErrCodeDatabaseMigration ErrorCode = "DATABASE_MIGRATION"

	// Payload errors
	ErrCodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeMissingField     ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// Resolution errors
	ErrCodeUnresolvableEntity ErrorCode = "UNRESOLVABLE_ENTITY"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"

	// Catalog service errors
	ErrCodeCatalogUnavailable   ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeCatalogRequestFailed ErrorCode = "CATALOG_REQUEST_FAILED"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
	HTTPCode int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound, ErrCodeUnresolvableEntity:
		return http.StatusNotFound
	case ErrCodeMalformedPayload, ErrCodeMissingField, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeCatalogUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeCatalogRequestFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

// CatalogUnavailable creates an error for an unreachable catalog service
func CatalogUnavailable(service string, cause error) *AppError {
	return Wrap(cause, ErrCodeCatalogUnavailable, fmt.Sprintf("catalog service '%s' unavailable", service)).
		WithDetail("service", service)
}

// CatalogRequestFailed creates an error for a non-success catalog response
func CatalogRequestFailed(service string, statusCode int) *AppError {
	return Newf(ErrCodeCatalogRequestFailed, "catalog service '%s' returned status %d", service, statusCode).
		WithDetail("service", service).
		WithDetail("status_code", statusCode)
}

// UnresolvableEntity creates an error for a notification that matched nothing downstream
func UnresolvableEntity(kind string, hint string) *AppError {
	return New(ErrCodeUnresolvableEntity, fmt.Sprintf("no catalog match for %s", kind)).
		WithDetail("kind", kind).
		WithDetail("hint", hint)
}

// MalformedPayload creates an error for a payload that could not be decoded after repair
func MalformedPayload(cause error) *AppError {
	return Wrap(cause, ErrCodeMalformedPayload, "payload could not be decoded")
}

// MissingFieldError creates a missing field error
func MissingFieldError(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("required field '%s' is missing", field)).
		WithDetail("field", field)
}

// PersistenceError creates an error for a failed store operation
func PersistenceError(operation string, cause error) *AppError {
	return Wrap(cause, ErrCodePersistence, fmt.Sprintf("store %s failed", operation)).
		WithDetail("operation", operation)
}

// ConfigError creates a configuration error
func ConfigError(key string, reason string) *AppError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("configuration error for '%s': %s", key, reason)).
		WithDetail("key", key).
		WithDetail("reason", reason)
}

// Is checks if an error is of a specific type
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetHTTPCode extracts the HTTP status code from an error
func GetHTTPCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.GetHTTPCode()
	}
	return http.StatusInternalServerError
}
