package dto

import (
	"net/http"
	"strings"
)

// Error codes of the API envelope. Domain codes without an entry here are
// passed through unchanged and mapped to a status by their shape.
const (
	ErrCodeInternal      = "ERR_INTERNAL"
	ErrCodeValidation    = "ERR_VALIDATION"
	ErrCodeBadRequest    = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput  = "ERR_INVALID_INPUT"
	ErrCodeUnauthorized  = "ERR_UNAUTHORIZED"
	ErrCodeForbidden     = "ERR_FORBIDDEN"
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
	ErrCodeConcurrency   = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
	ErrCodeRateLimited   = "ERR_RATE_LIMITED"
	ErrCodeTimeout       = "ERR_TIMEOUT"

	ErrCodeRoutingNotConfigured = "ERR_ROUTING_NOT_CONFIGURED"
	ErrCodeUpstreamUnavailable  = "ERR_UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamFailed       = "ERR_UPSTREAM_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeConcurrency:   http.StatusConflict,
	ErrCodeInvalidState:  http.StatusUnprocessableEntity,
	ErrCodeRateLimited:   http.StatusTooManyRequests,
	ErrCodeTimeout:       http.StatusGatewayTimeout,

	ErrCodeRoutingNotConfigured: http.StatusServiceUnavailable,
	ErrCodeUpstreamUnavailable:  http.StatusBadGateway,
	ErrCodeUpstreamFailed:       http.StatusBadGateway,

	"INVALID_CREDENTIALS":        http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED":        http.StatusForbidden,
	"USER_NOT_FOUND":             http.StatusNotFound,
	"NO_IMAGES":                  http.StatusNotFound,
	"DUPLICATE_TECHNICIAN":       http.StatusConflict,
	"GROUP_NAME_RESERVED":        http.StatusConflict,
	"UNASSIGNED_GROUP_PROTECTED": http.StatusUnprocessableEntity,
	"MISSING_ORDER_ID":           http.StatusUnprocessableEntity,
	"EXPORT_UNAVAILABLE":         http.StatusServiceUnavailable,
	"PASSWORD_HASH_ERROR":        http.StatusInternalServerError,
}

// LegacyErrorCodeMapping maps generic domain codes to the standardized envelope codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrency,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a generic domain code to its envelope code.
// Specific codes such as INVALID_DATE_RANGE are returned as-is.
func NormalizeErrorCode(code string) string {
	if mapped, ok := LegacyErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}

// GetHTTPStatus returns the HTTP status for an error code. Codes missing from
// the table fall back on their shape: INVALID_* is a 400, *_NOT_FOUND a 404,
// anything else a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
