// ABOUTME: JSON error responses for the admin API.
// ABOUTME: Maps adapter errors to status codes and writes a consistent error body.

package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2389/panel/adapters/core"
)

// ErrorResponse is the body of every API error.
//
//	WriteError(w, http.StatusNotFound, ErrNotFound, "Resource not found")
type ErrorResponse struct {
	Code    string `json:"code"`              // machine-readable, e.g. "not_found"
	Message string `json:"message"`           // human-readable
	Status  int    `json:"status"`            // HTTP status code
	Field   string `json:"field,omitempty"`   // property that failed validation
	Details string `json:"details,omitempty"` // underlying error text
}

// Error codes
const (
	// Client errors (4xx)
	ErrInvalidRequest   = "invalid_request"
	ErrValidationFailed = "validation_failed"
	ErrNotFound         = "not_found"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrMethodNotAllowed = "method_not_allowed"

	// Server errors (5xx)
	ErrInternal      = "internal_error"
	ErrDatabaseError = "database_error"
)

// WriteError writes an error body with the given status and code
func WriteError(w http.ResponseWriter, status int, code, message string) {
	write(w, ErrorResponse{Code: code, Message: message, Status: status})
}

// WriteErrorWithField points a validation error at one property
func WriteErrorWithField(w http.ResponseWriter, status int, code, message, field string) {
	write(w, ErrorResponse{Code: code, Message: message, Status: status, Field: field})
}

// WriteErrorWithDetails adds the underlying error text
func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message, details string) {
	write(w, ErrorResponse{Code: code, Message: message, Status: status, Details: details})
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrNotFound, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, ErrUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, ErrForbidden, message)
}

// FromError picks the status for an adapter or action error
func FromError(w http.ResponseWriter, err error) {
	var noAdapter *core.NoAdapterError
	var config *core.ConfigurationError

	switch {
	case errors.Is(err, core.ErrRecordNotFound):
		WriteError(w, http.StatusNotFound, ErrNotFound, "Record not found")
	case errors.As(err, &noAdapter), errors.As(err, &config):
		WriteErrorWithDetails(w, http.StatusInternalServerError, ErrInternal, "Admin is misconfigured", err.Error())
	default:
		WriteErrorWithDetails(w, http.StatusInternalServerError, ErrDatabaseError, "Operation failed", err.Error())
	}
}

// WriteJSON writes a successful JSON response
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func write(w http.ResponseWriter, resp ErrorResponse) {
	WriteJSON(w, resp.Status, resp)
}
