package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteDomainError maps a service-layer error onto an HTTP response. Pool
// exhaustion becomes 503 with a Retry-After hint; builder defects and tenant
// context failures stay 500 because the caller cannot fix them.
func WriteDomainError(w http.ResponseWriter, err error) error {
	var poolErr *apperrors.PoolExhaustedError
	if errors.As(err, &poolErr) {
		if secs := int(poolErr.RetryAfter.Seconds()); secs > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		return ErrorResponse(w, http.StatusServiceUnavailable, "pool_exhausted",
			"Database is busy, retry shortly")
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	}

	var buildErr *apperrors.BuildError
	if errors.As(err, &buildErr) {
		return ErrorResponse(w, http.StatusInternalServerError, "query_build_failed",
			"Report query could not be assembled")
	}

	var tenantErr *apperrors.TenantContextError
	if errors.As(err, &tenantErr) {
		return ErrorResponse(w, http.StatusInternalServerError, "tenant_context_failed",
			"Could not establish agency context")
	}

	return ErrorResponse(w, http.StatusInternalServerError, "internal_error",
		"Internal server error")
}
