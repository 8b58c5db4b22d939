package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ParseAgencyID extracts and validates the agency ID from the request path.
// Returns the parsed ID and true on success, or zero and false on error
// (after writing an error response).
// Expects path parameter: aid
func ParseAgencyID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	idStr := r.PathValue("aid")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_agency_id", "Invalid agency ID format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// queryInt64 reads an optional int64 query parameter. A missing or empty
// parameter yields (nil, true); a malformed one yields (nil, false).
func queryInt64(r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// queryInt reads an optional int query parameter with the same contract as
// queryInt64.
func queryInt(r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// queryBool reads an optional boolean query parameter, defaulting to false.
func queryBool(r *http.Request, name string) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}
