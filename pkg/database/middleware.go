package database

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/auth"
)

// WithAgencyContext creates middleware that sets up an agency-scoped DB
// connection. It runs AFTER auth middleware and uses the agency ID from JWT
// claims. The connection is automatically cleaned up after the handler
// returns.
func WithAgencyContext(db *DB, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.GetClaims(r.Context())
			if !ok || claims.AgencyID == 0 {
				logger.Error("Missing agency context in claims")
				writeError(w, http.StatusInternalServerError, "internal_error", "Missing agency context")
				return
			}

			scope, err := db.WithAgency(r.Context(), claims.AgencyID)
			if err != nil {
				logger.Error("Failed to acquire agency connection",
					zap.Int64("agency_id", claims.AgencyID),
					zap.Error(err))
				writeError(w, http.StatusInternalServerError, "database_error", "Database connection error")
				return
			}
			defer scope.Close()

			ctx := SetAgencyScope(r.Context(), scope)
			next(w, r.WithContext(ctx))
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}
