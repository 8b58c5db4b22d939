// Package middleware provides HTTP middleware shared across all routes.
package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/auth"
)

// RequestLogger returns middleware that logs every HTTP request with its
// outcome. Successful requests log at DEBUG; 4xx at WARN; 5xx at ERROR.
// The agency is included when the request context carries verified claims.
// Pass nil logger to disable logging.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", wrapped.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			}
			if claims, ok := auth.GetClaims(r.Context()); ok && claims.AgencyID != 0 {
				fields = append(fields, zap.Int64("agency_id", claims.AgencyID))
			}

			switch {
			case wrapped.statusCode >= 500:
				logger.Error("HTTP request", fields...)
			case wrapped.statusCode >= 400:
				logger.Warn("HTTP request", fields...)
			default:
				logger.Debug("HTTP request", fields...)
			}
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
