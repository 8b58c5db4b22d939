// Package auth provides JWT-based authentication for rentora-engine.
// It validates tokens issued by the platform auth server using JWKS
// endpoints and exposes the caller's agency identity to the request path.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// Claims represents the JWT claims structure from the platform auth server.
// It embeds RegisteredClaims for standard JWT fields (sub, iss, exp, etc.)
// and adds the agency context. AgencyID is the only source of tenant
// identity in the system; it is never read from filters or URL parameters.
type Claims struct {
	jwt.RegisteredClaims
	AgencyID   int64  `json:"aid,omitempty"`  // Agency (tenant) identifier
	LandlordID *int64 `json:"lid,omitempty"`  // Landlord scope for landlord-role users
	UserRole   string `json:"role,omitempty"` // "agency_admin", "landlord", "platform_staff"
	Email      string `json:"email,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetToken retrieves the raw JWT token string from the request context.
// Returns empty string and false if token is not present.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

// AgencyFromContext extracts the agency ID from JWT claims in context.
// Returns an error if not authenticated or the token carries no agency.
func AgencyFromContext(ctx context.Context) (int64, error) {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return 0, fmt.Errorf("authentication required: no claims in context")
	}
	if claims.AgencyID == 0 {
		return 0, fmt.Errorf("missing agency ID in JWT claims")
	}
	return claims.AgencyID, nil
}
