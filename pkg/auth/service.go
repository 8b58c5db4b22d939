package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
	ErrMissingAgencyID      = errors.New("missing agency ID in token")
	ErrNotPlatformStaff     = errors.New("platform staff role required")
)

// PlatformStaffRole marks users allowed to reach unscoped platform
// operations.
const PlatformStaffRole = "platform_staff"

// AuthService defines the interface for authentication operations.
// This abstraction enables clean separation between HTTP handling
// and authentication logic, making both easier to test.
type AuthService interface {
	// ValidateRequest extracts and validates a JWT from the request's
	// Authorization header. Returns the validated claims, the raw token
	// string, or an error.
	ValidateRequest(r *http.Request) (*Claims, string, error)

	// RequireAgencyID validates that the claims carry an agency ID.
	RequireAgencyID(claims *Claims) error

	// RequirePlatformStaff validates that the claims carry the platform
	// staff role. Only these users may reach unscoped operations.
	RequirePlatformStaff(claims *Claims) error
}

// authService implements AuthService.
type authService struct {
	jwksClient JWKSClientInterface
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService with the given JWKS client and logger.
func NewAuthService(jwksClient JWKSClientInterface, logger *zap.Logger) AuthService {
	return &authService{
		jwksClient: jwksClient,
		logger:     logger,
	}
}

// ValidateRequest extracts and validates a JWT from the request.
func (s *authService) ValidateRequest(r *http.Request) (*Claims, string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No JWT found in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return nil, "", ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return nil, "", ErrInvalidAuthFormat
	}

	claims, err := s.jwksClient.ValidateToken(parts[1])
	if err != nil {
		s.logger.Debug("JWT validation failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return nil, "", err
	}

	return claims, parts[1], nil
}

// RequireAgencyID validates that the claims carry an agency ID.
func (s *authService) RequireAgencyID(claims *Claims) error {
	if claims.AgencyID == 0 {
		return ErrMissingAgencyID
	}
	return nil
}

// RequirePlatformStaff validates the platform staff role.
func (s *authService) RequirePlatformStaff(claims *Claims) error {
	if claims.UserRole != PlatformStaffRole {
		return ErrNotPlatformStaff
	}
	return nil
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
