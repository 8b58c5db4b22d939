package auth

import (
	"errors"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// mockJWKSClient returns canned claims for any token.
type mockJWKSClient struct {
	claims *Claims
	err    error
}

func (m *mockJWKSClient) ValidateToken(tokenString string) (*Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func TestValidateRequest_BearerToken(t *testing.T) {
	expected := &Claims{AgencyID: 42, UserRole: "agency_admin"}
	service := NewAuthService(&mockJWKSClient{claims: expected}, zap.NewNop())

	r := httptest.NewRequest("GET", "/api/reports/portfolio", nil)
	r.Header.Set("Authorization", "Bearer some.jwt.token")

	claims, token, err := service.ValidateRequest(r)
	if err != nil {
		t.Fatalf("ValidateRequest returned error: %v", err)
	}
	if claims.AgencyID != 42 {
		t.Errorf("AgencyID = %d, want 42", claims.AgencyID)
	}
	if token != "some.jwt.token" {
		t.Errorf("token = %q", token)
	}
}

func TestValidateRequest_MissingHeader(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	r := httptest.NewRequest("GET", "/api/reports/portfolio", nil)
	_, _, err := service.ValidateRequest(r)
	if !errors.Is(err, ErrMissingAuthorization) {
		t.Errorf("err = %v, want ErrMissingAuthorization", err)
	}
}

func TestValidateRequest_MalformedHeader(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	r := httptest.NewRequest("GET", "/api/reports/portfolio", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	_, _, err := service.ValidateRequest(r)
	if !errors.Is(err, ErrInvalidAuthFormat) {
		t.Errorf("err = %v, want ErrInvalidAuthFormat", err)
	}
}

func TestRequireAgencyID(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	if err := service.RequireAgencyID(&Claims{AgencyID: 7}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := service.RequireAgencyID(&Claims{}); !errors.Is(err, ErrMissingAgencyID) {
		t.Errorf("err = %v, want ErrMissingAgencyID", err)
	}
}

func TestRequirePlatformStaff(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	if err := service.RequirePlatformStaff(&Claims{UserRole: PlatformStaffRole}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := service.RequirePlatformStaff(&Claims{UserRole: "agency_admin"}); !errors.Is(err, ErrNotPlatformStaff) {
		t.Errorf("err = %v, want ErrNotPlatformStaff", err)
	}
}
