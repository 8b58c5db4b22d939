package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
	"github.com/rentora-hq/rentora-engine/pkg/models"
)

type fakeAgencyService struct {
	agency *models.Agency
	list   []models.Agency
	err    error
}

func (f *fakeAgencyService) Provision(_ context.Context, name string) (*models.Agency, error) {
	if f.err != nil {
		return nil, f.err
	}
	a := *f.agency
	a.Name = name
	return &a, nil
}

func (f *fakeAgencyService) Get(_ context.Context, _ int64) (*models.Agency, error) {
	return f.agency, f.err
}

func (f *fakeAgencyService) List(_ context.Context) ([]models.Agency, error) {
	return f.list, f.err
}

func (f *fakeAgencyService) Suspend(_ context.Context, _ int64) (*models.Agency, error) {
	return f.agency, f.err
}

func TestPlatformProvision(t *testing.T) {
	svc := &fakeAgencyService{
		agency: &models.Agency{ID: 9, Status: "active", CreatedAt: time.Now()},
	}
	h := NewPlatformHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/platform/agencies",
		strings.NewReader(`{"name": "Harbour View Lettings"}`))
	rec := httptest.NewRecorder()

	h.Provision(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var agency models.Agency
	if err := json.NewDecoder(rec.Body).Decode(&agency); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if agency.Name != "Harbour View Lettings" {
		t.Errorf("name = %q", agency.Name)
	}
	if agency.ID != 9 {
		t.Errorf("id = %d, want 9", agency.ID)
	}
}

func TestPlatformProvision_InvalidBody(t *testing.T) {
	h := NewPlatformHandler(&fakeAgencyService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/platform/agencies",
		strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	h.Provision(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPlatformGet_InvalidID(t *testing.T) {
	h := NewPlatformHandler(&fakeAgencyService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/platform/agencies/abc", nil)
	req.SetPathValue("aid", "abc")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPlatformGet_NotFound(t *testing.T) {
	h := NewPlatformHandler(&fakeAgencyService{err: apperrors.ErrNotFound}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/platform/agencies/99", nil)
	req.SetPathValue("aid", "99")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPlatformList(t *testing.T) {
	svc := &fakeAgencyService{
		list: []models.Agency{
			{ID: 2, Name: "Beta"},
			{ID: 1, Name: "Alpha"},
		},
	}
	h := NewPlatformHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/platform/agencies", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Agencies []models.Agency `json:"agencies"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Agencies) != 2 {
		t.Errorf("got %d agencies, want 2", len(body.Agencies))
	}
}
