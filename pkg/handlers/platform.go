package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/auth"
	"github.com/rentora-hq/rentora-engine/pkg/platform"
)

// PlatformHandler handles platform-staff agency management requests.
type PlatformHandler struct {
	agencies platform.AgencyService
	logger   *zap.Logger
}

// NewPlatformHandler creates a new platform handler.
func NewPlatformHandler(agencies platform.AgencyService, logger *zap.Logger) *PlatformHandler {
	return &PlatformHandler{agencies: agencies, logger: logger}
}

// RegisterRoutes registers the platform handler's routes on the given mux.
// Every route requires the platform_staff role; none of them run under an
// agency scope.
func (h *PlatformHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/platform/agencies",
		authMiddleware.RequirePlatformStaff(h.Provision))
	mux.HandleFunc("GET /api/platform/agencies",
		authMiddleware.RequirePlatformStaff(h.List))
	mux.HandleFunc("GET /api/platform/agencies/{aid}",
		authMiddleware.RequirePlatformStaff(h.Get))
	mux.HandleFunc("POST /api/platform/agencies/{aid}/suspend",
		authMiddleware.RequirePlatformStaff(h.Suspend))
}

// ProvisionRequest is the body for POST /api/platform/agencies.
type ProvisionRequest struct {
	Name string `json:"name"`
}

// Provision handles POST /api/platform/agencies.
func (h *PlatformHandler) Provision(w http.ResponseWriter, r *http.Request) {
	var body ProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Request body must be JSON with a name field")
		return
	}

	agency, err := h.agencies.Provision(r.Context(), body.Name)
	if err != nil {
		h.logger.Error("Agency provisioning failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusUnprocessableEntity, "provision_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusCreated, agency); err != nil {
		h.logger.Error("Failed to encode agency response", zap.Error(err))
	}
}

// List handles GET /api/platform/agencies.
func (h *PlatformHandler) List(w http.ResponseWriter, r *http.Request) {
	agencies, err := h.agencies.List(r.Context())
	if err != nil {
		h.logger.Error("Agency listing failed", zap.Error(err))
		_ = WriteDomainError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"agencies": agencies}); err != nil {
		h.logger.Error("Failed to encode agencies response", zap.Error(err))
	}
}

// Get handles GET /api/platform/agencies/{aid}.
func (h *PlatformHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseAgencyID(w, r, h.logger)
	if !ok {
		return
	}

	agency, err := h.agencies.Get(r.Context(), id)
	if err != nil {
		_ = WriteDomainError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, agency); err != nil {
		h.logger.Error("Failed to encode agency response", zap.Error(err))
	}
}

// Suspend handles POST /api/platform/agencies/{aid}/suspend.
func (h *PlatformHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseAgencyID(w, r, h.logger)
	if !ok {
		return
	}

	agency, err := h.agencies.Suspend(r.Context(), id)
	if err != nil {
		_ = WriteDomainError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, agency); err != nil {
		h.logger.Error("Failed to encode agency response", zap.Error(err))
	}
}
