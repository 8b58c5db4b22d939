package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/auth"
	"github.com/rentora-hq/rentora-engine/pkg/models"
	"github.com/rentora-hq/rentora-engine/pkg/reports"
)

// TenantMiddleware is a function that wraps a handler with tenant context.
type TenantMiddleware func(http.HandlerFunc) http.HandlerFunc

// ReportService is the subset of the reports service the handler calls.
type ReportService interface {
	Portfolio(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.PortfolioReport, error)
	Occupancy(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.OccupancyReport, error)
	Financial(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.FinancialReport, error)
	Arrears(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.ArrearsReport, error)
	UpcomingEndings(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.EndingsReport, error)
}

var _ ReportService = (*reports.Service)(nil)

// ReportsHandler handles report generation HTTP requests.
type ReportsHandler struct {
	service ReportService
	logger  *zap.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(service ReportService, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{service: service, logger: logger}
}

// RegisterRoutes registers the reports handler's routes on the given mux.
// All report routes require auth and run under the caller's agency context.
func (h *ReportsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	mux.HandleFunc("GET /api/reports/portfolio",
		authMiddleware.RequireAuth(tenantMiddleware(h.Portfolio)))
	mux.HandleFunc("GET /api/reports/occupancy",
		authMiddleware.RequireAuth(tenantMiddleware(h.Occupancy)))
	mux.HandleFunc("GET /api/reports/financial",
		authMiddleware.RequireAuth(tenantMiddleware(h.Financial)))
	mux.HandleFunc("GET /api/reports/arrears",
		authMiddleware.RequireAuth(tenantMiddleware(h.Arrears)))
	mux.HandleFunc("GET /api/reports/upcoming-endings",
		authMiddleware.RequireAuth(tenantMiddleware(h.UpcomingEndings)))
}

// Portfolio handles GET /api/reports/portfolio.
func (h *ReportsHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	req, agencyID, ok := h.reportRequest(w, r)
	if !ok {
		return
	}

	report, err := h.service.Portfolio(r.Context(), req, agencyID)
	if err != nil {
		h.fail(w, "portfolio", agencyID, err)
		return
	}
	h.respond(w, report)
}

// Occupancy handles GET /api/reports/occupancy.
func (h *ReportsHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	req, agencyID, ok := h.reportRequest(w, r)
	if !ok {
		return
	}

	report, err := h.service.Occupancy(r.Context(), req, agencyID)
	if err != nil {
		h.fail(w, "occupancy", agencyID, err)
		return
	}
	h.respond(w, report)
}

// Financial handles GET /api/reports/financial.
func (h *ReportsHandler) Financial(w http.ResponseWriter, r *http.Request) {
	req, agencyID, ok := h.reportRequest(w, r)
	if !ok {
		return
	}

	report, err := h.service.Financial(r.Context(), req, agencyID)
	if err != nil {
		h.fail(w, "financial", agencyID, err)
		return
	}
	h.respond(w, report)
}

// Arrears handles GET /api/reports/arrears.
func (h *ReportsHandler) Arrears(w http.ResponseWriter, r *http.Request) {
	req, agencyID, ok := h.reportRequest(w, r)
	if !ok {
		return
	}

	report, err := h.service.Arrears(r.Context(), req, agencyID)
	if err != nil {
		h.fail(w, "arrears", agencyID, err)
		return
	}
	h.respond(w, report)
}

// UpcomingEndings handles GET /api/reports/upcoming-endings.
func (h *ReportsHandler) UpcomingEndings(w http.ResponseWriter, r *http.Request) {
	req, agencyID, ok := h.reportRequest(w, r)
	if !ok {
		return
	}

	report, err := h.service.UpcomingEndings(r.Context(), req, agencyID)
	if err != nil {
		h.fail(w, "upcoming_endings", agencyID, err)
		return
	}
	h.respond(w, report)
}

// reportRequest assembles a ReportRequest from JWT claims and query
// parameters. The caller's role and landlord scope come from the token, never
// from the query string.
func (h *ReportsHandler) reportRequest(w http.ResponseWriter, r *http.Request) (models.ReportRequest, int64, bool) {
	var req models.ReportRequest

	claims, ok := auth.GetClaims(r.Context())
	if !ok || claims.AgencyID == 0 {
		h.logger.Error("Missing claims on report route")
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return req, 0, false
	}

	req.Context = models.ReportContext{
		UserRole:   claims.UserRole,
		LandlordID: claims.LandlordID,
	}

	landlordID, ok := queryInt64(r, "landlord_id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "landlord_id must be an integer")
		return req, 0, false
	}
	propertyID, ok := queryInt64(r, "property_id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "property_id must be an integer")
		return req, 0, false
	}
	daysAhead, ok := queryInt(r, "days_ahead")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "days_ahead must be an integer")
		return req, 0, false
	}
	if daysAhead != nil && *daysAhead <= 0 {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "days_ahead must be positive")
		return req, 0, false
	}
	year, ok := queryInt(r, "year")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "year must be an integer")
		return req, 0, false
	}
	month, ok := queryInt(r, "month")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "month must be an integer")
		return req, 0, false
	}
	if month != nil && (*month < 1 || *month > 12) {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "month must be between 1 and 12")
		return req, 0, false
	}

	req.Filters = models.ReportFilters{
		LandlordID: landlordID,
		PropertyID: propertyID,
		DaysAhead:  daysAhead,
		Year:       year,
		Month:      month,
	}
	req.Options = models.ReportOptions{
		IncludeLandlordInfo: queryBool(r, "include_landlord"),
		IncludeNextTenant:   queryBool(r, "include_next_tenant"),
		GroupByProperty:     queryBool(r, "by_property"),
	}

	return req, claims.AgencyID, true
}

func (h *ReportsHandler) respond(w http.ResponseWriter, report any) {
	if err := WriteJSON(w, http.StatusOK, report); err != nil {
		h.logger.Error("Failed to encode report response", zap.Error(err))
	}
}

func (h *ReportsHandler) fail(w http.ResponseWriter, kind string, agencyID int64, err error) {
	h.logger.Error("Report generation failed",
		zap.String("report", kind),
		zap.Int64("agency_id", agencyID),
		zap.Error(err))
	_ = WriteDomainError(w, err)
}
