package reports

import (
	"context"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/models"
	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
)

// Portfolio computes the portfolio summary for one agency: bedroom counts,
// occupancy, and the current monthly rent roll, optionally broken down per
// property and annotated with the landlord's details.
func (s *Service) Portfolio(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.PortfolioReport, error) {
	key := cacheKey("portfolio", req)
	var hit models.PortfolioReport
	if s.cache.GetJSON(ctx, agencyID, key, &hit) {
		return &hit, nil
	}

	landlordID := s.effectiveLandlord(req)

	stmt, err := querybuilder.New().
		WithCurrentTenancy().
		Select(
			"COUNT(DISTINCT p.id)::bigint AS properties",
			"COUNT(r.id)::bigint AS bedrooms",
			"COUNT(ct.id)::bigint AS occupied",
			"COALESCE(SUM(ct.rent_cents), 0)::bigint AS rent_cents",
		).
		From("properties", "p").
		LeftJoin("rooms", "r", "r.property_id = p.id").
		LeftJoin(querybuilder.CurrentTenancyCTEName, "ct", "ct.room_id = r.id").
		WhereLandlord("p.landlord_id", landlordID).
		WhereProperty("p.id", req.Filters.PropertyID).
		Build()
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, stmt, agencyID)
	if err != nil {
		return nil, err
	}

	report := &models.PortfolioReport{}
	if len(rows) > 0 {
		row := rows[0]
		report.Properties = int(rowInt(row, "properties"))
		report.Bedrooms = int(rowInt(row, "bedrooms"))
		report.OccupiedBedrooms = int(rowInt(row, "occupied"))
		report.VacantBedrooms = report.Bedrooms - report.OccupiedBedrooms
		report.OccupancyRate = ratePercent(rowInt(row, "occupied"), rowInt(row, "bedrooms"))
		report.MonthlyRent = cents(rowInt(row, "rent_cents"))
	}

	if req.Options.IncludeLandlordInfo && landlordID != nil {
		landlord, err := s.landlordInfo(ctx, *landlordID, agencyID)
		if err != nil {
			return nil, err
		}
		report.Landlord = landlord
	}

	if req.Options.GroupByProperty {
		lines, err := s.portfolioByProperty(ctx, landlordID, req.Filters.PropertyID, agencyID)
		if err != nil {
			return nil, err
		}
		report.ByProperty = lines
	}

	s.cache.SetJSON(ctx, agencyID, key, report, s.cacheTTL)
	return report, nil
}

// effectiveLandlord resolves the landlord scope for a request. Landlord-role
// callers are pinned to their own landlord record; everyone else gets the
// filter value, where nil means every landlord within the agency. The
// broadened scope is logged so an unintended nil is observable.
func (s *Service) effectiveLandlord(req models.ReportRequest) *int64 {
	if req.Context.UserRole == "landlord" && req.Context.LandlordID != nil {
		return req.Context.LandlordID
	}
	if req.Filters.LandlordID == nil {
		s.logger.Debug("report runs unfiltered across all landlords in agency")
	}
	return req.Filters.LandlordID
}

func (s *Service) landlordInfo(ctx context.Context, landlordID, agencyID int64) (*models.LandlordInfo, error) {
	stmt, err := querybuilder.New().
		Select("l.id", "l.name", "l.email").
		From("landlords", "l").
		Where("l.id = ?", landlordID).
		Build()
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, stmt, agencyID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		s.logger.Warn("landlord not visible within agency", zap.Int64("landlord_id", landlordID))
		return nil, nil
	}

	return &models.LandlordInfo{
		ID:    rowInt(rows[0], "id"),
		Name:  rowString(rows[0], "name"),
		Email: rowString(rows[0], "email"),
	}, nil
}

func (s *Service) portfolioByProperty(ctx context.Context, landlordID, propertyID *int64, agencyID int64) ([]models.PropertyLine, error) {
	stmt, err := querybuilder.New().
		WithCurrentTenancy().
		Select(
			"p.id",
			"p.address",
			"COUNT(r.id)::bigint AS bedrooms",
			"COUNT(ct.id)::bigint AS occupied",
		).
		From("properties", "p").
		LeftJoin("rooms", "r", "r.property_id = p.id").
		LeftJoin(querybuilder.CurrentTenancyCTEName, "ct", "ct.room_id = r.id").
		WhereLandlord("p.landlord_id", landlordID).
		WhereProperty("p.id", propertyID).
		GroupBy("p.id").
		GroupBy("p.address").
		OrderBy("p.id", "ASC").
		Build()
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, stmt, agencyID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.PropertyLine, 0, len(rows))
	for _, row := range rows {
		bedrooms := rowInt(row, "bedrooms")
		occupied := rowInt(row, "occupied")
		lines = append(lines, models.PropertyLine{
			PropertyID:       rowInt(row, "id"),
			Address:          rowString(row, "address"),
			Bedrooms:         int(bedrooms),
			OccupiedBedrooms: int(occupied),
			VacantBedrooms:   int(bedrooms - occupied),
			OccupancyRate:    ratePercent(occupied, bedrooms),
		})
	}
	return lines, nil
}
