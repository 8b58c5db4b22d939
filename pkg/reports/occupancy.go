package reports

import (
	"context"

	"github.com/rentora-hq/rentora-engine/pkg/models"
	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
)

// Occupancy lists every room in scope with its current occupant and, when
// requested, the next booked occupant. Rooms with no occupant in a category
// appear with nil blocks; LEFT JOIN semantics keep vacant rooms in the
// result.
func (s *Service) Occupancy(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.OccupancyReport, error) {
	key := cacheKey("occupancy", req)
	var hit models.OccupancyReport
	if s.cache.GetJSON(ctx, agencyID, key, &hit) {
		return &hit, nil
	}

	b := querybuilder.New().
		WithCurrentTenancy().
		Select(
			"r.id AS room_id",
			"r.name AS room_name",
			"p.id AS property_id",
			"p.address",
			"ct.id AS current_id",
			"ct.tenant_name AS current_name",
			"ct.start_date AS current_start",
			"ct.end_date AS current_end",
			"ct.rent_cents AS current_rent",
		).
		From("rooms", "r").
		Join("properties", "p", "p.id = r.property_id").
		LeftJoin(querybuilder.CurrentTenancyCTEName, "ct", "ct.room_id = r.id").
		WhereLandlord("p.landlord_id", s.effectiveLandlord(req)).
		WhereProperty("p.id", req.Filters.PropertyID).
		OrderBy("p.id", "ASC").
		OrderBy("r.id", "ASC")

	if req.Options.IncludeNextTenant {
		b.WithNextTenancy().
			Select(
				"nt.id AS next_id",
				"nt.tenant_name AS next_name",
				"nt.start_date AS next_start",
				"nt.end_date AS next_end",
				"nt.rent_cents AS next_rent",
			).
			LeftJoin(querybuilder.NextTenancyCTEName, "nt", "nt.room_id = r.id")
	}

	stmt, err := b.Build()
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, stmt, agencyID)
	if err != nil {
		return nil, err
	}

	report := &models.OccupancyReport{Rooms: make([]models.RoomOccupancy, 0, len(rows))}
	for _, row := range rows {
		room := models.RoomOccupancy{
			RoomID:     rowInt(row, "room_id"),
			RoomName:   rowString(row, "room_name"),
			PropertyID: rowInt(row, "property_id"),
			Address:    rowString(row, "address"),
			Current:    occupantFromRow(row, "current"),
		}
		if req.Options.IncludeNextTenant {
			room.Next = occupantFromRow(row, "next")
		}
		report.Rooms = append(report.Rooms, room)
	}

	s.cache.SetJSON(ctx, agencyID, key, report, s.cacheTTL)
	return report, nil
}

// occupantFromRow reads the prefixed occupant columns; a null join yields
// nil rather than a zero-valued occupant.
func occupantFromRow(row map[string]any, prefix string) *models.Occupant {
	if row[prefix+"_id"] == nil {
		return nil
	}
	occ := &models.Occupant{
		TenancyID:  rowInt(row, prefix+"_id"),
		TenantName: rowString(row, prefix+"_name"),
		Rent:       cents(rowInt(row, prefix+"_rent")),
	}
	if start, ok := rowTime(row, prefix+"_start"); ok {
		occ.StartDate = start.Format("2006-01-02")
	}
	if end, ok := rowTime(row, prefix+"_end"); ok {
		formatted := end.Format("2006-01-02")
		occ.EndDate = &formatted
	}
	return occ
}
