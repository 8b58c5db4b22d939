package reports

import (
	"context"

	"github.com/rentora-hq/rentora-engine/pkg/models"
	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
)

// DefaultDaysAhead is the endings window when the request carries no
// daysAhead filter.
const DefaultDaysAhead = 30

// UpcomingEndings lists tenancies ending within the requested window,
// soonest first, with the already-booked replacement occupant when asked
// for. The window is half-open: strictly after today, up to and including
// today plus daysAhead.
func (s *Service) UpcomingEndings(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.EndingsReport, error) {
	daysAhead := s.defaultDaysAhead
	if req.Filters.DaysAhead != nil {
		daysAhead = *req.Filters.DaysAhead
	}

	b := querybuilder.New().
		Select(
			"t.id AS tenancy_id",
			"t.tenant_name",
			"t.end_date",
			"r.id AS room_id",
			"p.id AS property_id",
			"p.address",
		).
		From("tenancies", "t").
		Join("rooms", "r", "r.id = t.room_id").
		Join("properties", "p", "p.id = r.property_id").
		WhereDaysAhead("t.end_date", daysAhead).
		WhereLandlord("p.landlord_id", s.effectiveLandlord(req)).
		WhereProperty("p.id", req.Filters.PropertyID).
		OrderBy("t.end_date", "ASC")

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

	asOf := today()
	report := &models.EndingsReport{DaysAhead: daysAhead, Endings: make([]models.EndingEntry, 0, len(rows))}
	for _, row := range rows {
		entry := models.EndingEntry{
			TenancyID:  rowInt(row, "tenancy_id"),
			TenantName: rowString(row, "tenant_name"),
			RoomID:     rowInt(row, "room_id"),
			PropertyID: rowInt(row, "property_id"),
			Address:    rowString(row, "address"),
		}
		if end, ok := rowTime(row, "end_date"); ok {
			entry.EndDate = end.Format("2006-01-02")
			entry.DaysUntilEnd = daysBetween(asOf, end)
		}
		if req.Options.IncludeNextTenant {
			entry.NextTenant = occupantFromRow(row, "next")
		}
		report.Endings = append(report.Endings, entry)
	}
	return report, nil
}
