package reports

import (
	"context"
	"time"

	"github.com/rentora-hq/rentora-engine/pkg/models"
	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
)

// Arrears lists tenancies whose charges due to date exceed their payments,
// with the outstanding balance and an age bucket keyed on the oldest unpaid
// due date.
func (s *Service) Arrears(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.ArrearsReport, error) {
	asOf := today()

	stmt, err := querybuilder.New().
		WithCTE("charged",
			"SELECT c.tenancy_id, COALESCE(SUM(c.amount_cents), 0)::bigint AS due, MIN(c.due_date) AS oldest_due"+
				" FROM rent_charges c WHERE c.due_date <= ? GROUP BY c.tenancy_id", asOf).
		WithCTE("received",
			"SELECT p.tenancy_id, COALESCE(SUM(p.amount_cents), 0)::bigint AS paid"+
				" FROM rent_payments p GROUP BY p.tenancy_id").
		Select(
			"t.id AS tenancy_id",
			"t.tenant_name",
			"p.id AS property_id",
			"p.address",
			"ch.due - COALESCE(rc.paid, 0) AS outstanding",
			"ch.oldest_due",
		).
		From("tenancies", "t").
		Join("charged", "ch", "ch.tenancy_id = t.id").
		LeftJoin("received", "rc", "rc.tenancy_id = t.id").
		Join("rooms", "r", "r.id = t.room_id").
		Join("properties", "p", "p.id = r.property_id").
		WhereLandlord("p.landlord_id", s.effectiveLandlord(req)).
		WhereProperty("p.id", req.Filters.PropertyID).
		Where("ch.due - COALESCE(rc.paid, 0) > ?", 0).
		OrderBy("outstanding", "DESC").
		Build()
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, stmt, agencyID)
	if err != nil {
		return nil, err
	}

	report := &models.ArrearsReport{Entries: make([]models.ArrearsEntry, 0, len(rows))}
	var totalCents int64
	for _, row := range rows {
		outstanding := rowInt(row, "outstanding")
		totalCents += outstanding
		entry := models.ArrearsEntry{
			TenancyID:   rowInt(row, "tenancy_id"),
			TenantName:  rowString(row, "tenant_name"),
			PropertyID:  rowInt(row, "property_id"),
			Address:     rowString(row, "address"),
			Outstanding: cents(outstanding),
		}
		if oldest, ok := rowTime(row, "oldest_due"); ok {
			entry.OldestDue = oldest.Format("2006-01-02")
			entry.AgeBucket = ageBucket(daysBetween(oldest, asOf))
		}
		report.Entries = append(report.Entries, entry)
	}
	report.TotalOutstanding = cents(totalCents)
	return report, nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func ageBucket(days int) string {
	switch {
	case days <= 30:
		return "0-30"
	case days <= 60:
		return "31-60"
	default:
		return "61+"
	}
}
