package reports

import (
	"context"

	"github.com/rentora-hq/rentora-engine/pkg/models"
	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
)

// Financial computes the monthly rent rollup for a year: amounts due,
// amounts collected, and the collection rate per month. The annual block is
// always the sum of the twelve monthly rows, never a separate annual query,
// so rounding and filter semantics cannot drift between the two.
func (s *Service) Financial(ctx context.Context, req models.ReportRequest, agencyID int64) (*models.FinancialReport, error) {
	year := today().Year()
	if req.Filters.Year != nil {
		year = *req.Filters.Year
	}

	due, err := s.monthlyTotals(ctx, "rent_charges", "c.due_date", year, req, agencyID)
	if err != nil {
		return nil, err
	}
	collected, err := s.monthlyTotals(ctx, "rent_payments", "c.paid_at", year, req, agencyID)
	if err != nil {
		return nil, err
	}

	report := &models.FinancialReport{Year: year}
	months := monthRange(req.Filters.Month)
	var annualDue, annualCollected int64
	for _, m := range months {
		monthDue := due[m]
		monthCollected := collected[m]
		report.Months = append(report.Months, models.MonthlyTotals{
			Month:          m,
			RentDue:        cents(monthDue),
			RentCollected:  cents(monthCollected),
			CollectionRate: collectionRate(monthCollected, monthDue),
		})
		annualDue += monthDue
		annualCollected += monthCollected
	}

	report.Annual = models.AnnualTotals{
		RentDue:        cents(annualDue),
		RentCollected:  cents(annualCollected),
		CollectionRate: collectionRate(annualCollected, annualDue),
	}
	return report, nil
}

// monthlyTotals aggregates one amount table by calendar month. The table is
// joined up to properties so landlord and property filters apply uniformly
// to charges and payments.
func (s *Service) monthlyTotals(ctx context.Context, table, dateColumn string, year int, req models.ReportRequest, agencyID int64) (map[int]int64, error) {
	b := querybuilder.New().
		Select(
			"EXTRACT(MONTH FROM "+dateColumn+")::bigint AS month",
			"COALESCE(SUM(c.amount_cents), 0)::bigint AS total",
		).
		From(table, "c").
		Join("tenancies", "t", "t.id = c.tenancy_id").
		Join("rooms", "r", "r.id = t.room_id").
		Join("properties", "p", "p.id = r.property_id").
		WhereLandlord("p.landlord_id", s.effectiveLandlord(req)).
		WhereProperty("p.id", req.Filters.PropertyID).
		GroupBy("month").
		OrderBy("month", "ASC")

	if req.Filters.Month != nil {
		b.WhereYearMonth(dateColumn, year, *req.Filters.Month)
	} else {
		b.Where("EXTRACT(YEAR FROM "+dateColumn+") = ?", year)
	}

	stmt, err := b.Build()
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, stmt, agencyID)
	if err != nil {
		return nil, err
	}

	totals := make(map[int]int64, len(rows))
	for _, row := range rows {
		totals[int(rowInt(row, "month"))] = rowInt(row, "total")
	}
	return totals, nil
}

func monthRange(month *int) []int {
	if month != nil {
		return []int{*month}
	}
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return months
}

// collectionRate is the collected share of what was due, as an integer
// percent. A month with nothing due counts as fully collected.
func collectionRate(collected, due int64) int {
	if due == 0 {
		return 100
	}
	return ratePercent(collected, due)
}
