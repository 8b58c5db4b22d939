package reports

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
	"github.com/rentora-hq/rentora-engine/pkg/models"
	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
	"github.com/rentora-hq/rentora-engine/pkg/retry"
	"github.com/rentora-hq/rentora-engine/pkg/sqlguard"
)

// fakeExecutor records every statement and replays queued responses.
type fakeExecutor struct {
	stmts     []querybuilder.Statement
	agencyIDs []int64
	results   [][]map[string]any
	errs      []error
	calls     int
}

func (f *fakeExecutor) ScopedQuery(ctx context.Context, stmt querybuilder.Statement, agencyID int64) ([]map[string]any, error) {
	i := f.calls
	f.calls++
	f.stmts = append(f.stmts, stmt)
	f.agencyIDs = append(f.agencyIDs, agencyID)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return nil, nil
}

func newTestService(exec *fakeExecutor) *Service {
	s := NewService(exec, nil, zap.NewNop())
	s.retryCfg = &retry.Config{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return s
}

func stubNow(t *testing.T, fixed time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })
}

// Every statement a generator produces must keep placeholders and args
// aligned; the fake executor lets us assert it across report shapes.
func assertAligned(t *testing.T, stmts []querybuilder.Statement) {
	t.Helper()
	for _, stmt := range stmts {
		if err := sqlguard.VerifyAlignment(stmt.Text, len(stmt.Args)); err != nil {
			t.Errorf("misaligned statement: %v\n%s", err, stmt.Text)
		}
	}
}

func TestPortfolio_ShapesCounts(t *testing.T) {
	exec := &fakeExecutor{results: [][]map[string]any{{
		{"properties": int64(2), "bedrooms": int64(3), "occupied": int64(2), "rent_cents": int64(150000)},
	}}}
	s := newTestService(exec)

	report, err := s.Portfolio(context.Background(), models.ReportRequest{}, 7)
	if err != nil {
		t.Fatalf("Portfolio returned error: %v", err)
	}

	if report.Bedrooms != 3 || report.OccupiedBedrooms != 2 || report.VacantBedrooms != 1 {
		t.Errorf("counts = %+v", report)
	}
	if report.OccupancyRate != 67 {
		t.Errorf("OccupancyRate = %d, want 67", report.OccupancyRate)
	}
	if report.MonthlyRent != 1500.00 {
		t.Errorf("MonthlyRent = %v, want 1500.00", report.MonthlyRent)
	}
	if exec.agencyIDs[0] != 7 {
		t.Errorf("agencyID = %d, want 7", exec.agencyIDs[0])
	}
	if !strings.Contains(exec.stmts[0].Text, "WITH current_tenancy AS") {
		t.Errorf("portfolio query must use the current-tenancy CTE:\n%s", exec.stmts[0].Text)
	}
	assertAligned(t, exec.stmts)
}

func TestPortfolio_NilLandlordMeansNoPredicate(t *testing.T) {
	exec := &fakeExecutor{results: [][]map[string]any{{}}}
	s := newTestService(exec)

	_, err := s.Portfolio(context.Background(), models.ReportRequest{}, 7)
	if err != nil {
		t.Fatalf("Portfolio returned error: %v", err)
	}
	if strings.Contains(exec.stmts[0].Text, "landlord_id =") {
		t.Errorf("nil landlord filter must add no landlord predicate:\n%s", exec.stmts[0].Text)
	}
}

func TestPortfolio_LandlordFilterRestricts(t *testing.T) {
	id := int64(5)
	exec := &fakeExecutor{results: [][]map[string]any{{}}}
	s := newTestService(exec)

	req := models.ReportRequest{Filters: models.ReportFilters{LandlordID: &id}}
	if _, err := s.Portfolio(context.Background(), req, 7); err != nil {
		t.Fatalf("Portfolio returned error: %v", err)
	}

	stmt := exec.stmts[0]
	if !strings.Contains(stmt.Text, "p.landlord_id = $") {
		t.Errorf("expected landlord predicate:\n%s", stmt.Text)
	}
	found := false
	for _, arg := range stmt.Args {
		if v, ok := arg.(int64); ok && v == 5 {
			found = true
		}
	}
	if !found {
		t.Errorf("landlord ID not bound as parameter: %v", stmt.Args)
	}
	assertAligned(t, exec.stmts)
}

func TestEffectiveLandlord_LandlordRolePinned(t *testing.T) {
	own := int64(3)
	other := int64(9)
	s := newTestService(&fakeExecutor{})

	req := models.ReportRequest{
		Context: models.ReportContext{UserRole: "landlord", LandlordID: &own},
		Filters: models.ReportFilters{LandlordID: &other},
	}
	got := s.effectiveLandlord(req)
	if got == nil || *got != 3 {
		t.Errorf("landlord-role caller must be pinned to own landlord, got %v", got)
	}
}

func TestOccupancy_VacantRoomHasNilOccupant(t *testing.T) {
	exec := &fakeExecutor{results: [][]map[string]any{{
		{
			"room_id": int64(1), "room_name": "Room A", "property_id": int64(10), "address": "1 High St",
			"current_id": int64(100), "current_name": "Jo", "current_start": time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			"current_end": nil, "current_rent": int64(80000),
		},
		{
			"room_id": int64(2), "room_name": "Room B", "property_id": int64(10), "address": "1 High St",
			"current_id": nil, "current_name": nil, "current_start": nil, "current_end": nil, "current_rent": nil,
		},
	}}}
	s := newTestService(exec)

	report, err := s.Occupancy(context.Background(), models.ReportRequest{}, 7)
	if err != nil {
		t.Fatalf("Occupancy returned error: %v", err)
	}
	if len(report.Rooms) != 2 {
		t.Fatalf("rooms = %d, want 2 (vacant rooms must not be dropped)", len(report.Rooms))
	}
	if report.Rooms[0].Current == nil || report.Rooms[0].Current.TenantName != "Jo" {
		t.Errorf("occupied room missing occupant: %+v", report.Rooms[0])
	}
	if report.Rooms[1].Current != nil {
		t.Errorf("vacant room must have nil occupant: %+v", report.Rooms[1])
	}
	if !strings.Contains(exec.stmts[0].Text, "LEFT JOIN current_tenancy") {
		t.Errorf("occupancy must LEFT JOIN the occupant CTE:\n%s", exec.stmts[0].Text)
	}
}

func TestOccupancy_NextTenantOptional(t *testing.T) {
	exec := &fakeExecutor{results: [][]map[string]any{{}}}
	s := newTestService(exec)

	req := models.ReportRequest{Options: models.ReportOptions{IncludeNextTenant: true}}
	if _, err := s.Occupancy(context.Background(), req, 7); err != nil {
		t.Fatalf("Occupancy returned error: %v", err)
	}
	if !strings.Contains(exec.stmts[0].Text, "next_tenancy") {
		t.Errorf("expected next-tenancy CTE when requested:\n%s", exec.stmts[0].Text)
	}
	assertAligned(t, exec.stmts)
}

func TestFinancial_AnnualIsSumOfMonths(t *testing.T) {
	stubNow(t, time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC))

	charges := []map[string]any{
		{"month": int64(1), "total": int64(100050)},
		{"month": int64(2), "total": int64(100050)},
	}
	payments := []map[string]any{
		{"month": int64(1), "total": int64(100050)},
		{"month": int64(2), "total": int64(50025)},
	}
	exec := &fakeExecutor{results: [][]map[string]any{charges, payments}}
	s := newTestService(exec)

	report, err := s.Financial(context.Background(), models.ReportRequest{}, 7)
	if err != nil {
		t.Fatalf("Financial returned error: %v", err)
	}

	if len(report.Months) != 12 {
		t.Fatalf("months = %d, want 12", len(report.Months))
	}
	if report.Year != 2024 {
		t.Errorf("year = %d, want 2024", report.Year)
	}

	var sumDue, sumCollected float64
	for _, m := range report.Months {
		sumDue += m.RentDue
		sumCollected += m.RentCollected
	}
	if report.Annual.RentDue != sumDue {
		t.Errorf("annual due %v != sum of months %v", report.Annual.RentDue, sumDue)
	}
	if report.Annual.RentCollected != sumCollected {
		t.Errorf("annual collected %v != sum of months %v", report.Annual.RentCollected, sumCollected)
	}
	if report.Annual.RentDue != 2001.00 {
		t.Errorf("annual due = %v, want 2001.00", report.Annual.RentDue)
	}
	if report.Months[1].CollectionRate != 50 {
		t.Errorf("feb collection rate = %d, want 50", report.Months[1].CollectionRate)
	}
	if report.Months[2].CollectionRate != 100 {
		t.Errorf("empty month collection rate = %d, want 100", report.Months[2].CollectionRate)
	}
	assertAligned(t, exec.stmts)
}

func TestFinancial_MonthFilterNarrowsToOneMonth(t *testing.T) {
	stubNow(t, time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC))
	month := 3
	year := 2023
	exec := &fakeExecutor{results: [][]map[string]any{{}, {}}}
	s := newTestService(exec)

	req := models.ReportRequest{Filters: models.ReportFilters{Year: &year, Month: &month}}
	report, err := s.Financial(context.Background(), req, 7)
	if err != nil {
		t.Fatalf("Financial returned error: %v", err)
	}
	if len(report.Months) != 1 || report.Months[0].Month != 3 {
		t.Errorf("months = %+v, want single March row", report.Months)
	}
	if !strings.Contains(exec.stmts[0].Text, "EXTRACT(MONTH FROM c.due_date) = $") {
		t.Errorf("expected year-month predicate:\n%s", exec.stmts[0].Text)
	}
}

func TestArrears_BucketsAndTotal(t *testing.T) {
	stubNow(t, time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC))

	exec := &fakeExecutor{results: [][]map[string]any{{
		{
			"tenancy_id": int64(1), "tenant_name": "Ann", "property_id": int64(10), "address": "1 High St",
			"outstanding": int64(50000), "oldest_due": time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"tenancy_id": int64(2), "tenant_name": "Bob", "property_id": int64(11), "address": "2 Low Rd",
			"outstanding": int64(25000), "oldest_due": time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}}}
	s := newTestService(exec)

	report, err := s.Arrears(context.Background(), models.ReportRequest{}, 7)
	if err != nil {
		t.Fatalf("Arrears returned error: %v", err)
	}
	if report.TotalOutstanding != 750.00 {
		t.Errorf("total = %v, want 750.00", report.TotalOutstanding)
	}
	if report.Entries[0].AgeBucket != "0-30" {
		t.Errorf("recent arrears bucket = %q, want 0-30", report.Entries[0].AgeBucket)
	}
	if report.Entries[1].AgeBucket != "61+" {
		t.Errorf("old arrears bucket = %q, want 61+", report.Entries[1].AgeBucket)
	}
	assertAligned(t, exec.stmts)
}

func TestUpcomingEndings_DaysUntilEnd(t *testing.T) {
	stubNow(t, time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC))

	exec := &fakeExecutor{results: [][]map[string]any{{
		{
			"tenancy_id": int64(1), "tenant_name": "Ann", "room_id": int64(2), "property_id": int64(10),
			"address": "1 High St", "end_date": time.Date(2024, 8, 25, 0, 0, 0, 0, time.UTC),
		},
	}}}
	s := newTestService(exec)

	report, err := s.UpcomingEndings(context.Background(), models.ReportRequest{}, 7)
	if err != nil {
		t.Fatalf("UpcomingEndings returned error: %v", err)
	}
	if report.DaysAhead != DefaultDaysAhead {
		t.Errorf("daysAhead = %d, want default %d", report.DaysAhead, DefaultDaysAhead)
	}
	if len(report.Endings) != 1 {
		t.Fatalf("endings = %d, want 1", len(report.Endings))
	}
	if report.Endings[0].DaysUntilEnd != 10 {
		t.Errorf("daysUntilEnd = %d, want 10", report.Endings[0].DaysUntilEnd)
	}

	stmt := exec.stmts[0]
	if !strings.Contains(stmt.Text, "t.end_date > $") || !strings.Contains(stmt.Text, "t.end_date <= $") {
		t.Errorf("expected half-open end-date window:\n%s", stmt.Text)
	}
	assertAligned(t, exec.stmts)
}

func TestRun_RetriesOnlyPoolExhaustion(t *testing.T) {
	exec := &fakeExecutor{
		errs:    []error{&apperrors.PoolExhaustedError{Err: errors.New("timeout")}, nil},
		results: [][]map[string]any{nil, {}},
	}
	s := newTestService(exec)

	if _, err := s.Portfolio(context.Background(), models.ReportRequest{}, 7); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if exec.calls != 2 {
		t.Errorf("calls = %d, want 2", exec.calls)
	}
}

func TestRun_QueryErrorPropagatesUnchanged(t *testing.T) {
	queryErr := &apperrors.QueryError{Err: errors.New(`relation "nope" does not exist`)}
	exec := &fakeExecutor{errs: []error{queryErr}}
	s := newTestService(exec)

	_, err := s.Portfolio(context.Background(), models.ReportRequest{}, 7)
	var got *apperrors.QueryError
	if !errors.As(err, &got) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if got.Err.Error() != `relation "nope" does not exist` {
		t.Errorf("engine error was rewritten: %v", got.Err)
	}
	if exec.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on execution errors)", exec.calls)
	}
}
