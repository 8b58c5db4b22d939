package models

// ReportContext identifies the caller as seen by the report generators. The
// agency ID is threaded separately; it comes from the authenticated session,
// never from filters.
type ReportContext struct {
	UserRole   string `json:"userRole"`
	LandlordID *int64 `json:"landlordId,omitempty"`
}

// ReportFilters narrow a report within the caller's agency. A nil filter
// means unfiltered within the agency, not fail-closed.
type ReportFilters struct {
	LandlordID *int64 `json:"landlordId,omitempty"`
	PropertyID *int64 `json:"propertyId,omitempty"`
	DaysAhead  *int   `json:"daysAhead,omitempty"`
	Year       *int   `json:"year,omitempty"`
	Month      *int   `json:"month,omitempty"`
}

// ReportOptions toggle optional report sections.
type ReportOptions struct {
	IncludeLandlordInfo bool `json:"includeLandlordInfo,omitempty"`
	IncludeNextTenant   bool `json:"includeNextTenant,omitempty"`
	GroupByProperty     bool `json:"groupByProperty,omitempty"`
}

// ReportRequest is constructed per HTTP call and discarded after the
// response is shaped.
type ReportRequest struct {
	Context ReportContext `json:"context"`
	Filters ReportFilters `json:"filters"`
	Options ReportOptions `json:"options"`
}

// PortfolioReport summarizes the agency's (or one landlord's) portfolio.
type PortfolioReport struct {
	Properties       int            `json:"properties"`
	Bedrooms         int            `json:"bedrooms"`
	OccupiedBedrooms int            `json:"occupiedBedrooms"`
	VacantBedrooms   int            `json:"vacantBedrooms"`
	OccupancyRate    int            `json:"occupancyRate"`
	MonthlyRent      float64        `json:"monthlyRent"`
	Landlord         *LandlordInfo  `json:"landlord,omitempty"`
	ByProperty       []PropertyLine `json:"byProperty,omitempty"`
}

// LandlordInfo is the optional owner block on portfolio reports.
type LandlordInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PropertyLine is the per-property breakdown on portfolio reports.
type PropertyLine struct {
	PropertyID       int64  `json:"propertyId"`
	Address          string `json:"address"`
	Bedrooms         int    `json:"bedrooms"`
	OccupiedBedrooms int    `json:"occupiedBedrooms"`
	VacantBedrooms   int    `json:"vacantBedrooms"`
	OccupancyRate    int    `json:"occupancyRate"`
}

// OccupancyReport lists each room with its current and next occupant.
type OccupancyReport struct {
	Rooms []RoomOccupancy `json:"rooms"`
}

// RoomOccupancy describes one room. Occupant fields are nil for rooms with
// no current or next tenancy.
type RoomOccupancy struct {
	RoomID     int64     `json:"roomId"`
	RoomName   string    `json:"roomName"`
	PropertyID int64     `json:"propertyId"`
	Address    string    `json:"address"`
	Current    *Occupant `json:"current,omitempty"`
	Next       *Occupant `json:"next,omitempty"`
}

// Occupant is a tenancy summary on occupancy rows.
type Occupant struct {
	TenancyID  int64   `json:"tenancyId"`
	TenantName string  `json:"tenantName"`
	StartDate  string  `json:"startDate"`
	EndDate    *string `json:"endDate,omitempty"`
	Rent       float64 `json:"rent"`
}

// FinancialReport is the monthly breakdown plus annual totals for one year.
// Annual totals are the sum of the twelve monthly rows, never a separate
// query, so rounding and filters stay consistent.
type FinancialReport struct {
	Year   int             `json:"year"`
	Months []MonthlyTotals `json:"months"`
	Annual AnnualTotals    `json:"annual"`
}

// MonthlyTotals is one month's rollup.
type MonthlyTotals struct {
	Month          int     `json:"month"`
	RentDue        float64 `json:"rentDue"`
	RentCollected  float64 `json:"rentCollected"`
	CollectionRate int     `json:"collectionRate"`
}

// AnnualTotals is the sum across months.
type AnnualTotals struct {
	RentDue        float64 `json:"rentDue"`
	RentCollected  float64 `json:"rentCollected"`
	CollectionRate int     `json:"collectionRate"`
}

// ArrearsReport lists tenancies with outstanding balances.
type ArrearsReport struct {
	Entries          []ArrearsEntry `json:"entries"`
	TotalOutstanding float64        `json:"totalOutstanding"`
}

// ArrearsEntry is one tenancy's outstanding position, bucketed by the age of
// the oldest unpaid charge.
type ArrearsEntry struct {
	TenancyID   int64   `json:"tenancyId"`
	TenantName  string  `json:"tenantName"`
	PropertyID  int64   `json:"propertyId"`
	Address     string  `json:"address"`
	Outstanding float64 `json:"outstanding"`
	OldestDue   string  `json:"oldestDue"`
	AgeBucket   string  `json:"ageBucket"`
}

// EndingsReport lists tenancies ending within the requested window.
type EndingsReport struct {
	DaysAhead int           `json:"daysAhead"`
	Endings   []EndingEntry `json:"endings"`
}

// EndingEntry is one ending tenancy, with the replacement occupant when one
// is already booked and requested.
type EndingEntry struct {
	TenancyID    int64     `json:"tenancyId"`
	TenantName   string    `json:"tenantName"`
	RoomID       int64     `json:"roomId"`
	PropertyID   int64     `json:"propertyId"`
	Address      string    `json:"address"`
	EndDate      string    `json:"endDate"`
	DaysUntilEnd int       `json:"daysUntilEnd"`
	NextTenant   *Occupant `json:"nextTenant,omitempty"`
}
