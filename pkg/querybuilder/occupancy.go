package querybuilder

import "time"

// CTE names registered by the occupancy helpers.
const (
	CurrentTenancyCTEName = "current_tenancy"
	NextTenancyCTEName    = "next_tenancy"
)

// currentTenancyBody ranks tenancies per room by most recent start first, so
// when two tenancies overlap the most recently started one wins. Only
// tenancies that have started and not yet ended qualify.
const currentTenancyBody = `SELECT * FROM (
		SELECT t.id, t.room_id, t.tenant_name, t.start_date, t.end_date, t.rent_cents,
		       ROW_NUMBER() OVER (PARTITION BY t.room_id ORDER BY t.start_date DESC, t.id DESC) AS rn
		FROM tenancies t
		WHERE t.start_date <= ? AND (t.end_date IS NULL OR t.end_date >= ?)
	) ranked WHERE rn = 1`

// nextTenancyBody ranks future tenancies per room by soonest start first.
const nextTenancyBody = `SELECT * FROM (
		SELECT t.id, t.room_id, t.tenant_name, t.start_date, t.end_date, t.rent_cents,
		       ROW_NUMBER() OVER (PARTITION BY t.room_id ORDER BY t.start_date ASC, t.id ASC) AS rn
		FROM tenancies t
		WHERE t.start_date > ?
	) ranked WHERE rn = 1`

// WithCurrentTenancy registers the current-occupant-per-room CTE. Consumers
// LEFT JOIN it on room_id so vacant rooms survive as null columns rather than
// dropped rows.
func (b *Builder) WithCurrentTenancy() *Builder {
	today := today()
	return b.WithCTE(CurrentTenancyCTEName, currentTenancyBody, today, today)
}

// WithNextTenancy registers the next-occupant-per-room CTE: the soonest
// tenancy starting strictly after today, one row per room.
func (b *Builder) WithNextTenancy() *Builder {
	return b.WithCTE(NextTenancyCTEName, nextTenancyBody, today())
}

func today() time.Time {
	return now().Truncate(24 * time.Hour)
}
