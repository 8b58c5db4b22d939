package database

import (
	"context"
)

type contextKey string

const (
	// AgencyScopeKey is the context key for storing the agency-scoped
	// database connection.
	AgencyScopeKey contextKey = "agencyScope"
)

// GetAgencyScope retrieves the agency-scoped database connection from
// context. Returns nil and false if not present.
func GetAgencyScope(ctx context.Context) (*AgencyScope, bool) {
	scope, ok := ctx.Value(AgencyScopeKey).(*AgencyScope)
	return scope, ok
}

// SetAgencyScope stores the agency-scoped database connection in context.
func SetAgencyScope(ctx context.Context, scope *AgencyScope) context.Context {
	return context.WithValue(ctx, AgencyScopeKey, scope)
}

// AgencyScopeProvider creates agency-scoped contexts for database operations.
type AgencyScopeProvider struct {
	db *DB
}

// NewAgencyScopeProvider creates an AgencyScopeProvider for the given
// database.
func NewAgencyScopeProvider(db *DB) *AgencyScopeProvider {
	return &AgencyScopeProvider{db: db}
}

// WithAgencyScope returns a context with agency scope set for the given
// agency. The cleanup function must be called when the scope is no longer
// needed.
func (p *AgencyScopeProvider) WithAgencyScope(ctx context.Context, agencyID int64) (context.Context, func(), error) {
	scope, err := p.db.WithAgency(ctx, agencyID)
	if err != nil {
		return nil, nil, err
	}
	agencyCtx := SetAgencyScope(ctx, scope)
	return agencyCtx, func() { scope.Close() }, nil
}
