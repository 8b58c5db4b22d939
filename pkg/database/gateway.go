package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
	"github.com/rentora-hq/rentora-engine/pkg/logging"
	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
)

// Gateway is the single execution surface over the shared pool. Scoped and
// system execution are separate methods with visibly different signatures;
// there is no way to run agency data queries without naming the agency.
type Gateway struct {
	db     *DB
	logger *zap.Logger
}

// NewGateway creates a Gateway over the given database.
func NewGateway(db *DB, logger *zap.Logger) *Gateway {
	return &Gateway{db: db, logger: logger.Named("gateway")}
}

// ScopedQuery runs a statement under the given agency's context. It drives
// the full lifecycle on a single connection: acquire, set context, execute,
// release. Release happens on every exit path. Rows are materialized before
// the connection is returned to the pool.
func (g *Gateway) ScopedQuery(ctx context.Context, stmt querybuilder.Statement, agencyID int64) ([]map[string]any, error) {
	// A request-scoped connection set up by middleware is reused when it is
	// bound to the same agency, so one HTTP request runs its report queries
	// on one connection.
	if scope, ok := GetAgencyScope(ctx); ok && scope.AgencyID == agencyID && scope.Conn != nil {
		return g.collect(ctx, scope, stmt, zap.Int64("agency_id", agencyID))
	}

	scope, err := g.db.WithAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	return g.collect(ctx, scope, stmt, zap.Int64("agency_id", agencyID))
}

// SystemQuery runs a statement without agency context. Call sites are
// restricted to platform-staff operations and every invocation is logged
// with a correlation ID so unscoped access stays auditable.
func (g *Gateway) SystemQuery(ctx context.Context, stmt querybuilder.Statement) ([]map[string]any, error) {
	eventID := uuid.New()
	g.logger.Info("unscoped system query",
		zap.String("event_id", eventID.String()),
		zap.String("sql", stmt.Text))

	scope, err := g.db.WithoutAgency(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	return g.collect(ctx, scope, stmt, zap.String("event_id", eventID.String()))
}

func (g *Gateway) collect(ctx context.Context, scope *AgencyScope, stmt querybuilder.Statement, field zap.Field) ([]map[string]any, error) {
	rows, err := scope.Conn.Query(ctx, stmt.Text, stmt.Args...)
	if err != nil {
		g.logFailure(stmt, err, field)
		return nil, &apperrors.QueryError{Err: err}
	}

	results, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		g.logFailure(stmt, err, field)
		return nil, &apperrors.QueryError{Err: err}
	}
	return results, nil
}

// logFailure records the failed statement with bound values redacted. The
// error itself propagates to the caller verbatim.
func (g *Gateway) logFailure(stmt querybuilder.Statement, err error, field zap.Field) {
	g.logger.Error("query execution failed",
		field,
		zap.String("sql", stmt.Text),
		zap.Strings("args", logging.SanitizeArgs(stmt.Args)),
		zap.Error(err))
}
