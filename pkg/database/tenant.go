package database

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
)

// AgencyScope wraps a connection with agency context and ensures cleanup.
// The connection has app.current_agency_id set for RLS policy evaluation.
// An AgencyScope can only be obtained by performing the set-context step, so
// a scoped call site cannot accidentally run unscoped SQL.
type AgencyScope struct {
	Conn *pgxpool.Conn

	// AgencyID is the agency bound to this connection, zero for the
	// unscoped system path.
	AgencyID int64
}

// Close resets session configuration and releases the connection to the pool.
// This MUST be called to prevent agency context from leaking to the next
// request that checks out the same connection.
func (s *AgencyScope) Close() {
	if s.Conn == nil {
		return
	}
	// RESET ALL also clears the statement timeout set at acquire time.
	_, _ = s.Conn.Exec(context.Background(), "RESET ALL")
	s.Conn.Release()
	s.Conn = nil
}

// WithAgency acquires a connection and sets the agency context for RLS.
// The sequence is strict: acquire, set context, hand the scope to the caller.
// If the set-context step fails the connection is released and a
// TenantContextError is returned; execution never falls through unscoped.
// The returned AgencyScope MUST be closed with defer scope.Close().
func (db *DB) WithAgency(ctx context.Context, agencyID int64) (*AgencyScope, error) {
	conn, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}

	_, err = conn.Exec(ctx, "SELECT set_config('app.current_agency_id', $1, false)", strconv.FormatInt(agencyID, 10))
	if err != nil {
		conn.Release()
		return nil, &apperrors.TenantContextError{AgencyID: agencyID, Err: err}
	}

	if err := setStatementTimeout(ctx, conn, db.statementTimeout); err != nil {
		conn.Release()
		return nil, &apperrors.TenantContextError{AgencyID: agencyID, Err: err}
	}

	return &AgencyScope{Conn: conn, AgencyID: agencyID}, nil
}

// WithoutAgency acquires a connection without agency context. Use this only
// for platform-staff operations that legitimately cross agencies (agency
// provisioning, cross-agency audits). The distinct name keeps scoped and
// unscoped access impossible to confuse at a call site.
// The returned AgencyScope MUST be closed with defer scope.Close().
func (db *DB) WithoutAgency(ctx context.Context) (*AgencyScope, error) {
	conn, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	if err := setStatementTimeout(ctx, conn, db.statementTimeout); err != nil {
		conn.Release()
		return nil, err
	}
	return &AgencyScope{Conn: conn}, nil
}

// acquire checks a connection out of the pool, bounding the wait so that an
// exhausted pool surfaces as a distinguishable, retryable error instead of a
// silent hang.
func (db *DB) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, db.acquireTimeout)
	defer cancel()

	conn, err := db.Pool.Acquire(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &apperrors.PoolExhaustedError{RetryAfter: db.acquireTimeout / 2, Err: err}
		}
		return nil, err
	}
	return conn, nil
}

func setStatementTimeout(ctx context.Context, conn *pgxpool.Conn, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}
	_, err := conn.Exec(ctx, "SELECT set_config('statement_timeout', $1, false)",
		strconv.FormatInt(timeout.Milliseconds(), 10))
	return err
}
