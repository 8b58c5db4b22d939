// Package reports implements the reporting engines: portfolio, occupancy,
// financial, arrears, and upcoming-endings. Each generator builds one or
// more queries, executes them under the caller's agency, and shapes rows
// into the report payload.
package reports

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
	"github.com/rentora-hq/rentora-engine/pkg/retry"
)

// now is stubbed in tests that pin derived-date fields.
var now = time.Now

// defaultCacheTTL bounds staleness for cached reports.
const defaultCacheTTL = 5 * time.Minute

// Executor is the execution surface the generators consume. Satisfied by
// *database.Gateway.
type Executor interface {
	ScopedQuery(ctx context.Context, stmt querybuilder.Statement, agencyID int64) ([]map[string]any, error)
}

// Service owns the report generators and their shared execution policy:
// bounded retry on pool exhaustion, everything else propagated unchanged.
type Service struct {
	exec             Executor
	cache            *Cache
	logger           *zap.Logger
	retryCfg         *retry.Config
	cacheTTL         time.Duration
	defaultDaysAhead int
}

// NewService creates a report service. cache may be nil; reports are then
// computed on every call.
func NewService(exec Executor, cache *Cache, logger *zap.Logger) *Service {
	return &Service{
		exec:             exec,
		cache:            cache,
		logger:           logger.Named("reports"),
		retryCfg:         retry.DefaultConfig(),
		cacheTTL:         defaultCacheTTL,
		defaultDaysAhead: DefaultDaysAhead,
	}
}

// SetCacheTTL overrides how long computed reports stay cached.
func (s *Service) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// SetDefaultDaysAhead overrides the endings window used when a request
// carries no daysAhead filter.
func (s *Service) SetDefaultDaysAhead(days int) {
	if days > 0 {
		s.defaultDaysAhead = days
	}
}

// run executes one statement under the agency, retrying only when the pool
// was exhausted. All four error kinds reach the caller unchanged otherwise.
func (s *Service) run(ctx context.Context, stmt querybuilder.Statement, agencyID int64) ([]map[string]any, error) {
	var rows []map[string]any
	err := retry.DoIfRetryable(ctx, s.retryCfg, func() error {
		var execErr error
		rows, execErr = s.exec.ScopedQuery(ctx, stmt, agencyID)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func today() time.Time {
	return now().Truncate(24 * time.Hour)
}
