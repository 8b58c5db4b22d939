// Package platform holds the operations that run without an agency scope.
// Every query here goes through Gateway.SystemQuery, which is the auditable
// set of unscoped call sites; the only table touched is agencies, which
// carries no row-level policy.
package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
	"github.com/rentora-hq/rentora-engine/pkg/models"
	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
	"github.com/rentora-hq/rentora-engine/pkg/sqlguard"
)

// SystemExecutor runs statements without an agency scope.
type SystemExecutor interface {
	SystemQuery(ctx context.Context, stmt querybuilder.Statement) ([]map[string]any, error)
}

// AgencyService manages agency provisioning and platform-level listings.
type AgencyService interface {
	// Provision creates a new agency and returns it with its assigned ID.
	Provision(ctx context.Context, name string) (*models.Agency, error)

	// Get retrieves a single agency by ID.
	Get(ctx context.Context, id int64) (*models.Agency, error)

	// List returns all agencies, newest first.
	List(ctx context.Context) ([]models.Agency, error)

	// Suspend marks an agency as suspended. Suspended agencies keep their
	// data but their users can no longer authenticate.
	Suspend(ctx context.Context, id int64) (*models.Agency, error)
}

type agencyService struct {
	exec   SystemExecutor
	logger *zap.Logger
}

// NewAgencyService creates a new agency service.
func NewAgencyService(exec SystemExecutor, logger *zap.Logger) AgencyService {
	return &agencyService{
		exec:   exec,
		logger: logger.Named("platform"),
	}
}

var _ AgencyService = (*agencyService)(nil)

func (s *agencyService) Provision(ctx context.Context, name string) (*models.Agency, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("agency name is required")
	}
	if res := sqlguard.CheckValue(name); res != nil {
		return nil, fmt.Errorf("agency name rejected: injection pattern detected (fingerprint %s)", res.Fingerprint)
	}

	stmt := querybuilder.Statement{
		Text: "INSERT INTO agencies (name, status) VALUES ($1, 'active') RETURNING id, name, status, created_at",
		Args: []any{name},
	}

	rows, err := s.exec.SystemQuery(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to provision agency: %w", err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("failed to provision agency: expected 1 row, got %d", len(rows))
	}

	agency := agencyFromRow(rows[0])
	s.logger.Info("Provisioned agency",
		zap.Int64("agency_id", agency.ID),
		zap.String("name", agency.Name))

	return &agency, nil
}

func (s *agencyService) Get(ctx context.Context, id int64) (*models.Agency, error) {
	stmt := querybuilder.Statement{
		Text: "SELECT id, name, status, created_at FROM agencies WHERE id = $1",
		Args: []any{id},
	}

	rows, err := s.exec.SystemQuery(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to get agency %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("agency %d: %w", id, apperrors.ErrNotFound)
	}

	agency := agencyFromRow(rows[0])
	return &agency, nil
}

func (s *agencyService) List(ctx context.Context) ([]models.Agency, error) {
	stmt := querybuilder.Statement{
		Text: "SELECT id, name, status, created_at FROM agencies ORDER BY created_at DESC, id DESC",
	}

	rows, err := s.exec.SystemQuery(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list agencies: %w", err)
	}

	agencies := make([]models.Agency, 0, len(rows))
	for _, row := range rows {
		agencies = append(agencies, agencyFromRow(row))
	}
	return agencies, nil
}

func (s *agencyService) Suspend(ctx context.Context, id int64) (*models.Agency, error) {
	stmt := querybuilder.Statement{
		Text: "UPDATE agencies SET status = 'suspended' WHERE id = $1 RETURNING id, name, status, created_at",
		Args: []any{id},
	}

	rows, err := s.exec.SystemQuery(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to suspend agency %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("agency %d: %w", id, apperrors.ErrNotFound)
	}

	agency := agencyFromRow(rows[0])
	s.logger.Info("Suspended agency", zap.Int64("agency_id", agency.ID))

	return &agency, nil
}

func agencyFromRow(row map[string]any) models.Agency {
	agency := models.Agency{
		Name:   stringValue(row["name"]),
		Status: stringValue(row["status"]),
	}
	switch v := row["id"].(type) {
	case int64:
		agency.ID = v
	case int32:
		agency.ID = int64(v)
	}
	if t, ok := row["created_at"].(time.Time); ok {
		agency.CreatedAt = t
	}
	return agency
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
