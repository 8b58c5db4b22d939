package platform

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
	"github.com/rentora-hq/rentora-engine/pkg/querybuilder"
)

type fakeSystemExecutor struct {
	results [][]map[string]any
	errs    []error
	stmts   []querybuilder.Statement
}

func (f *fakeSystemExecutor) SystemQuery(_ context.Context, stmt querybuilder.Statement) ([]map[string]any, error) {
	f.stmts = append(f.stmts, stmt)
	i := len(f.stmts) - 1
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var rows []map[string]any
	if i < len(f.results) {
		rows = f.results[i]
	}
	return rows, err
}

func agencyRow(id int64, name, status string) map[string]any {
	return map[string]any{
		"id":         id,
		"name":       name,
		"status":     status,
		"created_at": time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestProvisionReturnsAssignedID(t *testing.T) {
	exec := &fakeSystemExecutor{
		results: [][]map[string]any{{agencyRow(7, "Northgate Lettings", "active")}},
	}
	svc := NewAgencyService(exec, zap.NewNop())

	agency, err := svc.Provision(context.Background(), "Northgate Lettings")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if agency.ID != 7 {
		t.Errorf("ID = %d, want 7", agency.ID)
	}
	if agency.Status != "active" {
		t.Errorf("Status = %q, want active", agency.Status)
	}

	if len(exec.stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(exec.stmts))
	}
	stmt := exec.stmts[0]
	if !strings.Contains(stmt.Text, "INSERT INTO agencies") {
		t.Errorf("unexpected statement: %s", stmt.Text)
	}
	if len(stmt.Args) != 1 || stmt.Args[0] != "Northgate Lettings" {
		t.Errorf("unexpected args: %v", stmt.Args)
	}
}

func TestProvisionRejectsEmptyName(t *testing.T) {
	exec := &fakeSystemExecutor{}
	svc := NewAgencyService(exec, zap.NewNop())

	if _, err := svc.Provision(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank name")
	}
	if len(exec.stmts) != 0 {
		t.Errorf("no statement should run for a blank name, got %d", len(exec.stmts))
	}
}

func TestProvisionRejectsInjectionPayload(t *testing.T) {
	exec := &fakeSystemExecutor{}
	svc := NewAgencyService(exec, zap.NewNop())

	if _, err := svc.Provision(context.Background(), "x' OR '1'='1"); err == nil {
		t.Fatal("expected error for injection payload")
	}
	if len(exec.stmts) != 0 {
		t.Errorf("no statement should run for a rejected name, got %d", len(exec.stmts))
	}
}

func TestGetNotFound(t *testing.T) {
	exec := &fakeSystemExecutor{results: [][]map[string]any{{}}}
	svc := NewAgencyService(exec, zap.NewNop())

	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	exec := &fakeSystemExecutor{
		results: [][]map[string]any{{
			agencyRow(2, "Beta", "active"),
			agencyRow(1, "Alpha", "active"),
		}},
	}
	svc := NewAgencyService(exec, zap.NewNop())

	agencies, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(agencies) != 2 {
		t.Fatalf("got %d agencies, want 2", len(agencies))
	}
	if agencies[0].ID != 2 {
		t.Errorf("first agency ID = %d, want 2", agencies[0].ID)
	}
	if !strings.Contains(exec.stmts[0].Text, "ORDER BY created_at DESC") {
		t.Errorf("listing should order newest first: %s", exec.stmts[0].Text)
	}
}

func TestSuspend(t *testing.T) {
	exec := &fakeSystemExecutor{
		results: [][]map[string]any{{agencyRow(3, "Gamma", "suspended")}},
	}
	svc := NewAgencyService(exec, zap.NewNop())

	agency, err := svc.Suspend(context.Background(), 3)
	if err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if agency.Status != "suspended" {
		t.Errorf("Status = %q, want suspended", agency.Status)
	}
}
