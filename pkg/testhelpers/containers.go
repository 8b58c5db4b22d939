// Package testhelpers provides shared integration-test infrastructure: a
// single PostgreSQL container with the engine schema and row-level-security
// policies loaded.
package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rentora-hq/rentora-engine/pkg/database"
)

// PostgresImage is the stock image used for integration tests; the schema is
// applied at startup.
const PostgresImage = "postgres:16-alpine"

// EngineDB holds a shared test database container and connection pool. The
// pool connects as the non-owner application role so row-level security is
// actually enforced; the owner pool exists for seeding and assertions that
// must bypass policies.
type EngineDB struct {
	Container testcontainers.Container
	DB        *database.DB
	OwnerPool *pgxpool.Pool
	ConnStr   string
}

var (
	sharedEngineDB     *EngineDB
	sharedEngineDBOnce sync.Once
	sharedEngineDBErr  error
)

// GetEngineDB returns a shared PostgreSQL container for integration tests.
// The container is created once and reused across all tests in the run.
func GetEngineDB(t *testing.T) *EngineDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedEngineDBOnce.Do(func() {
		sharedEngineDB, sharedEngineDBErr = setupEngineDB()
	})

	if sharedEngineDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedEngineDBErr)
	}

	return sharedEngineDB
}

func setupEngineDB() (*EngineDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "rentora_test",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	ownerConnStr := fmt.Sprintf("postgres://postgres:test_password@%s:%s/rentora_test?sslmode=disable",
		host, port.Port())

	ownerPool, err := pgxpool.New(ctx, ownerConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner pool: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err := ownerPool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	if _, err := ownerPool.Exec(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to load test schema: %w", err)
	}

	// The application connects as the non-owner role, so the isolation
	// policies apply to every scoped query the tests run.
	appConnStr := fmt.Sprintf("postgres://rentora_app:app_password@%s:%s/rentora_test?sslmode=disable",
		host, port.Port())

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            appConnStr,
		MaxConnections: 5,
		AcquireTimeout: 2 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create app pool: %w", err)
	}

	return &EngineDB{
		Container: container,
		DB:        db,
		OwnerPool: ownerPool,
		ConnStr:   appConnStr,
	}, nil
}

// ResetData truncates all tenant tables. Call between tests that seed data.
func (e *EngineDB) ResetData(t *testing.T) {
	t.Helper()
	_, err := e.OwnerPool.Exec(context.Background(),
		"TRUNCATE rent_payments, rent_charges, tenancies, rooms, properties, landlords, agencies RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to reset test data: %v", err)
	}
}
