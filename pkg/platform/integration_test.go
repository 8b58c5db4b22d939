//go:build integration

package platform_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/database"
	"github.com/rentora-hq/rentora-engine/pkg/platform"
	"github.com/rentora-hq/rentora-engine/pkg/testhelpers"
)

func TestAgencyLifecycle(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	engineDB.ResetData(t)

	gateway := database.NewGateway(engineDB.DB, zap.NewNop())
	svc := platform.NewAgencyService(gateway, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Provision(ctx, "Harbour View Lettings")
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.Equal(t, "active", first.Status)

	second, err := svc.Provision(ctx, "Northgate Lettings")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Harbour View Lettings", got.Name)

	agencies, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, agencies, 2)

	suspended, err := svc.Suspend(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, "suspended", suspended.Status)

	// Suspension only changes status; the agency and its data remain.
	agencies, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, agencies, 2)
}
