package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/maphoenix/solarroi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreProvider(t *testing.T) {
	// Requires a local Firestore emulator
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	// Use a test project ID
	projectID := "test-project-id"

	// Use a random database for isolation
	randDB := fmt.Sprintf("test-db-%d", time.Now().UnixNano())
	f := &FirestoreProvider{
		projectID: projectID,
		database:  randDB,
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
	})

	t.Run("Tariffs", func(t *testing.T) {
		// Empty catalog before anything is stored
		tariffs, version, err := f.GetTariffs(ctx)
		require.NoError(t, err)
		assert.Empty(t, tariffs)
		assert.Equal(t, 0, version)

		catalog := []types.Tariff{
			{Name: "Octopus Flux", PeakRate: 0.2758, OffPeakRate: 0.1655, ExportRate: 0.2922},
			{Name: "Intelligent Octopus Go", PeakRate: 0.2771, OffPeakRate: 0.075, ExportRate: 0.15, EVRequired: true},
		}
		require.NoError(t, f.SetTariffs(ctx, catalog, 2))

		tariffs, version, err = f.GetTariffs(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, version)
		assert.Equal(t, catalog, tariffs)
	})

	t.Run("Reports", func(t *testing.T) {
		report := types.Report{
			ID:        "report-1",
			CreatedAt: time.Now().UTC().Truncate(time.Second),
			Request:   types.DefaultCalculationRequest(),
			Response: types.CalculationResponse{
				BestTariff:    "Octopus Flux",
				YearlySavings: 1234.5,
			},
		}
		require.NoError(t, f.SaveReport(ctx, report))

		got, err := f.GetReport(ctx, "report-1")
		require.NoError(t, err)
		assert.Equal(t, report.ID, got.ID)
		assert.Equal(t, report.Response.BestTariff, got.Response.BestTariff)

		_, err = f.GetReport(ctx, "nope")
		assert.ErrorIs(t, err, ErrReportNotFound)

		recent, err := f.ListRecentReports(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "report-1", recent[0].ID)
	})

	t.Run("MissingID", func(t *testing.T) {
		err := f.SaveReport(ctx, types.Report{})
		assert.ErrorContains(t, err, "missing id")
	})
}
