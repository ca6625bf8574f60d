package roi

import (
	"testing"

	"github.com/maphoenix/solarroi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTariff = types.Tariff{
	Name:        "Intelligent Octopus Go",
	PeakRate:    0.2771,
	OffPeakRate: 0.075,
	ExportRate:  0.15,
	EVRequired:  true,
}

func testSizing() types.SystemSizing {
	return types.SystemSizing{
		BatterySizeKWH: 17.5,
		SolarSizeKW:    4.0,
		AnnualUsageKWH: 4000,
		OccupancyValue: 4.0,
	}
}

func TestCalculateSavings(t *testing.T) {
	c := DefaultSavingsConfig()
	res, err := c.CalculateSavings(testSizing(), testTariff, 50)
	require.NoError(t, err)

	// usable capacity 15.75 kWh cycles more than annual usage, so shiftable
	// energy is capped at 4000 kWh:
	// 4000 * (0.2771 - 0.075) * 0.85
	assert.InDelta(t, 687.14, res.BatterySavings, 0.005)
	// 3400 kWh generated, half self-used at peak rate, half exported at 60%
	// efficiency: 1700*0.2771 + 1020*0.15
	assert.InDelta(t, 624.07, res.SolarSavings, 0.005)
	assert.InDelta(t, 1311.21, res.Total(), 0.01)
}

func TestCalculateSavingsUsageCap(t *testing.T) {
	c := DefaultSavingsConfig()
	sizing := testSizing()
	sizing.AnnualUsageKWH = 100000

	res, err := c.CalculateSavings(sizing, testTariff, 50)
	require.NoError(t, err)

	// Not usage-capped: 17.5 * 0.90 * 365 cycles.
	shiftable := 17.5 * 0.90 * 365
	assert.InDelta(t, shiftable*(0.2771-0.075)*0.85, res.BatterySavings, 0.01)
}

func TestCalculateSavingsNegativeClamp(t *testing.T) {
	c := DefaultSavingsConfig()
	inverted := types.Tariff{Name: "Inverted", PeakRate: 0.10, OffPeakRate: 0.30, ExportRate: 0.05}

	res, err := c.CalculateSavings(testSizing(), inverted, 50)
	require.NoError(t, err)
	assert.Zero(t, res.BatterySavings)
	assert.Greater(t, res.SolarSavings, 0.0)
}

func TestCalculateSavingsZeroSystem(t *testing.T) {
	c := DefaultSavingsConfig()
	res, err := c.CalculateSavings(types.SystemSizing{OccupancyValue: 1}, testTariff, 50)
	require.NoError(t, err)
	assert.Zero(t, res.BatterySavings)
	assert.Zero(t, res.SolarSavings)
}

func TestCalculateSavingsInvalid(t *testing.T) {
	c := DefaultSavingsConfig()

	bad := testSizing()
	bad.BatterySizeKWH = -1
	_, err := c.CalculateSavings(bad, testTariff, 50)
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = c.CalculateSavings(testSizing(), testTariff, 101)
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = c.CalculateSavings(testSizing(), types.Tariff{PeakRate: -0.1}, 50)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestBestTariff(t *testing.T) {
	c := DefaultSavingsConfig()
	tariffs := []types.Tariff{
		{Name: "Flat", PeakRate: 0.28, OffPeakRate: 0.28, ExportRate: 0.05},
		testTariff,
		{Name: "Flux", PeakRate: 0.2758, OffPeakRate: 0.1655, ExportRate: 0.2922},
	}

	all, best, err := c.BestTariff(testSizing(), tariffs, 50, true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.GreaterOrEqual(t, best, 0)
	assert.Equal(t, "Intelligent Octopus Go", all[best].Tariff.Name)
	for _, ts := range all {
		assert.LessOrEqual(t, ts.TotalSavings, all[best].TotalSavings)
		assert.InDelta(t, ts.Savings.Total(), ts.TotalSavings, 1e-9)
	}
}

func TestBestTariffSkipsEVOnly(t *testing.T) {
	c := DefaultSavingsConfig()
	tariffs := []types.Tariff{
		testTariff,
		{Name: "Flux", PeakRate: 0.2758, OffPeakRate: 0.1655, ExportRate: 0.2922},
	}

	all, best, err := c.BestTariff(testSizing(), tariffs, 50, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Flux", all[best].Tariff.Name)

	all, best, err = c.BestTariff(testSizing(), []types.Tariff{testTariff}, 50, false)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, -1, best)
}
