package mcs

import (
	"math"
	"testing"

	"github.com/maphoenix/solarroi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEstimator(t *testing.T) *Estimator {
	t.Helper()
	g, err := New(embeddedDataset)
	require.NoError(t, err)
	return NewEstimator(g)
}

func TestEstimateExactMatch(t *testing.T) {
	e := testEstimator(t)

	// When every coordinate hits a measured point the stored value comes back
	// with no interpolation drift.
	want, ok := e.grid.Lookup(3, 3000, 2000, 5)
	require.True(t, ok)

	got, err := e.Estimate(2000, 5, 3000, 3.0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEstimateClamped(t *testing.T) {
	e := testEstimator(t)

	for _, tc := range []struct {
		pv, batt, usage, occ float64
	}{
		{0, 0, 0, 0.5},
		{0, 0, 100000, 5.0},
		{10000, 20, 4000, 3.0},
		{50000, 100, 2000, 1.7},
		{123, 0.3, 3456, 4.2},
	} {
		got, err := e.Estimate(tc.pv, tc.batt, tc.usage, tc.occ)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	}
}

func TestEstimateMonotonic(t *testing.T) {
	e := testEstimator(t)

	t.Run("PV", func(t *testing.T) {
		prev := -1.0
		for pv := 0.0; pv <= 15000; pv += 250 {
			got, err := e.Estimate(pv, 5, 4000, 3.0)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, prev, "pv=%v", pv)
			prev = got
		}
	})

	t.Run("Battery", func(t *testing.T) {
		prev := -1.0
		for batt := 0.0; batt <= 30; batt++ {
			got, err := e.Estimate(3000, batt, 4000, 3.0)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, prev, "battery=%v", batt)
			prev = got
		}
	})
}

func TestEstimateExtrapolation(t *testing.T) {
	e := testEstimator(t)

	// Beyond the largest measured PV bucket the diminishing-returns model
	// applies to the excess.
	base, ok := e.grid.Lookup(3, 3000, 10000, 5)
	require.True(t, ok)

	got, err := e.Estimate(12000, 5, 3000, 3.0)
	require.NoError(t, err)
	want := 100 - (100-base)*math.Exp(-pvExtrapolationRate*2000)
	assert.InDelta(t, want, got, 1e-9)
	assert.Greater(t, got, base)
	assert.Less(t, got, 100.0)
}

func TestEstimateOccupancyInterpolation(t *testing.T) {
	e := testEstimator(t)

	v1, err := e.Estimate(2000, 5, 3000, 1.0)
	require.NoError(t, err)
	v3, err := e.Estimate(2000, 5, 3000, 3.0)
	require.NoError(t, err)
	require.Greater(t, v3, v1, "higher occupancy consumes more on-site")

	// Equidistant between the two categories the weights are equal.
	mid, err := e.Estimate(2000, 5, 3000, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, (v1+v3)/2, mid, 1e-9)

	// Closer to a category, that category dominates.
	near3, err := e.Estimate(2000, 5, 3000, 2.8)
	require.NoError(t, err)
	assert.Greater(t, near3, mid)
	assert.Less(t, near3, v3)

	// Below the lowest category collapses to it.
	low, err := e.Estimate(2000, 5, 3000, 0.5)
	require.NoError(t, err)
	assert.Equal(t, v1, low)
}

func TestEstimateIdempotent(t *testing.T) {
	e := testEstimator(t)

	a, err := e.Estimate(2750, 7.5, 4100, 2.3)
	require.NoError(t, err)
	b, err := e.Estimate(2750, 7.5, 4100, 2.3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEstimateInvalidInput(t *testing.T) {
	e := testEstimator(t)

	for name, args := range map[string][4]float64{
		"negative pv":        {-1, 5, 4000, 3},
		"negative battery":   {2000, -0.5, 4000, 3},
		"negative usage":     {2000, 5, -100, 3},
		"occupancy too low":  {2000, 5, 4000, 0.4},
		"occupancy too high": {2000, 5, 4000, 5.5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := e.Estimate(args[0], args[1], args[2], args[3])
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidInput)
		})
	}
}

func TestEstimateUsageBandSelection(t *testing.T) {
	e := testEstimator(t)

	// Usage below every band falls back to the lowest band.
	below, err := e.Estimate(2000, 5, 100, 3.0)
	require.NoError(t, err)
	lowest, err := e.Estimate(2000, 5, 1500, 3.0)
	require.NoError(t, err)
	assert.Equal(t, lowest, below)

	// Usage between bands selects the nearest band at or below it.
	between, err := e.Estimate(2000, 5, 3400, 3.0)
	require.NoError(t, err)
	at3000, err := e.Estimate(2000, 5, 3000, 3.0)
	require.NoError(t, err)
	assert.Equal(t, at3000, between)
}
