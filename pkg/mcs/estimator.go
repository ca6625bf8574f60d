package mcs

import (
	"fmt"
	"math"

	"github.com/maphoenix/solarroi/pkg/types"
)

const (
	// Diminishing-returns rates for sizes beyond the nearest measured bucket.
	// Each extra kWh of PV or battery closes part of the remaining gap to
	// 100%, so the curve is non-decreasing and asymptotically approaches 100.
	pvExtrapolationRate      = 0.0003
	batteryExtrapolationRate = 0.15

	// Decay rate for weighting the two occupancy categories bracketing a
	// continuous occupancy value.
	occupancyDecayRate = 0.1
)

// Estimator produces self-consumption estimates for arbitrary system sizes
// by combining exact grid lookups with extrapolation and occupancy
// interpolation. It is stateless beyond the immutable grid.
type Estimator struct {
	grid *Grid
}

// NewEstimator returns an Estimator over the given grid.
func NewEstimator(g *Grid) *Estimator {
	return &Estimator{grid: g}
}

// Estimate returns the estimated self-consumption percentage in [0, 100] for
// the given annual PV generation (kWh), battery size (kWh), annual usage
// (kWh), and continuous occupancy value (0.5-5.0).
func (e *Estimator) Estimate(pvKWH, batteryKWH, usageKWH, occupancyValue float64) (float64, error) {
	if pvKWH < 0 {
		return 0, types.InvalidInputf("pvKWH", "must be >= 0, got %v", pvKWH)
	}
	if batteryKWH < 0 {
		return 0, types.InvalidInputf("batteryKWH", "must be >= 0, got %v", batteryKWH)
	}
	if usageKWH < 0 {
		return 0, types.InvalidInputf("usageKWH", "must be >= 0, got %v", usageKWH)
	}
	if occupancyValue < types.MinOccupancyValue || occupancyValue > types.MaxOccupancyValue {
		return 0, types.InvalidInputf("occupancyValue", "must be between %v and %v, got %v",
			types.MinOccupancyValue, types.MaxOccupancyValue, occupancyValue)
	}

	band, err := e.selectUsageBand(usageKWH)
	if err != nil {
		return 0, err
	}

	lo, hi, err := e.bracketOccupancy(band, occupancyValue)
	if err != nil {
		return 0, err
	}

	loVal, err := e.extrapolated(band, lo, pvKWH, batteryKWH)
	if err != nil {
		return 0, err
	}

	var estimate float64
	if lo == hi {
		estimate = loVal
	} else {
		hiVal, err := e.extrapolated(band, hi, pvKWH, batteryKWH)
		if err != nil {
			return 0, err
		}
		// Exponential-decay weighting on the distance to each category: the
		// closer category dominates and an exact match collapses to it.
		loW := math.Exp(-occupancyDecayRate * math.Abs(occupancyValue-float64(lo)))
		hiW := math.Exp(-occupancyDecayRate * math.Abs(occupancyValue-float64(hi)))
		estimate = (loVal*loW + hiVal*hiW) / (loW + hiW)
	}

	// Hard invariant regardless of intermediate arithmetic.
	return math.Min(100, math.Max(0, estimate)), nil
}

// selectUsageBand picks the nearest band <= usage, or the lowest band when
// usage falls below all of them.
func (e *Estimator) selectUsageBand(usageKWH float64) (int, error) {
	bands := e.grid.UsageBands()
	if len(bands) == 0 {
		return 0, fmt.Errorf("%w: self-consumption grid has no usage bands", types.ErrConfiguration)
	}
	band := bands[0]
	for _, b := range bands {
		if float64(b) <= usageKWH {
			band = b
		}
	}
	return band, nil
}

// bracketOccupancy returns the two measured occupancy categories surrounding
// the continuous value. Values outside the measured range collapse to the
// nearest category.
func (e *Estimator) bracketOccupancy(band int, occupancyValue float64) (int, int, error) {
	cats := e.grid.OccupancyCategories(band)
	if len(cats) == 0 {
		return 0, 0, fmt.Errorf("%w: no occupancy data for usage band %d", types.ErrConfiguration, band)
	}
	lo, hi := cats[0], cats[len(cats)-1]
	for _, c := range cats {
		if float64(c) <= occupancyValue && c > lo {
			lo = c
		}
		if float64(c) >= occupancyValue && c < hi {
			hi = c
		}
	}
	if occupancyValue <= float64(cats[0]) {
		return cats[0], cats[0], nil
	}
	if occupancyValue >= float64(cats[len(cats)-1]) {
		last := cats[len(cats)-1]
		return last, last, nil
	}
	return lo, hi, nil
}

// extrapolated finds the nearest measured point at or below the requested
// sizes within (band, occupancy) and applies the diminishing-returns model to
// any excess beyond the matched buckets.
func (e *Estimator) extrapolated(band, occupancyDays int, pvKWH, batteryKWH float64) (float64, error) {
	pvs := e.grid.pvBucketsFor(band, occupancyDays)
	if len(pvs) == 0 {
		return 0, fmt.Errorf("%w: no pv data for usage band %d occupancy %d", types.ErrConfiguration, band, occupancyDays)
	}
	pvBucket := pvs[0]
	for _, p := range pvs {
		if float64(p) <= pvKWH {
			pvBucket = p
		}
	}

	batts := e.grid.battBucketsFor(band, occupancyDays, pvBucket)
	if len(batts) == 0 {
		return 0, fmt.Errorf("%w: no battery data for usage band %d occupancy %d pv %d", types.ErrConfiguration, band, occupancyDays, pvBucket)
	}
	battBucket := batts[0]
	for _, b := range batts {
		if float64(b) <= batteryKWH {
			battBucket = b
		}
	}

	base, ok := e.grid.Lookup(occupancyDays, band, pvBucket, battBucket)
	if !ok {
		return 0, fmt.Errorf("%w: missing grid point (band %d, occupancy %d, pv %d, battery %d)",
			types.ErrConfiguration, band, occupancyDays, pvBucket, battBucket)
	}

	pvExcess := math.Max(0, pvKWH-float64(pvBucket))
	battExcess := math.Max(0, batteryKWH-float64(battBucket))
	return 100 - (100-base)*math.Exp(-pvExtrapolationRate*pvExcess)*math.Exp(-batteryExtrapolationRate*battExcess), nil
}
