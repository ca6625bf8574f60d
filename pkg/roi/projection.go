package roi

import (
	"github.com/maphoenix/solarroi/pkg/types"
)

// DefaultHorizonYears is the evaluation horizon for the cash-flow projection.
const DefaultHorizonYears = 15

// Project builds the cumulative cash-flow series: year 0 starts at
// -totalCost and each subsequent year adds totalAnnualSavings. The break-even
// year is the first year the cumulative flow reaches zero; nil if it never
// does within the horizon (the series is never extrapolated past it).
// A zero totalCost makes the ROI percentage undefined: the result carries a
// sentinel 0 and the ROIUndefined flag rather than a numeric error.
// Non-positive savings are permitted and simply never break even.
func Project(totalAnnualSavings, totalCost float64, horizonYears int) (types.ProjectionResult, error) {
	if totalCost < 0 {
		return types.ProjectionResult{}, types.InvalidInputf("totalCost", "must be >= 0, got %v", totalCost)
	}
	if horizonYears < 0 {
		return types.ProjectionResult{}, types.InvalidInputf("horizonYears", "must be >= 0, got %v", horizonYears)
	}
	if horizonYears == 0 {
		horizonYears = DefaultHorizonYears
	}

	series := make([]types.ChartPoint, 0, horizonYears+1)
	cumulative := -totalCost
	var breakEven *int
	for year := 0; year <= horizonYears; year++ {
		if year > 0 {
			cumulative += totalAnnualSavings
		}
		series = append(series, types.ChartPoint{Year: year, CumulativeCashFlow: cumulative})
		if breakEven == nil && cumulative >= 0 {
			y := year
			breakEven = &y
		}
	}

	result := types.ProjectionResult{
		Series:        series,
		BreakEvenYear: breakEven,
		HorizonYears:  horizonYears,
	}
	if totalCost == 0 {
		result.ROIUndefined = true
		return result, nil
	}
	result.ROIPercentage = (series[horizonYears].CumulativeCashFlow + totalCost) / totalCost * 100
	return result, nil
}
