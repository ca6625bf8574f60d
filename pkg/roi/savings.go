// Package roi turns a self-consumption estimate, a tariff, and system sizes
// into annual savings, a multi-year cash-flow projection, and an ROI figure.
// Everything here is a pure function over immutable inputs.
package roi

import (
	"math"

	"github.com/maphoenix/solarroi/pkg/types"
)

// DefaultSelfConsumptionPercent is the documented fallback split (50% self-use)
// applied only when a caller bypasses the empirical estimator.
const DefaultSelfConsumptionPercent = 50.0

// SavingsConfig holds the physical constants of the savings model.
type SavingsConfig struct {
	// UsableBatteryFraction is the share of nameplate battery capacity that
	// can actually be cycled.
	UsableBatteryFraction float64
	// GenerationFactorKWHPerKW converts installed solar kW to annual kWh.
	GenerationFactorKWHPerKW float64
	// BatteryEfficiency is the round-trip efficiency applied to shifted energy.
	BatteryEfficiency float64
	// ExportEfficiency discounts exported generation for inverter and
	// curtailment losses.
	ExportEfficiency float64
}

// DefaultSavingsConfig returns the documented constants.
func DefaultSavingsConfig() SavingsConfig {
	return SavingsConfig{
		UsableBatteryFraction:    0.90,
		GenerationFactorKWHPerKW: 850,
		BatteryEfficiency:        0.85,
		ExportEfficiency:         0.60,
	}
}

// AnnualGenerationKWH returns the modeled annual PV generation for an
// installed solar size.
func (c SavingsConfig) AnnualGenerationKWH(solarSizeKW float64) float64 {
	return solarSizeKW * c.GenerationFactorKWHPerKW
}

// CalculateSavings computes annual battery-shifting and solar savings for one
// tariff. Battery savings are clamped at zero: a battery cannot produce
// negative savings even when the off-peak rate exceeds the peak rate.
func (c SavingsConfig) CalculateSavings(sizing types.SystemSizing, tariff types.Tariff, selfConsumptionPercent float64) (types.SavingsResult, error) {
	if sizing.BatterySizeKWH < 0 {
		return types.SavingsResult{}, types.InvalidInputf("batterySizeKWH", "must be >= 0, got %v", sizing.BatterySizeKWH)
	}
	if sizing.SolarSizeKW < 0 {
		return types.SavingsResult{}, types.InvalidInputf("solarSizeKW", "must be >= 0, got %v", sizing.SolarSizeKW)
	}
	if sizing.AnnualUsageKWH < 0 {
		return types.SavingsResult{}, types.InvalidInputf("annualUsageKWH", "must be >= 0, got %v", sizing.AnnualUsageKWH)
	}
	if selfConsumptionPercent < 0 || selfConsumptionPercent > 100 {
		return types.SavingsResult{}, types.InvalidInputf("selfConsumptionPercent", "must be between 0 and 100, got %v", selfConsumptionPercent)
	}
	if tariff.PeakRate < 0 || tariff.OffPeakRate < 0 || tariff.ExportRate < 0 {
		return types.SavingsResult{}, types.InvalidInputf("tariff", "rates must be >= 0")
	}

	// Battery: energy shifted from peak-rate import to off-peak charging,
	// bounded by what the home actually uses in a year.
	usableCapacity := sizing.BatterySizeKWH * c.UsableBatteryFraction
	shiftable := math.Min(usableCapacity*365, sizing.AnnualUsageKWH)
	batterySavings := shiftable * (tariff.PeakRate - tariff.OffPeakRate) * c.BatteryEfficiency
	batterySavings = math.Max(0, batterySavings)

	// Solar: self-used generation displaces peak-rate import, the rest is
	// exported at the export rate after losses.
	generation := c.AnnualGenerationKWH(sizing.SolarSizeKW)
	selfUsed := generation * selfConsumptionPercent / 100
	exported := generation * (1 - selfConsumptionPercent/100) * c.ExportEfficiency
	solarSavings := selfUsed*tariff.PeakRate + exported*tariff.ExportRate

	return types.SavingsResult{
		BatterySavings: batterySavings,
		SolarSavings:   solarSavings,
	}, nil
}

// BestTariff computes savings for every eligible candidate and selects the
// one with the highest total savings. Tariffs requiring an EV are skipped
// when the household has none.
func (c SavingsConfig) BestTariff(sizing types.SystemSizing, tariffs []types.Tariff, selfConsumptionPercent float64, hasEV bool) ([]types.TariffSavings, int, error) {
	all := make([]types.TariffSavings, 0, len(tariffs))
	best := -1
	for _, t := range tariffs {
		if t.EVRequired && !hasEV {
			continue
		}
		savings, err := c.CalculateSavings(sizing, t, selfConsumptionPercent)
		if err != nil {
			return nil, -1, err
		}
		all = append(all, types.TariffSavings{
			Tariff:       t,
			Savings:      savings,
			TotalSavings: savings.Total(),
		})
		if best == -1 || all[len(all)-1].TotalSavings > all[best].TotalSavings {
			best = len(all) - 1
		}
	}
	return all, best, nil
}
