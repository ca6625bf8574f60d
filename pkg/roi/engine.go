package roi

import (
	"context"
	"log/slog"

	"github.com/levenlabs/go-lflag"
	"github.com/maphoenix/solarroi/pkg/finance"
	"github.com/maphoenix/solarroi/pkg/log"
	"github.com/maphoenix/solarroi/pkg/mcs"
	"github.com/maphoenix/solarroi/pkg/types"
)

// CostModel prices the installed system from component prices when a request
// does not supply an explicit total cost.
type CostModel struct {
	BatteryCostPerKWH float64
	SolarCostPerKW    float64
	InstallBaseCost   float64
	Currency          string
}

// DefaultCostModel returns representative UK installer prices.
func DefaultCostModel() CostModel {
	return CostModel{
		BatteryCostPerKWH: 400,
		SolarCostPerKW:    1200,
		InstallBaseCost:   1500,
		Currency:          "GBP",
	}
}

// TotalCost prices a system. A system with no components costs nothing.
func (m CostModel) TotalCost(batterySizeKWH, solarSizeKW float64) float64 {
	if batterySizeKWH <= 0 && solarSizeKW <= 0 {
		return 0
	}
	return batterySizeKWH*m.BatteryCostPerKWH + solarSizeKW*m.SolarCostPerKW + m.InstallBaseCost
}

// Engine orchestrates a full ROI calculation: self-consumption estimation,
// per-tariff savings, best-tariff selection, system cost, and the multi-year
// projection. It is stateless beyond its immutable configuration.
type Engine struct {
	estimator *mcs.Estimator
	financer  *finance.Service

	savings      SavingsConfig
	cost         CostModel
	horizonYears int
}

// Configured sets up the Engine with dependencies.
// It uses lflag to register command-line flags for configuration.
func Configured(estimator *mcs.Estimator, financer *finance.Service) *Engine {
	e := &Engine{
		estimator: estimator,
		financer:  financer,
	}

	// lflag has no float64 param type, so float values go through JSON
	savings := DefaultSavingsConfig()
	cost := DefaultCostModel()
	lflag.JSON(&savings.UsableBatteryFraction, "usable-battery-fraction", savings.UsableBatteryFraction, "Fraction of battery capacity that can be cycled")
	lflag.JSON(&savings.GenerationFactorKWHPerKW, "generation-factor", savings.GenerationFactorKWHPerKW, "Annual kWh generated per installed solar kW")
	lflag.JSON(&savings.BatteryEfficiency, "battery-efficiency", savings.BatteryEfficiency, "Battery round-trip efficiency")
	lflag.JSON(&savings.ExportEfficiency, "export-efficiency", savings.ExportEfficiency, "Efficiency applied to exported generation")
	lflag.JSON(&cost.BatteryCostPerKWH, "battery-cost-per-kwh", cost.BatteryCostPerKWH, "Installed battery cost per kWh")
	lflag.JSON(&cost.SolarCostPerKW, "solar-cost-per-kw", cost.SolarCostPerKW, "Installed solar cost per kW")
	lflag.JSON(&cost.InstallBaseCost, "install-base-cost", cost.InstallBaseCost, "Fixed installation cost")
	horizonYears := lflag.Int("roi-horizon-years", DefaultHorizonYears, "Evaluation horizon for the ROI projection")
	currency := lflag.String("currency", "GBP", "Currency code reported with cost figures")

	lflag.Do(func() {
		e.savings = savings
		cost.Currency = *currency
		e.cost = cost
		e.horizonYears = *horizonYears
	})

	return e
}

// NewEngine returns an Engine with the documented defaults, primarily for
// tests and embedding.
func NewEngine(estimator *mcs.Estimator, financer *finance.Service) *Engine {
	return &Engine{
		estimator:    estimator,
		financer:     financer,
		savings:      DefaultSavingsConfig(),
		cost:         DefaultCostModel(),
		horizonYears: DefaultHorizonYears,
	}
}

// EstimateSelfConsumption returns the self-consumption percentage for the
// sizing, falling back to the documented 50% split when no estimator is
// available.
func (e *Engine) EstimateSelfConsumption(sizing types.SystemSizing) (float64, error) {
	if e.estimator == nil {
		return DefaultSelfConsumptionPercent, nil
	}
	generation := e.savings.AnnualGenerationKWH(sizing.SolarSizeKW)
	return e.estimator.Estimate(generation, sizing.BatterySizeKWH, sizing.AnnualUsageKWH, sizing.OccupancyValue)
}

// Calculate runs the full pipeline for one request against the candidate
// tariffs and assembles the aggregated response.
func (e *Engine) Calculate(ctx context.Context, req types.CalculationRequest, tariffs []types.Tariff) (types.CalculationResponse, error) {
	sizing := req.Sizing()
	if err := sizing.Validate(); err != nil {
		return types.CalculationResponse{}, err
	}
	if req.TotalCost < 0 {
		return types.CalculationResponse{}, types.InvalidInputf("totalCost", "must be >= 0, got %v", req.TotalCost)
	}

	selfConsumption, err := e.EstimateSelfConsumption(sizing)
	if err != nil {
		return types.CalculationResponse{}, err
	}

	perTariff, best, err := e.savings.BestTariff(sizing, tariffs, selfConsumption, req.HaveOrWillGetEV)
	if err != nil {
		return types.CalculationResponse{}, err
	}
	if best < 0 {
		return types.CalculationResponse{}, types.InvalidInputf("tariffs", "no eligible tariffs for request")
	}

	totalCost := req.TotalCost
	if totalCost == 0 {
		totalCost = e.cost.TotalCost(sizing.BatterySizeKWH, sizing.SolarSizeKW)
	}

	yearlySavings := perTariff[best].TotalSavings
	projection, err := Project(yearlySavings, totalCost, e.horizonYears)
	if err != nil {
		return types.CalculationResponse{}, err
	}

	resp := types.CalculationResponse{
		TotalCost:              types.TotalCost{Amount: totalCost, Currency: e.cost.Currency},
		SelfConsumptionPercent: selfConsumption,
		BestTariff:             perTariff[best].Tariff.Name,
		TariffSavings:          perTariff,
		YearlySavings:          yearlySavings,
		MonthlySavings:         yearlySavings / 12,
		Projection:             projection,
	}

	if req.NeedFinance && e.financer != nil && totalCost > 0 {
		breakdown, err := e.financer.CalculateAtMarketRate(ctx, totalCost, e.financer.DefaultTermYears())
		if err != nil {
			// Finance is supplementary context; the calculation stands on its own.
			log.Ctx(ctx).WarnContext(ctx, "finance breakdown failed", slog.Any("error", err))
		} else {
			resp.Finance = &breakdown
		}
	}

	return resp, nil
}
