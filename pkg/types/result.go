package types

import "time"

// SavingsResult is the annual savings produced by one tariff.
type SavingsResult struct {
	BatterySavings float64 `json:"batterySavings"`
	SolarSavings   float64 `json:"solarSavings"`
}

// Total returns the combined annual savings.
func (s SavingsResult) Total() float64 {
	return s.BatterySavings + s.SolarSavings
}

// TariffSavings pairs a candidate tariff with its computed savings.
type TariffSavings struct {
	Tariff       Tariff        `json:"tariff"`
	Savings      SavingsResult `json:"savings"`
	TotalSavings float64       `json:"totalSavings"`
}

// ChartPoint is one year of the cumulative cash-flow series.
type ChartPoint struct {
	Year               int     `json:"year"`
	CumulativeCashFlow float64 `json:"cumulativeCashFlow"`
}

// ProjectionResult is the multi-year cash-flow projection.
type ProjectionResult struct {
	Series []ChartPoint `json:"series"`
	// BreakEvenYear is nil when cumulative cash flow never reaches zero
	// within the horizon.
	BreakEvenYear *int    `json:"breakEvenYear"`
	ROIPercentage float64 `json:"roiPercentage"`
	// ROIUndefined is set when totalCost is zero; ROIPercentage is then a
	// sentinel 0 rather than a meaningful figure.
	ROIUndefined bool `json:"roiUndefined,omitempty"`
	HorizonYears int  `json:"horizonYears"`
}

// TotalCost is the installed system cost.
type TotalCost struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// FinanceBreakdown is the result of an amortized loan calculation.
type FinanceBreakdown struct {
	PrincipalAmount    float64 `json:"principalAmount"`
	LoanTermYears      int     `json:"loanTermYears"`
	AnnualInterestRate float64 `json:"annualInterestRate"`
	MonthlyPayment     float64 `json:"monthlyPayment"`
	TotalCost          float64 `json:"totalCost"`
	TotalInterest      float64 `json:"totalInterest"`
	MonthlyCostVsCash  float64 `json:"monthlyCostVsCash"`
	RateSource         string  `json:"rateSource"`
}

// CalculationResponse aggregates everything the frontend charts need.
type CalculationResponse struct {
	TotalCost              TotalCost         `json:"totalCost"`
	SelfConsumptionPercent float64           `json:"selfConsumptionPercent"`
	BestTariff             string            `json:"bestTariff"`
	TariffSavings          []TariffSavings   `json:"tariffSavings"`
	YearlySavings          float64           `json:"yearlySavings"`
	MonthlySavings         float64           `json:"monthlySavings"`
	Projection             ProjectionResult  `json:"projection"`
	Finance                *FinanceBreakdown `json:"finance,omitempty"`
}

// Report is a persisted calculation, retrievable by ID.
type Report struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"createdAt"`
	Request   CalculationRequest  `json:"request"`
	Response  CalculationResponse `json:"response"`
}
