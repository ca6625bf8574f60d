// Package finance calculates loan repayment costs for solar and battery
// installations using current market interest rates.
package finance

import (
	"context"
	"math"

	"github.com/levenlabs/go-lflag"
	"github.com/maphoenix/solarroi/pkg/types"
)

const defaultBoERateURL = "https://www.bankofengland.co.uk/boeapps/database/_iadb-fromshowcolumns.asp?csv.x=yes&Datefrom=01/Jan/2024&Dateto=now&SeriesCodes=IUDBEDR&CSVF=TN&UsingCodes=Y&VPD=Y&VFD=N"

// Service calculates finance costs at market, green-energy, or custom rates.
type Service struct {
	rates            *RateSource
	defaultTermYears int
}

// Configured sets up the finance service.
// It uses lflag to register command-line flags for configuration.
func Configured() *Service {
	s := &Service{}

	// lflag has no float64 param type, so the rate goes through JSON
	fallbackRate := 0.055
	lflag.JSON(&fallbackRate, "finance-default-rate", fallbackRate, "Fallback annual interest rate when market data is unavailable")
	termYears := lflag.Int("finance-default-term-years", 5, "Default loan term in years")
	boeURL := lflag.String("boe-rate-url", defaultBoERateURL, "Bank of England base rate CSV endpoint (empty disables fetching)")

	lflag.Do(func() {
		s.rates = NewRateSource(*boeURL, fallbackRate)
		s.defaultTermYears = *termYears
	})

	return s
}

// NewService returns a Service with the given rate source, primarily for
// tests.
func NewService(rates *RateSource, defaultTermYears int) *Service {
	return &Service{rates: rates, defaultTermYears: defaultTermYears}
}

// DefaultTermYears returns the configured default loan term.
func (s *Service) DefaultTermYears() int {
	return s.defaultTermYears
}

// CalculateAtMarketRate calculates finance costs using the best current
// market rate for the term and amount.
func (s *Service) CalculateAtMarketRate(ctx context.Context, cost float64, years int) (types.FinanceBreakdown, error) {
	rate := s.rates.BestRateForLoan(ctx, years, cost)
	return Calculate(cost, years, rate, "Current Market Rate")
}

// CalculateGreenEnergy calculates finance costs using the green energy rate.
func (s *Service) CalculateGreenEnergy(ctx context.Context, cost float64, years int) (types.FinanceBreakdown, error) {
	rate := s.rates.GreenEnergyRate(ctx)
	return Calculate(cost, years, rate, "Green Energy Rate")
}

// Calculate computes the amortized loan breakdown for a principal, term, and
// annual interest rate (as a decimal, e.g. 0.055 for 5.5%). A zero rate
// degenerates to simple division over the payment months.
func Calculate(cost float64, years int, annualRate float64, source string) (types.FinanceBreakdown, error) {
	if cost <= 0 {
		return types.FinanceBreakdown{}, types.InvalidInputf("cost", "must be > 0, got %v", cost)
	}
	if years <= 0 {
		return types.FinanceBreakdown{}, types.InvalidInputf("years", "must be > 0, got %v", years)
	}
	if annualRate < 0 {
		return types.FinanceBreakdown{}, types.InvalidInputf("annualRate", "must be >= 0, got %v", annualRate)
	}

	months := years * 12
	if annualRate == 0 {
		return types.FinanceBreakdown{
			PrincipalAmount:    cost,
			LoanTermYears:      years,
			AnnualInterestRate: 0,
			MonthlyPayment:     cost / float64(months),
			TotalCost:          cost,
			RateSource:         source,
		}, nil
	}

	// Standard loan payment formula: M = P * r(1+r)^n / ((1+r)^n - 1)
	monthlyRate := annualRate / 12
	factor := math.Pow(1+monthlyRate, float64(months))
	monthlyPayment := cost * (monthlyRate * factor) / (factor - 1)
	totalCost := monthlyPayment * float64(months)
	totalInterest := totalCost - cost

	return types.FinanceBreakdown{
		PrincipalAmount:    cost,
		LoanTermYears:      years,
		AnnualInterestRate: annualRate,
		MonthlyPayment:     monthlyPayment,
		TotalCost:          totalCost,
		TotalInterest:      totalInterest,
		MonthlyCostVsCash:  totalInterest / float64(months),
		RateSource:         source,
	}, nil
}
