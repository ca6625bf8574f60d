package finance

import (
	"testing"

	"github.com/maphoenix/solarroi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	// 10000 over 5 years at 5.9%.
	b, err := Calculate(10000, 5, 0.059, "test")
	require.NoError(t, err)

	assert.InDelta(t, 10000, b.PrincipalAmount, 1e-9)
	assert.Equal(t, 5, b.LoanTermYears)
	assert.InDelta(t, 0.059, b.AnnualInterestRate, 1e-9)
	assert.InDelta(t, 192.86, b.MonthlyPayment, 0.01)
	assert.InDelta(t, b.MonthlyPayment*60, b.TotalCost, 1e-9)
	assert.InDelta(t, b.TotalCost-10000, b.TotalInterest, 1e-9)
	assert.InDelta(t, b.TotalInterest/60, b.MonthlyCostVsCash, 1e-9)
	assert.Equal(t, "test", b.RateSource)
}

func TestCalculateZeroRate(t *testing.T) {
	b, err := Calculate(12000, 5, 0, "zero")
	require.NoError(t, err)
	assert.InDelta(t, 200, b.MonthlyPayment, 1e-9)
	assert.InDelta(t, 12000, b.TotalCost, 1e-9)
	assert.Zero(t, b.TotalInterest)
}

func TestCalculateInvalid(t *testing.T) {
	_, err := Calculate(0, 5, 0.05, "t")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = Calculate(-100, 5, 0.05, "t")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = Calculate(1000, 0, 0.05, "t")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = Calculate(1000, 5, -0.01, "t")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestServiceMarketRate(t *testing.T) {
	s := NewService(NewRateSource("", 0.055), 5)

	b, err := s.CalculateAtMarketRate(t.Context(), 8000, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.059, b.AnnualInterestRate, 1e-9)
	assert.Equal(t, "Current Market Rate", b.RateSource)

	b, err = s.CalculateGreenEnergy(t.Context(), 8000, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.042, b.AnnualInterestRate, 1e-9)
	assert.Equal(t, "Green Energy Rate", b.RateSource)
}

func TestBestRateForLoan(t *testing.T) {
	r := NewRateSource("", 0.055)
	ctx := t.Context()

	assert.InDelta(t, 0.071, r.BestRateForLoan(ctx, 3, 5000), 1e-9)
	assert.InDelta(t, 0.059, r.BestRateForLoan(ctx, 5, 5000), 1e-9)
	assert.InDelta(t, 0.065, r.BestRateForLoan(ctx, 7, 5000), 1e-9)
	// Unknown terms fall back to the 5-year rate.
	assert.InDelta(t, 0.059, r.BestRateForLoan(ctx, 10, 5000), 1e-9)
	// Large loans get a 0.5% discount.
	assert.InDelta(t, 0.054, r.BestRateForLoan(ctx, 5, 20000), 1e-9)
}

func TestBaseRateFallback(t *testing.T) {
	r := NewRateSource("", 0.055)
	assert.InDelta(t, fallbackBaseRate, r.BaseRate(t.Context()), 1e-9)
}

func TestParseBaseRateCSV(t *testing.T) {
	rate, ok := parseBaseRateCSV("Date,Rate\n01 Jan 2024,5.25\n01 Feb 2024,5.00")
	require.True(t, ok)
	assert.InDelta(t, 0.05, rate, 1e-9)

	_, ok = parseBaseRateCSV("")
	assert.False(t, ok)
	_, ok = parseBaseRateCSV("Date,Rate")
	assert.False(t, ok)
	_, ok = parseBaseRateCSV("Date,Rate\nheader only no comma")
	assert.False(t, ok)
	_, ok = parseBaseRateCSV("Date,Rate\n01 Jan 2024,not-a-number")
	assert.False(t, ok)
	_, ok = parseBaseRateCSV("Date,Rate\n01 Jan 2024,250")
	assert.False(t, ok)
}
