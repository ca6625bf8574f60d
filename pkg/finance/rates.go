package finance

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/maphoenix/solarroi/pkg/log"
)

const (
	rateCacheDuration = 24 * time.Hour

	// Typical current BoE base rate used when the fetch fails.
	fallbackBaseRate = 0.0525
)

// Researched representative rates from major UK lenders, used until (or when)
// live sources are unavailable.
var marketRates = map[string]float64{
	"personal_loan_3yr": 0.071,
	"personal_loan_5yr": 0.059,
	"personal_loan_7yr": 0.065,
	"green_energy_rate": 0.042,
}

// RateSource provides current interest rates for personal loans and green
// energy financing. The Bank of England base rate is fetched over HTTP and
// cached for 24 hours; market rates fall back to researched values.
type RateSource struct {
	client       *http.Client
	boeURL       string
	fallbackRate float64

	mu         sync.Mutex
	cached     map[string]float64
	lastUpdate time.Time
}

// NewRateSource returns a RateSource fetching the BoE base rate from boeURL.
// An empty URL disables fetching and uses the fallback rate.
func NewRateSource(boeURL string, fallbackRate float64) *RateSource {
	return &RateSource{
		client:       httpClient(10 * time.Second),
		boeURL:       boeURL,
		fallbackRate: fallbackRate,
		cached:       map[string]float64{},
	}
}

// BestRateForLoan returns the best available rate for the loan term and
// amount. Larger loans get a discounted rate with a 3% floor.
func (r *RateSource) BestRateForLoan(ctx context.Context, years int, amount float64) float64 {
	rates := r.currentRates(ctx)

	var rate float64
	switch years {
	case 3:
		rate = rates["personal_loan_3yr"]
	case 7:
		rate = rates["personal_loan_7yr"]
	default:
		rate = rates["personal_loan_5yr"]
	}
	if rate == 0 {
		rate = r.fallbackRate
	}
	if amount >= 15000 {
		rate = math.Max(rate-0.005, 0.03)
	}
	return rate
}

// GreenEnergyRate returns the special green energy financing rate, typically
// lower than standard personal loans.
func (r *RateSource) GreenEnergyRate(ctx context.Context) float64 {
	rates := r.currentRates(ctx)
	if rate, ok := rates["green_energy_rate"]; ok && rate > 0 {
		return rate
	}
	return r.fallbackRate * 0.8
}

// BaseRate returns the current Bank of England base rate.
func (r *RateSource) BaseRate(ctx context.Context) float64 {
	rates := r.currentRates(ctx)
	if rate, ok := rates["base_rate"]; ok && rate > 0 {
		return rate
	}
	return fallbackBaseRate
}

func (r *RateSource) currentRates(ctx context.Context) map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastUpdate.IsZero() || time.Since(r.lastUpdate) > rateCacheDuration || len(r.cached) == 0 {
		r.refreshLocked(ctx)
	}
	rates := make(map[string]float64, len(r.cached))
	for k, v := range r.cached {
		rates[k] = v
	}
	return rates
}

// Refresh forces a refresh of interest rates from external sources.
func (r *RateSource) Refresh(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshLocked(ctx)
}

func (r *RateSource) refreshLocked(ctx context.Context) {
	log.Ctx(ctx).InfoContext(ctx, "refreshing interest rates")

	for k, v := range marketRates {
		r.cached[k] = v
	}
	r.cached["base_rate"] = r.fetchBaseRate(ctx)
	r.lastUpdate = time.Now()
}

// fetchBaseRate fetches the Bank of England base rate from their CSV
// endpoint, falling back to a typical current rate on any failure.
func (r *RateSource) fetchBaseRate(ctx context.Context) float64 {
	if r.boeURL == "" {
		return fallbackBaseRate
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.boeURL, nil)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to build base rate request", slog.Any("error", err))
		return fallbackBaseRate
	}
	resp, err := r.client.Do(req)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to fetch base rate", slog.Any("error", err))
		return fallbackBaseRate
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Ctx(ctx).WarnContext(ctx, "unexpected base rate status", slog.Int("status", resp.StatusCode))
		return fallbackBaseRate
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to read base rate response", slog.Any("error", err))
		return fallbackBaseRate
	}

	if rate, ok := parseBaseRateCSV(string(body)); ok {
		log.Ctx(ctx).InfoContext(ctx, "fetched BoE base rate", slog.Float64("rate", rate))
		return rate
	}
	log.Ctx(ctx).WarnContext(ctx, "failed to parse base rate response")
	return fallbackBaseRate
}

// parseBaseRateCSV extracts the most recent rate from the BoE CSV response
// (date,rate rows, percentage values).
func parseBaseRateCSV(body string) (float64, bool) {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) < 2 {
		return 0, false
	}
	parts := strings.Split(lines[len(lines)-1], ",")
	if len(parts) < 2 {
		return 0, false
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || pct < 0 || pct > 100 {
		return 0, false
	}
	return pct / 100, true
}
