package types

// Tariff represents a retail electricity tariff with import and export rates.
// Rates are currency-per-kWh. The rates are not required to be ordered but the
// savings formulas only produce positive battery savings when
// PeakRate >= OffPeakRate.
type Tariff struct {
	Name        string  `json:"name"`
	PeakRate    float64 `json:"peakRate"`
	OffPeakRate float64 `json:"offPeakRate"`
	ExportRate  float64 `json:"exportRate"`
	// EVRequired marks tariffs only available to households with an EV.
	EVRequired bool `json:"evRequired,omitempty"`
}

// SystemSizing describes the installation being evaluated.
type SystemSizing struct {
	BatterySizeKWH float64 `json:"batterySizeKWH"`
	SolarSizeKW    float64 `json:"solarSizeKW"`
	AnnualUsageKWH float64 `json:"annualUsageKWH"`
	// OccupancyValue is a continuous proxy (0.5-5.0) for how many days per
	// week the property is occupied during daylight hours.
	OccupancyValue float64 `json:"occupancyValue"`
}

// Validate checks the sizing against the allowed ranges.
func (s SystemSizing) Validate() error {
	if s.BatterySizeKWH < 0 {
		return InvalidInputf("batterySizeKWH", "must be >= 0, got %v", s.BatterySizeKWH)
	}
	if s.SolarSizeKW < 0 {
		return InvalidInputf("solarSizeKW", "must be >= 0, got %v", s.SolarSizeKW)
	}
	if s.AnnualUsageKWH < 0 {
		return InvalidInputf("annualUsageKWH", "must be >= 0, got %v", s.AnnualUsageKWH)
	}
	if s.OccupancyValue < MinOccupancyValue || s.OccupancyValue > MaxOccupancyValue {
		return InvalidInputf("occupancyValue", "must be between %v and %v, got %v",
			MinOccupancyValue, MaxOccupancyValue, s.OccupancyValue)
	}
	return nil
}

const (
	// MinOccupancyValue and MaxOccupancyValue bound the continuous occupancy
	// proxy accepted by the estimator.
	MinOccupancyValue = 0.5
	MaxOccupancyValue = 5.0
)
