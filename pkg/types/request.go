package types

// CardinalDirection is the compass direction the solar panels face.
type CardinalDirection string

const (
	DirectionNorth     CardinalDirection = "north"
	DirectionNorthEast CardinalDirection = "north-east"
	DirectionNorthWest CardinalDirection = "north-west"
	DirectionSouth     CardinalDirection = "south"
	DirectionSouthEast CardinalDirection = "south-east"
	DirectionSouthWest CardinalDirection = "south-west"
	DirectionEast      CardinalDirection = "east"
	DirectionWest      CardinalDirection = "west"
)

// CalculationRequest holds the user inputs for an ROI calculation.
type CalculationRequest struct {
	SolarPanelDirection          CardinalDirection `json:"solarPanelDirection,omitempty"`
	HaveOrWillGetEV              bool              `json:"haveOrWillGetEv"`
	HomeOccupancyDuringWorkHours bool              `json:"homeOccupancyDuringWorkHours"`
	NeedFinance                  bool              `json:"needFinance"`
	BatterySizeKWH               float64           `json:"batterySize"`
	AnnualUsageKWH               float64           `json:"usage"`
	SolarSizeKW                  float64           `json:"solarSize"`
	// OccupancyValue optionally overrides the occupancy derived from
	// HomeOccupancyDuringWorkHours. Zero means "not provided".
	OccupancyValue float64 `json:"occupancyValue,omitempty"`
	// TotalCost optionally overrides the configured component-price cost
	// model. Zero means "compute from component prices".
	TotalCost float64 `json:"totalCost,omitempty"`
}

// DefaultCalculationRequest returns a request with the documented defaults
// (17.5 kWh battery, 4000 kWh annual usage, 4.0 kW solar).
func DefaultCalculationRequest() CalculationRequest {
	return CalculationRequest{
		BatterySizeKWH: 17.5,
		AnnualUsageKWH: 4000,
		SolarSizeKW:    4.0,
	}
}

// Occupancy returns the continuous occupancy value for the request: the
// explicit override when given, otherwise 5.0 (home all day) or 1.0 (out
// during the day) from the boolean.
func (r CalculationRequest) Occupancy() float64 {
	if r.OccupancyValue != 0 {
		return r.OccupancyValue
	}
	if r.HomeOccupancyDuringWorkHours {
		return 5.0
	}
	return 1.0
}

// Sizing converts the request into a SystemSizing.
func (r CalculationRequest) Sizing() SystemSizing {
	return SystemSizing{
		BatterySizeKWH: r.BatterySizeKWH,
		SolarSizeKW:    r.SolarSizeKW,
		AnnualUsageKWH: r.AnnualUsageKWH,
		OccupancyValue: r.Occupancy(),
	}
}
