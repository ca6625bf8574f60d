package types

// HouseSize is a coarse bucket used to derive sizing defaults.
type HouseSize string

const (
	HouseSizeSmall  HouseSize = "small"  // < 1000 sq ft
	HouseSizeMedium HouseSize = "medium" // 1000-2000 sq ft
	HouseSizeLarge  HouseSize = "large"  // > 2000 sq ft
)

// TaxBracket is the user's income tax bracket, used for report context only.
type TaxBracket string

const (
	TaxBracketTwentyPercent TaxBracket = "20%"
	TaxBracketFortyPercent  TaxBracket = "40%"
	TaxBracketNotSaid       TaxBracket = "preferNotToSay"
)

// UserProfile captures the coarse answers a user gives before a calculation.
type UserProfile struct {
	HouseSize             HouseSize  `json:"houseSize"`
	HasOrPlanningEV       bool       `json:"hasOrPlanningEv"`
	TaxBracket            TaxBracket `json:"taxBracket,omitempty"`
	HomeOccupiedDuringDay bool       `json:"homeOccupiedDuringDay"`
	NeedsFinancing        bool       `json:"needsFinancing"`
}

// DeriveRequestDefaults maps a profile onto a CalculationRequest: house size
// selects battery/usage/solar defaults and an EV adds 2500 kWh of annual
// usage.
func (p UserProfile) DeriveRequestDefaults() CalculationRequest {
	req := DefaultCalculationRequest()
	switch p.HouseSize {
	case HouseSizeSmall:
		req.BatterySizeKWH = 10.0
		req.AnnualUsageKWH = 2500
		req.SolarSizeKW = 3.0
	case HouseSizeLarge:
		req.BatterySizeKWH = 25.0
		req.AnnualUsageKWH = 6000
		req.SolarSizeKW = 6.0
	default:
		// medium keeps the documented defaults
	}
	if p.HasOrPlanningEV {
		req.AnnualUsageKWH += 2500
		req.HaveOrWillGetEV = true
	}
	req.HomeOccupancyDuringWorkHours = p.HomeOccupiedDuringDay
	req.NeedFinance = p.NeedsFinancing
	return req
}
