package tariff

import "github.com/maphoenix/solarroi/pkg/types"

// DefaultTariffs returns the built-in catalog of UK time-of-use tariffs,
// used until an operator stores a catalog of their own.
func DefaultTariffs() []types.Tariff {
	return []types.Tariff{
		{
			Name:        "Intelligent Octopus Go",
			PeakRate:    0.2771,
			OffPeakRate: 0.075,
			ExportRate:  0.15,
			EVRequired:  true,
		},
		{
			Name:        "Octopus Flux",
			PeakRate:    0.2758,
			OffPeakRate: 0.1655,
			ExportRate:  0.2922,
		},
		{
			Name:        "EDF GoElectric",
			PeakRate:    0.2980,
			OffPeakRate: 0.0899,
			ExportRate:  0.1850,
		},
		{
			Name:        "OVO Energy",
			PeakRate:    0.2790,
			OffPeakRate: 0.1299,
			ExportRate:  0.1650,
		},
		{
			Name:        "Bulb Smart Tariff",
			PeakRate:    0.2810,
			OffPeakRate: 0.1180,
			ExportRate:  0.1720,
		},
	}
}
