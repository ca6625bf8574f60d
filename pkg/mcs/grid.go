// Package mcs estimates what fraction of generated solar energy is consumed
// on-site, based on an empirical dataset of measured self-consumption
// percentages in the style of the Microgeneration Certification Scheme
// tables. The dataset is indexed by occupancy category, annual-usage band,
// PV-generation bucket, and battery-size bucket.
package mcs

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/levenlabs/go-lflag"
	"github.com/maphoenix/solarroi/pkg/types"
)

//go:embed data/mcs_self_consumption.json
var embeddedDataset []byte

const (
	// MaxPVBucketKWH and MaxBatteryBucketKWH bound the measured dataset.
	// Requests beyond these are handled by extrapolation, not by the grid.
	MaxPVBucketKWH      = 10000
	MaxBatteryBucketKWH = 20
)

// Key identifies one measured grid point.
type Key struct {
	OccupancyDays    int
	UsageBandKWH     int
	PVBucketKWH      int
	BatteryBucketKWH int
}

// Grid is the immutable lookup table of measured self-consumption
// percentages. It is built once at startup and is safe for unsynchronized
// concurrent reads.
type Grid struct {
	points      map[Key]float64
	bands       []int
	occupancies map[int][]int         // usage band -> sorted occupancy days
	pvBuckets   map[[2]int][]int      // (band, occupancy) -> sorted PV buckets
	battBuckets map[[3]int][]int      // (band, occupancy, pv) -> sorted battery buckets
}

// datasetRoot mirrors the JSON layout:
// usage band -> occupancy days -> pv bucket -> battery bucket -> percent.
type datasetRoot map[string]map[string]map[string]map[string]float64

// New parses the dataset and builds the keyed table. It fails fast on
// malformed data: unparseable keys, buckets outside the measured ranges, or
// percentages outside [0, 100].
func New(data []byte) (*Grid, error) {
	var root datasetRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: failed to parse self-consumption dataset: %v", types.ErrConfiguration, err)
	}
	if len(root) == 0 {
		return nil, fmt.Errorf("%w: self-consumption dataset is empty", types.ErrConfiguration)
	}

	g := &Grid{
		points:      make(map[Key]float64),
		occupancies: make(map[int][]int),
		pvBuckets:   make(map[[2]int][]int),
		battBuckets: make(map[[3]int][]int),
	}

	for bandStr, occMap := range root {
		band, err := strconv.Atoi(bandStr)
		if err != nil || band < 0 {
			return nil, fmt.Errorf("%w: invalid usage band %q", types.ErrConfiguration, bandStr)
		}
		g.bands = append(g.bands, band)
		for occStr, pvMap := range occMap {
			occ, err := strconv.Atoi(occStr)
			if err != nil || occ < 1 || occ > 5 {
				return nil, fmt.Errorf("%w: invalid occupancy days %q in band %d", types.ErrConfiguration, occStr, band)
			}
			g.occupancies[band] = append(g.occupancies[band], occ)
			for pvStr, battMap := range pvMap {
				pv, err := strconv.Atoi(pvStr)
				if err != nil || pv < 0 || pv > MaxPVBucketKWH || pv%500 != 0 {
					return nil, fmt.Errorf("%w: invalid pv bucket %q (band %d, occupancy %d)", types.ErrConfiguration, pvStr, band, occ)
				}
				g.pvBuckets[[2]int{band, occ}] = append(g.pvBuckets[[2]int{band, occ}], pv)
				for battStr, pct := range battMap {
					batt, err := strconv.Atoi(battStr)
					if err != nil || batt < 0 || batt > MaxBatteryBucketKWH {
						return nil, fmt.Errorf("%w: invalid battery bucket %q (band %d, occupancy %d, pv %d)", types.ErrConfiguration, battStr, band, occ, pv)
					}
					if pct < 0 || pct > 100 {
						return nil, fmt.Errorf("%w: self-consumption %v out of range (band %d, occupancy %d, pv %d, battery %d)",
							types.ErrConfiguration, pct, band, occ, pv, batt)
					}
					g.battBuckets[[3]int{band, occ, pv}] = append(g.battBuckets[[3]int{band, occ, pv}], batt)
					g.points[Key{OccupancyDays: occ, UsageBandKWH: band, PVBucketKWH: pv, BatteryBucketKWH: batt}] = pct
				}
				sort.Ints(g.battBuckets[[3]int{band, occ, pv}])
			}
			sort.Ints(g.pvBuckets[[2]int{band, occ}])
		}
		sort.Ints(g.occupancies[band])
	}
	sort.Ints(g.bands)

	return g, nil
}

// Embedded builds the grid from the compiled-in dataset.
func Embedded() (*Grid, error) {
	return New(embeddedDataset)
}

// Configured loads the grid during startup. By default the embedded dataset
// is used; the mcs-data flag overrides it with a file path. Startup panics on
// a malformed dataset since no calculation can be served without it.
func Configured() *Grid {
	path := lflag.String("mcs-data", "", "Path to a self-consumption dataset JSON (defaults to the embedded dataset)")

	g := &Grid{}

	lflag.Do(func() {
		data := embeddedDataset
		if *path != "" {
			var err error
			data, err = os.ReadFile(*path)
			if err != nil {
				panic(fmt.Sprintf("failed to read mcs-data file: %v", err))
			}
		}
		grid, err := New(data)
		if err != nil {
			panic(fmt.Sprintf("failed to load self-consumption dataset: %v", err))
		}
		*g = *grid
	})

	return g
}

// Lookup returns the measured percentage at an exact grid coordinate.
// Approximate queries are the estimator's job, not the grid's.
func (g *Grid) Lookup(occupancyDays, usageBandKWH, pvBucketKWH, batteryBucketKWH int) (float64, bool) {
	pct, ok := g.points[Key{
		OccupancyDays:    occupancyDays,
		UsageBandKWH:     usageBandKWH,
		PVBucketKWH:      pvBucketKWH,
		BatteryBucketKWH: batteryBucketKWH,
	}]
	return pct, ok
}

// UsageBands returns the ascending usage band boundaries.
func (g *Grid) UsageBands() []int {
	return g.bands
}

// OccupancyCategories returns the ascending occupancy categories measured
// for a usage band.
func (g *Grid) OccupancyCategories(usageBandKWH int) []int {
	return g.occupancies[usageBandKWH]
}

func (g *Grid) pvBucketsFor(usageBandKWH, occupancyDays int) []int {
	return g.pvBuckets[[2]int{usageBandKWH, occupancyDays}]
}

func (g *Grid) battBucketsFor(usageBandKWH, occupancyDays, pvBucketKWH int) []int {
	return g.battBuckets[[3]int{usageBandKWH, occupancyDays, pvBucketKWH}]
}

// Len returns the number of measured points.
func (g *Grid) Len() int {
	return len(g.points)
}
