package wind

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultSpeedBins are the customary wind-rose speed bin edges, m/s.
var DefaultSpeedBins = []float64{0, 2, 4, 6, 8, 10, 12, 15, 20, 25, 30, 50}

// Rose is a direction-by-speed frequency table. Frequencies[s][b] is the
// fraction of all samples falling in sector s and speed bin b, normalized
// by the total sample count, so the grand total is 1 when every sample
// lands inside the bin range.
type Rose struct {
	Sectors     []string
	BinEdges    []float64
	Frequencies [][]float64
}

// ComputeRose tabulates a wind rose from paired speed and direction
// series. sectors must be 4, 8 or 16; nil bins means DefaultSpeedBins.
// Bin b spans [BinEdges[b], BinEdges[b+1]); samples at or above the top
// edge are dropped.
func ComputeRose(speeds, directions []float64, sectors int, bins []float64) (*Rose, error) {
	if len(speeds) != len(directions) {
		return nil, fmt.Errorf("%w: %d speeds but %d directions",
			ErrConfig, len(speeds), len(directions))
	}
	if len(speeds) == 0 {
		return nil, fmt.Errorf("%w: empty wind series", ErrConfig)
	}
	names, err := SectorNames(sectors)
	if err != nil {
		return nil, err
	}
	if bins == nil {
		bins = DefaultSpeedBins
	}
	if len(bins) < 2 || !sort.Float64sAreSorted(bins) {
		return nil, fmt.Errorf("%w: speed bins must be at least two ascending edges", ErrConfig)
	}

	nBins := len(bins) - 1
	counts := make([][]float64, sectors)
	for i := range counts {
		counts[i] = make([]float64, nBins)
	}
	for i, v := range speeds {
		if v < bins[0] || v >= bins[len(bins)-1] {
			continue
		}
		b := sort.SearchFloat64s(bins, v)
		if bins[b] != v {
			b--
		}
		counts[SectorOf(directions[i], sectors)][b]++
	}

	total := float64(len(speeds))
	for s := range counts {
		for b := range counts[s] {
			counts[s][b] /= total
		}
	}
	return &Rose{Sectors: names, BinEdges: bins, Frequencies: counts}, nil
}

// SectorTotals returns each sector's total frequency across all speed bins.
func (r *Rose) SectorTotals() []float64 {
	out := make([]float64, len(r.Frequencies))
	for s, row := range r.Frequencies {
		for _, f := range row {
			out[s] += f
		}
	}
	return out
}

// SpeedStats summarizes a speed series.
type SpeedStats struct {
	Mean         float64
	StdDev       float64
	Median       float64
	Min          float64
	Max          float64
	CalmFraction float64 // fraction of samples below CalmThreshold
	PowerDensity float64 // W/m²
}

// Stats computes the summary statistics of a speed series.
func Stats(speeds []float64) (SpeedStats, error) {
	if len(speeds) == 0 {
		return SpeedStats{}, fmt.Errorf("%w: empty speed series", ErrConfig)
	}
	sorted := make([]float64, len(speeds))
	copy(sorted, speeds)
	sort.Float64s(sorted)

	calm := 0
	for _, v := range speeds {
		if v < CalmThreshold {
			calm++
		}
	}
	return SpeedStats{
		Mean:         stat.Mean(speeds, nil),
		StdDev:       stat.StdDev(speeds, nil),
		Median:       stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:          sorted[0],
		Max:          sorted[len(sorted)-1],
		CalmFraction: float64(calm) / float64(len(speeds)),
		PowerDensity: PowerDensity(speeds),
	}, nil
}
