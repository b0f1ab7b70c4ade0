// Package wind implements the wind-resource analyzer: vertical profile
// extrapolation, direction sectorization and circular statistics, Weibull
// fitting, wind-rose tabulation and the summary resource assessment.
//
// Directions are meteorological degrees (the direction the wind comes
// from, clockwise from north); speeds are m/s.
package wind

import (
	"errors"
	"fmt"
	"math"
)

const (
	// AirDensity is the standard sea-level air density used for power
	// density, kg/m³.
	AirDensity = 1.225

	// CalmThreshold is the speed below which a sample counts as calm, m/s.
	CalmThreshold = 0.5

	// DefaultShearExponent is the power-law exponent for open terrain.
	// Rough guide: 0.10 water, 0.14 open land, 0.20 suburbs, 0.25+ urban.
	DefaultShearExponent = 0.14
)

var (
	// ErrConfig covers invalid sector counts, bin edges and other
	// parameter errors.
	ErrConfig = errors.New("wind: configuration error")

	// ErrDataQuality covers physically corrupt inputs, such as a
	// measurement height at or below the surface roughness length.
	ErrDataQuality = errors.New("wind: data-quality error")
)

// AdjustHeight extrapolates speeds from one measurement height to another
// with the power-law profile v2 = v1·(h2/h1)^α. Heights must be positive.
func AdjustHeight(speeds []float64, fromHeight, toHeight, alpha float64) ([]float64, error) {
	if fromHeight <= 0 || toHeight <= 0 {
		return nil, fmt.Errorf("%w: heights must be positive, got %g and %g",
			ErrConfig, fromHeight, toHeight)
	}
	factor := math.Pow(toHeight/fromHeight, alpha)
	out := make([]float64, len(speeds))
	for i, v := range speeds {
		out[i] = v * factor
	}
	return out, nil
}

// AdjustHeightLog extrapolates speeds with the logarithmic profile
// v2 = v1·ln(h2/z0)/ln(h1/z0) for surface roughness length z0 (m). Both
// heights must exceed the roughness length.
func AdjustHeightLog(speeds []float64, fromHeight, toHeight, roughness float64) ([]float64, error) {
	if roughness <= 0 {
		return nil, fmt.Errorf("%w: roughness length must be positive, got %g", ErrConfig, roughness)
	}
	if fromHeight <= roughness || toHeight <= roughness {
		return nil, fmt.Errorf("%w: heights %g and %g must exceed roughness length %g",
			ErrDataQuality, fromHeight, toHeight, roughness)
	}
	factor := math.Log(toHeight/roughness) / math.Log(fromHeight/roughness)
	out := make([]float64, len(speeds))
	for i, v := range speeds {
		out[i] = v * factor
	}
	return out, nil
}

// sectorNames lists compass labels for the supported sector counts.
var sectorNames = map[int][]string{
	4: {"N", "E", "S", "W"},
	8: {"N", "NE", "E", "SE", "S", "SW", "W", "NW"},
	16: {"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"},
}

// SectorNames returns the compass labels for n sectors (4, 8 or 16).
func SectorNames(n int) ([]string, error) {
	names, ok := sectorNames[n]
	if !ok {
		return nil, fmt.Errorf("%w: sector count must be 4, 8 or 16, got %d", ErrConfig, n)
	}
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}

// SectorOf maps a direction to its sector index for n sectors. Sectors are
// centered on their compass direction: each spans half a sector width to
// either side, so 360° and 0° are both sector 0 and 337.5° is NNW at 16
// sectors. n must be a supported sector count.
func SectorOf(direction float64, n int) int {
	width := 360.0 / float64(n)
	d := math.Mod(direction, 360)
	if d < 0 {
		d += 360
	}
	return int(math.Round(d/width)) % n
}

// Sectors maps every direction to its sector index.
func Sectors(directions []float64, n int) ([]int, error) {
	if _, ok := sectorNames[n]; !ok {
		return nil, fmt.Errorf("%w: sector count must be 4, 8 or 16, got %d", ErrConfig, n)
	}
	out := make([]int, len(directions))
	for i, d := range directions {
		out[i] = SectorOf(d, n)
	}
	return out, nil
}

// MeanDirection returns the circular mean of directions in [0,360). A
// vector mean, not an arithmetic one: 350° and 10° average to 0°, not 180°.
func MeanDirection(directions []float64) float64 {
	var sinSum, cosSum float64
	for _, d := range directions {
		r := d * math.Pi / 180
		sinSum += math.Sin(r)
		cosSum += math.Cos(r)
	}
	mean := math.Atan2(sinSum, cosSum) * 180 / math.Pi
	if mean < 0 {
		mean += 360
	}
	return mean
}

// DirectionStdDev returns the circular standard deviation in degrees via
// the Yamartino relation √(−2·ln R) on the mean resultant length R. A
// uniform direction distribution (R→0) yields +Inf.
func DirectionStdDev(directions []float64) float64 {
	if len(directions) == 0 {
		return math.NaN()
	}
	var sinSum, cosSum float64
	for _, d := range directions {
		r := d * math.Pi / 180
		sinSum += math.Sin(r)
		cosSum += math.Cos(r)
	}
	n := float64(len(directions))
	r := math.Hypot(sinSum/n, cosSum/n)
	if r <= 0 {
		return math.Inf(1)
	}
	if r >= 1 {
		return 0
	}
	return math.Sqrt(-2*math.Log(r)) * 180 / math.Pi
}

// PowerDensity returns the mean wind power density ½·ρ·mean(v³) in W/m².
func PowerDensity(speeds []float64) float64 {
	if len(speeds) == 0 {
		return math.NaN()
	}
	var cubes float64
	for _, v := range speeds {
		cubes += v * v * v
	}
	return 0.5 * AirDensity * cubes / float64(len(speeds))
}
