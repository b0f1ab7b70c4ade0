package irradiance

import (
	"fmt"
	"math"
)

// sample bundles the per-timestep quantities a sky model can draw on.
type sample struct {
	dni, dhi, ghi    float64
	zenith, azimuth  float64
	cosTilt, sinTilt float64
	cosAOI           float64
	e0               float64 // extraterrestrial normal irradiance
}

type skyFunc func(sample) float64

func skyModelFunc(m SkyModel) (skyFunc, error) {
	switch m {
	case SkyIsotropic:
		return skyIsotropic, nil
	case SkyKing:
		return skyKing, nil
	case SkyHayDavies:
		return skyHayDavies, nil
	case SkyReindl:
		return skyReindl, nil
	case SkyPerez, SkyPerezDriesse:
		// The Driesse continuous refit is not implemented separately; the
		// name maps onto the 1990 table-based Perez model.
		return skyPerez, nil
	default:
		return nil, fmt.Errorf("%w: unknown sky model %q", ErrConfig, m)
	}
}

func needsExtraterrestrial(m SkyModel) bool {
	switch m {
	case SkyHayDavies, SkyReindl, SkyPerez, SkyPerezDriesse:
		return true
	}
	return false
}

// skyIsotropic treats the sky dome as uniformly bright.
func skyIsotropic(s sample) float64 {
	return s.dhi * (1 + s.cosTilt) / 2
}

// skyKing adds an empirical GHI-scaled correction to the isotropic dome.
func skyKing(s sample) float64 {
	iso := s.dhi * (1 + s.cosTilt) / 2
	corr := s.ghi * (0.012*s.zenith - 0.04) * (1 - s.cosTilt) / 2
	return iso + corr
}

// cos85 floors the beam-ratio denominator near the horizon.
var cos85 = math.Cos(deg2rad(85))

// beamRatio is the tilted-to-horizontal beam projection ratio, with the
// numerator clipped at 0 (sun behind the surface) and the denominator
// floored near the horizon to keep the ratio bounded.
func beamRatio(s sample) float64 {
	return math.Max(s.cosAOI, 0) / math.Max(math.Cos(deg2rad(s.zenith)), cos85)
}

// skyHayDavies splits diffuse into a circumsolar part transposed like beam
// and an isotropic remainder, weighted by the anisotropy index DNI/E0.
func skyHayDavies(s sample) float64 {
	if s.dhi <= 0 {
		return 0
	}
	ai := s.dni / s.e0
	return s.dhi * (ai*beamRatio(s) + (1-ai)*(1+s.cosTilt)/2)
}

// skyReindl extends Hay-Davies with a horizon-brightening term driven by
// the beam fraction of global horizontal irradiance.
func skyReindl(s sample) float64 {
	if s.dhi <= 0 {
		return 0
	}
	ai := s.dni / s.e0
	f := 0.0
	if s.ghi > 0 {
		hb := math.Max(s.dni*math.Cos(deg2rad(s.zenith)), 0)
		f = math.Sqrt(hb / s.ghi)
	}
	// tan(tilt/2) identity avoids carrying the tilt angle itself around.
	halfTilt := math.Atan2(s.sinTilt, 1+s.cosTilt)
	horizonTerm := 1 + f*math.Pow(math.Sin(halfTilt), 3)
	return s.dhi * (ai*beamRatio(s) + (1-ai)*(1+s.cosTilt)/2*horizonTerm)
}

// Perez 1990 "allsitescomposite1990" brightness coefficients, one row per
// clearness bin: f11 f12 f13 f21 f22 f23.
var perezCoeffs = [8][6]float64{
	{-0.008, 0.588, -0.062, -0.060, 0.072, -0.022},
	{0.130, 0.683, -0.151, -0.019, 0.066, -0.029},
	{0.330, 0.487, -0.221, 0.055, -0.064, -0.026},
	{0.568, 0.187, -0.295, 0.109, -0.152, -0.014},
	{0.873, -0.392, -0.362, 0.226, -0.462, 0.001},
	{1.132, -1.237, -0.412, 0.288, -0.823, 0.056},
	{1.060, -1.600, -0.359, 0.264, -1.127, 0.131},
	{0.678, -0.327, -0.250, 0.156, -1.377, 0.251},
}

// perezBins are the upper clearness-bin edges; ε above the last edge falls
// in the final bin.
var perezBins = [7]float64{1.065, 1.23, 1.5, 1.95, 2.8, 4.5, 6.2}

func perezBin(epsilon float64) int {
	for i, edge := range perezBins {
		if epsilon < edge {
			return i
		}
	}
	return len(perezBins)
}

// skyPerez is the Perez 1990 point-source anisotropic model: circumsolar
// and horizon brightening coefficients looked up by sky clearness and
// scaled by sky brightness.
func skyPerez(s sample) float64 {
	if s.dhi <= 0 {
		return 0
	}
	zenRad := deg2rad(s.zenith)
	kappa := 1.041
	eps := ((s.dhi+s.dni)/s.dhi + kappa*zenRad*zenRad*zenRad) /
		(1 + kappa*zenRad*zenRad*zenRad)
	am := relativeAirmass(math.Min(s.zenith, 89.999))
	delta := s.dhi * am / s.e0

	c := perezCoeffs[perezBin(eps)]
	f1 := math.Max(0, c[0]+c[1]*delta+zenRad*c[2])
	f2 := c[3] + c[4]*delta + zenRad*c[5]

	a := math.Max(s.cosAOI, 0)
	b := math.Max(math.Cos(zenRad), cos85)

	return s.dhi * ((1-f1)*(1+s.cosTilt)/2 + f1*a/b + f2*s.sinTilt)
}
