// Package irradiance turns horizontal-plane irradiance measurements and
// solar geometry into plane-of-array irradiance for tilted, oriented
// surfaces.
//
// The global component is defined as direct + sky-diffuse + ground-diffuse,
// so the additive invariant holds by construction rather than by
// adjustment. Output units follow the input irradiance units (W/m² in,
// W/m² out; Wh/m² in, Wh/m² out) — nothing is converted silently.
package irradiance

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// SkyModel names a sky-diffuse transposition model.
type SkyModel string

const (
	SkyIsotropic    SkyModel = "isotropic"
	SkyHayDavies    SkyModel = "haydavies"
	SkyReindl       SkyModel = "reindl"
	SkyKing         SkyModel = "king"
	SkyPerez        SkyModel = "perez"
	SkyPerezDriesse SkyModel = "perez-driesse"
)

// SolarConstant is the extraterrestrial normal irradiance at mean
// Earth-Sun distance, W/m².
const SolarConstant = 1367.0

// DefaultAlbedo is the customary grass/soil ground reflectance.
const DefaultAlbedo = 0.2

var (
	// ErrConfig covers mismatched series lengths, unknown models, and
	// out-of-range parameters.
	ErrConfig = errors.New("irradiance: configuration error")
)

// Surface describes one receiving plane: tilt in degrees from horizontal
// (0 horizontal, 90 vertical) and azimuth in degrees clockwise from north.
type Surface struct {
	Tilt    float64
	Azimuth float64
}

// Inputs carries the aligned series a decomposition consumes. Times is
// required by the models that need extraterrestrial irradiance
// (Hay-Davies, Reindl, Perez) and ignored by the rest.
type Inputs struct {
	Times   []time.Time
	DNI     []float64
	DHI     []float64
	GHI     []float64
	Zenith  []float64
	Azimuth []float64
}

// Options selects the sky model and ground albedo.
type Options struct {
	Model  SkyModel
	Albedo float64
}

// DefaultOptions returns the isotropic model with the default albedo.
func DefaultOptions() Options {
	return Options{Model: SkyIsotropic, Albedo: DefaultAlbedo}
}

// Components holds the per-sample plane-of-array irradiance components.
// Every series is non-negative and Global[i] equals the exact float sum of
// the other three at i.
type Components struct {
	Direct        []float64
	SkyDiffuse    []float64
	GroundDiffuse []float64
	Global        []float64
}

// Decompose computes plane-of-array components for one surface.
func Decompose(in Inputs, surf Surface, opt Options) (Components, error) {
	n := len(in.DNI)
	if n == 0 {
		return Components{}, fmt.Errorf("%w: empty irradiance input", ErrConfig)
	}
	for name, s := range map[string][]float64{
		"DHI": in.DHI, "GHI": in.GHI, "zenith": in.Zenith, "azimuth": in.Azimuth,
	} {
		if len(s) != n {
			return Components{}, fmt.Errorf("%w: %s has %d samples, DNI has %d",
				ErrConfig, name, len(s), n)
		}
	}
	if opt.Albedo < 0 || opt.Albedo > 1 {
		return Components{}, fmt.Errorf("%w: albedo %v outside [0,1]", ErrConfig, opt.Albedo)
	}
	model := opt.Model
	if model == "" {
		model = SkyIsotropic
	}
	sky, err := skyModelFunc(model)
	if err != nil {
		return Components{}, err
	}
	if needsExtraterrestrial(model) && len(in.Times) != n {
		return Components{}, fmt.Errorf("%w: sky model %q needs a time axis for extraterrestrial irradiance",
			ErrConfig, model)
	}

	tiltRad := deg2rad(surf.Tilt)
	cosTilt := math.Cos(tiltRad)
	sinTilt := math.Sin(tiltRad)

	out := Components{
		Direct:        make([]float64, n),
		SkyDiffuse:    make([]float64, n),
		GroundDiffuse: make([]float64, n),
		Global:        make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s := sample{
			dni:     in.DNI[i],
			dhi:     in.DHI[i],
			ghi:     in.GHI[i],
			zenith:  in.Zenith[i],
			azimuth: in.Azimuth[i],
			cosTilt: cosTilt,
			sinTilt: sinTilt,
			cosAOI:  CosIncidence(in.Zenith[i], in.Azimuth[i], surf.Tilt, surf.Azimuth),
		}
		if needsExtraterrestrial(model) {
			s.e0 = ExtraterrestrialNormal(in.Times[i])
		}

		direct := s.dni * math.Max(s.cosAOI, 0)
		ground := s.ghi * opt.Albedo * (1 - cosTilt) / 2
		diffuse := math.Max(sky(s), 0)

		out.Direct[i] = direct
		out.SkyDiffuse[i] = diffuse
		out.GroundDiffuse[i] = ground
		out.Global[i] = direct + diffuse + ground
	}
	return out, nil
}

// CosIncidence returns the cosine of the angle between the surface normal
// and the sun vector. All angles are degrees; azimuths are normalized
// modulo 360 before comparison.
func CosIncidence(solarZenith, solarAzimuth, surfaceTilt, surfaceAzimuth float64) float64 {
	zen := deg2rad(solarZenith)
	tilt := deg2rad(surfaceTilt)
	dAz := deg2rad(normalizeDeg(solarAzimuth) - normalizeDeg(surfaceAzimuth))
	return math.Cos(zen)*math.Cos(tilt) + math.Sin(zen)*math.Sin(tilt)*math.Cos(dAz)
}

// ExtraterrestrialNormal returns the normal-incidence extraterrestrial
// irradiance (W/m²) for the timestamp's day of year, applying the standard
// solar-constant seasonal correction for Earth-Sun distance.
func ExtraterrestrialNormal(t time.Time) float64 {
	doy := float64(t.YearDay())
	return SolarConstant * (1 + 0.033*math.Cos(2*math.Pi*doy/365))
}

// relativeAirmass is the Kasten-Young relative airmass. Beyond 90° zenith
// it returns +Inf (no direct path through the atmosphere).
func relativeAirmass(zenithDeg float64) float64 {
	if zenithDeg >= 90 {
		return math.Inf(1)
	}
	z := deg2rad(zenithDeg)
	return 1 / (math.Cos(z) + 0.50572*math.Pow(96.07995-zenithDeg, -1.6364))
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
