// Package solarpos converts a local-standard-time weather axis plus site
// coordinates into solar zenith and azimuth series.
//
// Two position strategies exist behind the same contract, selected by
// explicit model name: ModelEphemeris delegates to the Meeus astronomical
// routines, ModelSimplified is the crude sinusoidal placeholder retained
// for quick sweeps. Callers choose; nothing is inherited or swapped
// silently.
package solarpos

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/epwkit/epwkit/pkg/timeseries"
)

// Model names a solar-position strategy.
type Model string

const (
	// ModelEphemeris computes apparent solar position from the Meeus
	// ephemeris routines. The accurate choice.
	ModelEphemeris Model = "ephemeris"

	// ModelSimplified is the legacy hour-of-day approximation: zenith
	// 45+45·cos(2π(h−12)/24), azimuth 180+15·(h−12). Only suitable for
	// rough multi-orientation sweeps.
	ModelSimplified Model = "simplified"
)

var (
	// ErrNoLocation indicates that latitude/longitude/UTC offset were not
	// supplied and could not be resolved from the frame's site metadata.
	ErrNoLocation = errors.New("solarpos: location unresolved")

	// ErrNoTimeAxis indicates a frame without a genuine time-indexed axis.
	ErrNoTimeAxis = errors.New("solarpos: frame has no time axis")

	// ErrUnknownModel indicates an unrecognized position-model name.
	ErrUnknownModel = errors.New("solarpos: unknown position model")
)

// Angles holds zenith and azimuth series in degrees, aligned to the input
// axis. Zenith is clipped to [0,90], azimuth (clockwise from north) to
// [0,360].
type Angles struct {
	Zenith  []float64
	Azimuth []float64
}

// ForFrame computes solar angles for every sample of the frame's time
// axis. A nil site falls back to the frame's attached metadata; failing
// that, the call is a configuration error. The frame's timestamps are
// interpreted as local standard time for the site: each wall-clock instant
// is re-anchored in a fixed-offset zone built from the site's UTC offset
// (never a DST-aware zone), converted to UTC for the ephemeris, and the
// results are realigned positionally to the original axis.
func ForFrame(f *timeseries.Frame, site *timeseries.Site, model Model) (Angles, error) {
	if site == nil {
		site = f.Site()
	}
	if site == nil {
		return Angles{}, fmt.Errorf("%w: no coordinates supplied and none attached to the series", ErrNoLocation)
	}
	if err := site.Validate(); err != nil {
		return Angles{}, fmt.Errorf("%w: %v", ErrNoLocation, err)
	}
	if !f.HasTimes() {
		return Angles{}, ErrNoTimeAxis
	}

	switch model {
	case ModelEphemeris, "":
		return ForTimes(f.Times(), site), nil
	case ModelSimplified:
		return simplifiedAngles(f.Times()), nil
	default:
		return Angles{}, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
}

// ForTimes runs the ephemeris strategy over explicit local-standard-time
// instants for a validated site.
func ForTimes(times []time.Time, site *timeseries.Site) Angles {
	zone := site.FixedZone()
	out := Angles{
		Zenith:  make([]float64, len(times)),
		Azimuth: make([]float64, len(times)),
	}
	for i, t := range times {
		// Re-anchor the wall-clock reading into the site's fixed zone,
		// then hand the ephemeris the same physical instant in UTC.
		local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, zone)
		zen, az := Position(local.UTC(), site.Latitude, site.Longitude)
		out.Zenith[i] = clamp(zen, 0, 90)
		out.Azimuth[i] = clamp(az, 0, 360)
	}
	return out
}

// Position returns the apparent solar zenith and azimuth (degrees, azimuth
// clockwise from north) for a UTC instant at the given coordinates.
// Latitude is north-positive, longitude east-positive.
func Position(utc time.Time, latitude, longitude float64) (zenith, azimuth float64) {
	jd := julian.TimeToJD(utc)
	ra, dec := solar.ApparentEquatorial(jd)
	st := sidereal.Apparent(jd)

	phi := unit.AngleFromDeg(latitude)
	// Meeus measures observer longitude positive west.
	psi := unit.AngleFromDeg(-longitude)

	a, h := coord.EqToHz(ra, dec, phi, psi, st)

	// Meeus azimuth is measured westward from south; rotate to the
	// compass convention (clockwise from north).
	azimuth = math.Mod(a.Deg()+180, 360)
	if azimuth < 0 {
		azimuth += 360
	}
	zenith = 90 - h.Deg()
	return zenith, azimuth
}

// simplifiedAngles applies the placeholder model sample by sample. It only
// looks at the hour of day.
func simplifiedAngles(times []time.Time) Angles {
	out := Angles{
		Zenith:  make([]float64, len(times)),
		Azimuth: make([]float64, len(times)),
	}
	for i, t := range times {
		h := float64(t.Hour())
		zen := 45 + 45*math.Cos(2*math.Pi*(h-12)/24)
		az := math.Mod(180+(h-12)*15, 360)
		if az < 0 {
			az += 360
		}
		out.Zenith[i] = clamp(zen, 0, 90)
		out.Azimuth[i] = az
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
