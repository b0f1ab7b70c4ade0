package irradiance

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/epwkit/epwkit/pkg/epw"
	"github.com/epwkit/epwkit/pkg/solarpos"
	"github.com/epwkit/epwkit/pkg/timeseries"
)

// BatchOptions extends Options with the position model used to derive
// solar angles from the weather frame.
type BatchOptions struct {
	Options
	Position solarpos.Model
}

// SurfaceComponents labels one surface's component block within a batch
// result.
type SurfaceComponents struct {
	Surface Surface
	Components
}

// ForSurfaces decomposes a weather frame onto several surfaces at once:
// solar angles are computed once from the frame's time axis and site, then
// each surface gets its own component block on the shared index. Surfaces
// are independent; no surface sees another's results.
func ForSurfaces(f *timeseries.Frame, site *timeseries.Site, surfaces []Surface, opt BatchOptions) ([]SurfaceComponents, error) {
	if len(surfaces) == 0 {
		return nil, fmt.Errorf("%w: no surfaces given", ErrConfig)
	}
	if err := epw.Validate(f, epw.SetSolar); err != nil {
		return nil, err
	}
	angles, err := solarpos.ForFrame(f, site, opt.Position)
	if err != nil {
		return nil, err
	}

	dni, _ := f.Column(epw.ColDirectNormal)
	dhi, _ := f.Column(epw.ColDiffuseHorizontal)
	ghi, _ := f.Column(epw.ColGlobalHorizontal)

	in := Inputs{
		DNI:     dni,
		DHI:     dhi,
		GHI:     ghi,
		Zenith:  angles.Zenith,
		Azimuth: angles.Azimuth,
	}
	if f.HasTimes() {
		in.Times = f.Times()
	}

	out := make([]SurfaceComponents, 0, len(surfaces))
	for _, surf := range surfaces {
		comps, err := Decompose(in, surf, opt.Options)
		if err != nil {
			return nil, fmt.Errorf("surface tilt=%g azimuth=%g: %w", surf.Tilt, surf.Azimuth, err)
		}
		out = append(out, SurfaceComponents{Surface: surf, Components: comps})
	}
	return out, nil
}

// ComponentsFrame lays batch results out as one frame: four columns per
// surface, named by the surface azimuth ("180_direct", "180_sky_diffuse",
// "180_ground_diffuse", "180_global"), all sharing the given time axis.
func ComponentsFrame(results []SurfaceComponents, times []time.Time) *timeseries.Frame {
	var f *timeseries.Frame
	n := 0
	if len(results) > 0 {
		n = len(results[0].Global)
	}
	if len(times) == n && n > 0 {
		f = timeseries.NewTimeFrame(times)
	} else {
		f = timeseries.NewFrame(n)
	}
	for _, r := range results {
		prefix := strconv.FormatFloat(r.Surface.Azimuth, 'g', -1, 64)
		f.AddColumn(prefix+"_direct", r.Direct)
		f.AddColumn(prefix+"_sky_diffuse", r.SkyDiffuse)
		f.AddColumn(prefix+"_ground_diffuse", r.GroundDiffuse)
		f.AddColumn(prefix+"_global", r.Global)
	}
	return f
}

// SweepResult holds one orientation's total irradiance series from an
// orientation sweep.
type SweepResult struct {
	Azimuth    float64
	Irradiance []float64
}

// DefaultSweepOrientations are the four cardinal facade azimuths.
var DefaultSweepOrientations = []float64{0, 90, 180, 270}

// OrientationSweep is the legacy quick estimate for vertical facades: the
// simplified hour-of-day position model, a flat half-dome diffuse share
// and a half-dome ground reflection. It trades accuracy for speed and
// needs no ephemeris; use ForSurfaces for anything that matters.
func OrientationSweep(f *timeseries.Frame, orientations []float64, albedo float64) ([]SweepResult, error) {
	if err := epw.Validate(f, epw.SetSolar); err != nil {
		return nil, err
	}
	if !f.HasTimes() {
		return nil, fmt.Errorf("%w: orientation sweep needs a time axis", ErrConfig)
	}
	if albedo < 0 || albedo > 1 {
		return nil, fmt.Errorf("%w: albedo %v outside [0,1]", ErrConfig, albedo)
	}
	if len(orientations) == 0 {
		orientations = DefaultSweepOrientations
	}

	dni, _ := f.Column(epw.ColDirectNormal)
	dhi, _ := f.Column(epw.ColDiffuseHorizontal)
	ghi, _ := f.Column(epw.ColGlobalHorizontal)

	angles, err := solarpos.ForFrame(f, f.Site(), solarpos.ModelSimplified)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, 0, len(orientations))
	for _, az := range orientations {
		total := make([]float64, f.Len())
		for i := range total {
			zen := angles.Zenith[i]
			if zen >= 90 {
				continue // sun below horizon
			}
			// Vertical surface: cos(AOI) collapses to sin(zenith)·cos(Δaz).
			cosAOI := math.Sin(deg2rad(zen)) * math.Cos(deg2rad(angles.Azimuth[i]-az))
			direct := dni[i] * math.Max(cosAOI, 0)
			diffuse := dhi[i] * 0.5
			reflected := ghi[i] * albedo * 0.5
			total[i] = direct + diffuse + reflected
		}
		out = append(out, SweepResult{Azimuth: az, Irradiance: total})
	}
	return out, nil
}
