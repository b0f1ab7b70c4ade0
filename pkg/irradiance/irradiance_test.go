package irradiance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epwkit/epwkit/pkg/epw"
	"github.com/epwkit/epwkit/pkg/timeseries"
)

var allModels = []SkyModel{SkyIsotropic, SkyKing, SkyHayDavies, SkyReindl, SkyPerez}

// daylightInputs is a plausible clear-ish afternoon: sun at 45° zenith in
// the southwest.
func daylightInputs(n int) Inputs {
	in := Inputs{
		Times:   timeseries.HourlyIndex(time.Date(2023, 6, 21, 10, 0, 0, 0, time.UTC), n),
		DNI:     make([]float64, n),
		DHI:     make([]float64, n),
		GHI:     make([]float64, n),
		Zenith:  make([]float64, n),
		Azimuth: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		in.DNI[i] = 700 + 10*float64(i)
		in.DHI[i] = 120 + 5*float64(i)
		in.Zenith[i] = 45 + float64(i)
		in.Azimuth[i] = 200 + 3*float64(i)
		in.GHI[i] = in.DNI[i]*math.Cos(in.Zenith[i]*math.Pi/180) + in.DHI[i]
	}
	return in
}

func TestDecomposeAdditiveInvariant(t *testing.T) {
	in := daylightInputs(6)
	surf := Surface{Tilt: 35, Azimuth: 180}
	for _, model := range allModels {
		t.Run(string(model), func(t *testing.T) {
			c, err := Decompose(in, surf, Options{Model: model, Albedo: 0.25})
			require.NoError(t, err)
			for i := range c.Global {
				sum := c.Direct[i] + c.SkyDiffuse[i] + c.GroundDiffuse[i]
				assert.Equal(t, sum, c.Global[i], "sample %d", i)
				assert.GreaterOrEqual(t, c.Direct[i], 0.0)
				assert.GreaterOrEqual(t, c.SkyDiffuse[i], 0.0)
				assert.GreaterOrEqual(t, c.GroundDiffuse[i], 0.0)
			}
		})
	}
}

func TestDecomposeHorizontalSurface(t *testing.T) {
	in := daylightInputs(3)
	c, err := Decompose(in, Surface{Tilt: 0, Azimuth: 0}, Options{Model: SkyIsotropic, Albedo: 0.5})
	require.NoError(t, err)

	for i := range c.Global {
		// Horizontal: full sky dome, no ground view, beam scaled by cos(zenith).
		assert.InDelta(t, in.DHI[i], c.SkyDiffuse[i], 1e-9)
		assert.InDelta(t, 0.0, c.GroundDiffuse[i], 1e-9)
		assert.InDelta(t, in.DNI[i]*math.Cos(in.Zenith[i]*math.Pi/180), c.Direct[i], 1e-9)
	}
}

func TestDecomposeSunBehindSurface(t *testing.T) {
	in := daylightInputs(1)
	in.Azimuth[0] = 180
	// North-facing vertical wall with the sun due south: no beam.
	c, err := Decompose(in, Surface{Tilt: 90, Azimuth: 0}, Options{Model: SkyIsotropic, Albedo: 0.2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Direct[0])
	assert.Greater(t, c.SkyDiffuse[0], 0.0)
	assert.Greater(t, c.GroundDiffuse[0], 0.0)
}

func TestSkyModelsDiffer(t *testing.T) {
	in := daylightInputs(4)
	surf := Surface{Tilt: 40, Azimuth: 200}
	opt := func(m SkyModel) Options { return Options{Model: m, Albedo: 0.2} }

	iso, err := Decompose(in, surf, opt(SkyIsotropic))
	require.NoError(t, err)
	hay, err := Decompose(in, surf, opt(SkyHayDavies))
	require.NoError(t, err)
	reindl, err := Decompose(in, surf, opt(SkyReindl))
	require.NoError(t, err)
	perez, err := Decompose(in, surf, opt(SkyPerez))
	require.NoError(t, err)

	assert.NotEqual(t, iso.SkyDiffuse, hay.SkyDiffuse)
	assert.NotEqual(t, iso.SkyDiffuse, perez.SkyDiffuse)
	// Reindl is Hay-Davies plus horizon brightening, so it can only add.
	for i := range hay.SkyDiffuse {
		assert.GreaterOrEqual(t, reindl.SkyDiffuse[i]+1e-9, hay.SkyDiffuse[i])
	}
	// With strong beam, the circumsolar share tilts the anisotropic models
	// above isotropic on a sun-facing surface.
	assert.Greater(t, hay.SkyDiffuse[0], 0.0)
}

func TestPerezDriesseAlias(t *testing.T) {
	in := daylightInputs(3)
	surf := Surface{Tilt: 30, Azimuth: 210}
	a, err := Decompose(in, surf, Options{Model: SkyPerez, Albedo: 0.2})
	require.NoError(t, err)
	b, err := Decompose(in, surf, Options{Model: SkyPerezDriesse, Albedo: 0.2})
	require.NoError(t, err)
	assert.Equal(t, a.SkyDiffuse, b.SkyDiffuse)
}

func TestDecomposeNightIsZero(t *testing.T) {
	in := Inputs{
		Times:   timeseries.HourlyIndex(time.Date(2023, 6, 21, 0, 0, 0, 0, time.UTC), 1),
		DNI:     []float64{0},
		DHI:     []float64{0},
		GHI:     []float64{0},
		Zenith:  []float64{90},
		Azimuth: []float64{15},
	}
	for _, model := range allModels {
		c, err := Decompose(in, Surface{Tilt: 35, Azimuth: 180}, Options{Model: model, Albedo: 0.2})
		require.NoError(t, err, "model %s", model)
		assert.Equal(t, 0.0, c.Global[0], "model %s", model)
	}
}

func TestDecomposeErrors(t *testing.T) {
	in := daylightInputs(3)

	short := in
	short.GHI = in.GHI[:2]
	_, err := Decompose(short, Surface{Tilt: 30}, DefaultOptions())
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Decompose(in, Surface{Tilt: 30}, Options{Model: SkyIsotropic, Albedo: 1.5})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Decompose(in, Surface{Tilt: 30}, Options{Model: SkyModel("klucher"), Albedo: 0.2})
	assert.ErrorIs(t, err, ErrConfig)

	noTimes := in
	noTimes.Times = nil
	_, err = Decompose(noTimes, Surface{Tilt: 30}, Options{Model: SkyPerez, Albedo: 0.2})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Decompose(Inputs{}, Surface{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrConfig)
}

func TestCosIncidence(t *testing.T) {
	// Horizontal surface sees cos(zenith) regardless of azimuth.
	assert.InDelta(t, math.Cos(30*math.Pi/180), CosIncidence(30, 123, 0, 0), 1e-12)

	// Vertical surface facing the sun's azimuth sees sin(zenith).
	assert.InDelta(t, math.Sin(60*math.Pi/180), CosIncidence(60, 180, 90, 180), 1e-12)

	// Azimuths wrap: 360° and 0° are the same direction.
	assert.InDelta(t,
		CosIncidence(50, 0, 90, 0),
		CosIncidence(50, 360, 90, 360), 1e-12)

	// Sun directly behind a vertical wall.
	assert.InDelta(t, -math.Sin(60*math.Pi/180), CosIncidence(60, 0, 90, 180), 1e-12)
}

func TestExtraterrestrialNormal(t *testing.T) {
	perihelion := ExtraterrestrialNormal(time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC))
	aphelion := ExtraterrestrialNormal(time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC))
	assert.Greater(t, perihelion, aphelion)
	assert.InDelta(t, 1412, perihelion, 3)
	assert.InDelta(t, 1322, aphelion, 3)
}

func TestRelativeAirmass(t *testing.T) {
	assert.InDelta(t, 1.0, relativeAirmass(0), 0.01)
	assert.InDelta(t, 2.0, relativeAirmass(60), 0.02)
	assert.InDelta(t, 38, relativeAirmass(89.9), 4)
	assert.True(t, math.IsInf(relativeAirmass(90), 1))
}

func TestPerezBinEdges(t *testing.T) {
	tests := []struct {
		epsilon float64
		bin     int
	}{
		{1.0, 0},
		{1.064, 0},
		{1.065, 1},
		{1.4, 2},
		{2.0, 4},
		{5.0, 6},
		{6.2, 7},
		{10.0, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bin, perezBin(tt.epsilon), "epsilon %g", tt.epsilon)
	}
}

func solarTestFrame(t *testing.T, n int) *timeseries.Frame {
	t.Helper()
	start := time.Date(2023, 6, 21, 0, 0, 0, 0, time.UTC)
	f := timeseries.NewTimeFrame(timeseries.HourlyIndex(start, n))
	f.SetSite(&timeseries.Site{Latitude: 37.62, Longitude: -122.4, UTCOffset: -8})

	dni := make([]float64, n)
	dhi := make([]float64, n)
	ghi := make([]float64, n)
	for i := 0; i < n; i++ {
		h := i % 24
		if h >= 7 && h <= 17 {
			dni[i] = 600
			dhi[i] = 100
			ghi[i] = 500
		}
	}
	require.NoError(t, f.AddColumn(epw.ColDirectNormal, dni))
	require.NoError(t, f.AddColumn(epw.ColDiffuseHorizontal, dhi))
	require.NoError(t, f.AddColumn(epw.ColGlobalHorizontal, ghi))
	return f
}

func TestForSurfaces(t *testing.T) {
	f := solarTestFrame(t, 24)
	surfaces := []Surface{
		{Tilt: 90, Azimuth: 180},
		{Tilt: 30, Azimuth: 180},
	}
	results, err := ForSurfaces(f, nil, surfaces, BatchOptions{
		Options: Options{Model: SkyIsotropic, Albedo: 0.2},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.Len(t, r.Global, 24)
		for i := range r.Global {
			assert.InDelta(t, r.Direct[i]+r.SkyDiffuse[i]+r.GroundDiffuse[i], r.Global[i], 1e-12)
		}
	}
	assert.Equal(t, surfaces[0], results[0].Surface)

	// A June noon south wall collects less than a 30° south tilt.
	assert.Less(t, sum(results[0].Global), sum(results[1].Global))
}

func TestForSurfacesMissingColumns(t *testing.T) {
	f := timeseries.NewTimeFrame(timeseries.HourlyIndex(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 4))
	f.SetSite(&timeseries.Site{Latitude: 37.62, Longitude: -122.4, UTCOffset: -8})
	_, err := ForSurfaces(f, nil, []Surface{{Tilt: 90}}, BatchOptions{Options: DefaultOptions()})
	require.Error(t, err)
	assert.ErrorIs(t, err, epw.ErrMissingColumns)
	assert.Contains(t, err.Error(), epw.ColDirectNormal)
}

func TestForSurfacesNoSurfaces(t *testing.T) {
	f := solarTestFrame(t, 4)
	_, err := ForSurfaces(f, nil, nil, BatchOptions{Options: DefaultOptions()})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestComponentsFrame(t *testing.T) {
	f := solarTestFrame(t, 24)
	results, err := ForSurfaces(f, nil, []Surface{
		{Tilt: 90, Azimuth: 0},
		{Tilt: 90, Azimuth: 180},
	}, BatchOptions{Options: Options{Model: SkyIsotropic, Albedo: 0.2}})
	require.NoError(t, err)

	out := ComponentsFrame(results, f.Times())
	assert.Equal(t, 24, out.Len())
	assert.True(t, out.HasTimes())
	for _, name := range []string{
		"0_direct", "0_sky_diffuse", "0_ground_diffuse", "0_global",
		"180_direct", "180_sky_diffuse", "180_ground_diffuse", "180_global",
	} {
		assert.True(t, out.HasColumn(name), "missing column %q", name)
	}
}

func TestOrientationSweep(t *testing.T) {
	f := solarTestFrame(t, 24)
	results, err := OrientationSweep(f, nil, 0.2)
	require.NoError(t, err)
	require.Len(t, results, len(DefaultSweepOrientations))

	for i, r := range results {
		assert.Equal(t, DefaultSweepOrientations[i], r.Azimuth)
		require.Len(t, r.Irradiance, 24)
		for _, v := range r.Irradiance {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}

	// Any daylit hour with the placeholder sun above the horizon collects
	// at least the flat diffuse and reflected shares.
	dhi, _ := f.Column(epw.ColDiffuseHorizontal)
	ghi, _ := f.Column(epw.ColGlobalHorizontal)
	h := 9 // placeholder zenith is below 90° away from noon
	floor := dhi[h]*0.5 + ghi[h]*0.2*0.5
	assert.GreaterOrEqual(t, results[0].Irradiance[h], floor-1e-9)
}

func TestOrientationSweepErrors(t *testing.T) {
	f := solarTestFrame(t, 4)
	_, err := OrientationSweep(f, []float64{0, 90}, 1.5)
	assert.ErrorIs(t, err, ErrConfig)

	noTimes := timeseries.NewFrame(4)
	zero := make([]float64, 4)
	require.NoError(t, noTimes.AddColumn(epw.ColDirectNormal, zero))
	require.NoError(t, noTimes.AddColumn(epw.ColDiffuseHorizontal, zero))
	require.NoError(t, noTimes.AddColumn(epw.ColGlobalHorizontal, zero))
	_, err = OrientationSweep(noTimes, nil, 0.2)
	assert.ErrorIs(t, err, ErrConfig)
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}
