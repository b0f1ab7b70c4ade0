package psychro

import (
	"fmt"
	"strings"
	"time"

	"github.com/epwkit/epwkit/pkg/epw"
	"github.com/epwkit/epwkit/pkg/timeseries"
)

// Exported column names of the tabular state-point form.
const (
	ColDryBulb        = "Dry Bulb Temperature (°C)"
	ColPressure       = "Pressure (Pa)"
	ColHumidityRatio  = "Humidity Ratio (kg/kg)"
	ColRelHumidity    = "Relative Humidity (-)"
	ColWetBulb        = "Wet Bulb Temperature (°C)"
	ColDewPoint       = "Dew Point Temperature (°C)"
	ColEnthalpy       = "Enthalpy (kJ/kg)"
	ColSpecificVolume = "Specific Volume (m³/kg)"
)

// Input defines a state point. DryBulb is mandatory. Pressure defaults to
// sea level; Altitude, when given, overrides Pressure via the barometric
// formula. At most one of the four humidity fields may be set; none means
// dry air. Every field is either one sample (broadcast) or the full series
// length.
type Input struct {
	DryBulb  []float64
	Pressure []float64
	Altitude []float64

	HumidityRatio    []float64
	RelativeHumidity []float64
	WetBulb          []float64
	DewPoint         []float64
}

// Scalar wraps a single value for a broadcastable Input field.
func Scalar(v float64) []float64 { return []float64{v} }

// StatePoint is the immutable derived property set. Construct a new one to
// recompute; there are no mutation methods.
type StatePoint struct {
	dryBulb          []float64
	pressure         []float64
	humidityRatio    []float64
	relativeHumidity []float64
	wetBulb          []float64
	dewPoint         []float64
	enthalpy         []float64
	specificVolume   []float64
	times            []time.Time
}

// StatePoint derives the full property set from one defining humidity
// input. Supplying more than one humidity input is a configuration error;
// supplying none yields dry air (humidity ratio zero).
func (e *Engine) StatePoint(in Input) (*StatePoint, error) {
	if len(in.DryBulb) == 0 {
		return nil, fmt.Errorf("%w: dry-bulb temperature is required", ErrConfig)
	}

	var provided []string
	if in.HumidityRatio != nil {
		provided = append(provided, "humidity ratio")
	}
	if in.RelativeHumidity != nil {
		provided = append(provided, "relative humidity")
	}
	if in.WetBulb != nil {
		provided = append(provided, "wet-bulb temperature")
	}
	if in.DewPoint != nil {
		provided = append(provided, "dew-point temperature")
	}
	if len(provided) > 1 {
		return nil, fmt.Errorf("%w: exactly one humidity input allowed, got %s",
			ErrConfig, strings.Join(provided, " and "))
	}

	// Common sample count: the longest defined vector; scalars broadcast.
	n := len(in.DryBulb)
	for _, v := range [][]float64{
		in.Pressure, in.Altitude,
		in.HumidityRatio, in.RelativeHumidity, in.WetBulb, in.DewPoint,
	} {
		if len(v) > n {
			n = len(v)
		}
	}

	dryBulb, err := timeseries.Broadcast(in.DryBulb, n)
	if err != nil {
		return nil, fmt.Errorf("%w: dry bulb: %v", ErrConfig, err)
	}

	pressure := make([]float64, n)
	switch {
	case in.Altitude != nil:
		alt, err := timeseries.Broadcast(in.Altitude, n)
		if err != nil {
			return nil, fmt.Errorf("%w: altitude: %v", ErrConfig, err)
		}
		for i, a := range alt {
			pressure[i] = PressureFromAltitude(a)
		}
	case in.Pressure != nil:
		p, err := timeseries.Broadcast(in.Pressure, n)
		if err != nil {
			return nil, fmt.Errorf("%w: pressure: %v", ErrConfig, err)
		}
		copy(pressure, p)
	default:
		for i := range pressure {
			pressure[i] = SeaLevelPressure
		}
	}

	w := make([]float64, n)
	rhGiven := false
	switch {
	case in.HumidityRatio != nil:
		hr, err := timeseries.Broadcast(in.HumidityRatio, n)
		if err != nil {
			return nil, fmt.Errorf("%w: humidity ratio: %v", ErrConfig, err)
		}
		copy(w, hr)
	case in.RelativeHumidity != nil:
		rh, err := timeseries.Broadcast(in.RelativeHumidity, n)
		if err != nil {
			return nil, fmt.Errorf("%w: relative humidity: %v", ErrConfig, err)
		}
		rh, err = e.checkRelHumidity(rh, "input")
		if err != nil {
			return nil, err
		}
		for i := range w {
			w[i] = HumidityRatioFromRelHumidity(dryBulb[i], rh[i], pressure[i])
		}
		rhGiven = true
	case in.WetBulb != nil:
		wb, err := timeseries.Broadcast(in.WetBulb, n)
		if err != nil {
			return nil, fmt.Errorf("%w: wet bulb: %v", ErrConfig, err)
		}
		for i := range w {
			w[i] = HumidityRatioFromWetBulb(dryBulb[i], wb[i], pressure[i])
		}
	case in.DewPoint != nil:
		dp, err := timeseries.Broadcast(in.DewPoint, n)
		if err != nil {
			return nil, fmt.Errorf("%w: dew point: %v", ErrConfig, err)
		}
		for i := range w {
			w[i] = HumidityRatioFromDewPoint(dp[i], pressure[i])
		}
	default:
		// Dry air: humidity ratio stays zero.
	}

	return e.derive(dryBulb, pressure, w, rhGiven)
}

// derive computes the dependent properties once the humidity ratio is
// fixed.
func (e *Engine) derive(dryBulb, pressure, w []float64, rhChecked bool) (*StatePoint, error) {
	n := len(dryBulb)
	sp := &StatePoint{
		dryBulb:          dryBulb,
		pressure:         pressure,
		humidityRatio:    w,
		relativeHumidity: make([]float64, n),
		wetBulb:          make([]float64, n),
		dewPoint:         make([]float64, n),
		enthalpy:         make([]float64, n),
		specificVolume:   make([]float64, n),
	}

	for i := 0; i < n; i++ {
		t, p, wi := dryBulb[i], pressure[i], w[i]
		rh := RelHumidity(t, wi, p)
		sp.relativeHumidity[i] = rh
		sp.dewPoint[i] = DewPointFromVaporPressure(VaporPressure(wi, p))
		sp.wetBulb[i] = WetBulbApprox(t, rh)
		sp.enthalpy[i] = Enthalpy(t, wi)
		sp.specificVolume[i] = SpecificVolume(t, wi, p)
	}

	// The humidity input may have implied an out-of-range relative
	// humidity; apply the configured policy to the derived series unless
	// the input itself was already checked.
	if !rhChecked {
		rh, err := e.checkRelHumidity(sp.relativeHumidity, "derived")
		if err != nil {
			return nil, err
		}
		sp.relativeHumidity = rh
	}
	return sp, nil
}

// Len returns the sample count.
func (sp *StatePoint) Len() int { return len(sp.dryBulb) }

// DryBulb returns the dry-bulb temperature series, °C.
func (sp *StatePoint) DryBulb() []float64 { return sp.dryBulb }

// Pressure returns the total pressure series, Pa.
func (sp *StatePoint) Pressure() []float64 { return sp.pressure }

// HumidityRatio returns the humidity-ratio series, kg/kg dry air.
func (sp *StatePoint) HumidityRatio() []float64 { return sp.humidityRatio }

// RelHumidity returns the relative-humidity series as fractions.
func (sp *StatePoint) RelHumidity() []float64 { return sp.relativeHumidity }

// WetBulb returns the approximate wet-bulb temperature series, °C.
func (sp *StatePoint) WetBulb() []float64 { return sp.wetBulb }

// DewPoint returns the dew-point temperature series, °C. Dry-air samples
// are NaN.
func (sp *StatePoint) DewPoint() []float64 { return sp.dewPoint }

// Enthalpy returns the specific-enthalpy series, kJ/kg dry air.
func (sp *StatePoint) Enthalpy() []float64 { return sp.enthalpy }

// SpecificVolume returns the specific-volume series, m³/kg dry air.
func (sp *StatePoint) SpecificVolume() []float64 { return sp.specificVolume }

// Frame exports every property by name, one row per sample, aligned to the
// source time axis when the state point was derived from a weather frame.
func (sp *StatePoint) Frame() *timeseries.Frame {
	var f *timeseries.Frame
	if len(sp.times) == sp.Len() && sp.Len() > 0 {
		f = timeseries.NewTimeFrame(sp.times)
	} else {
		f = timeseries.NewFrame(sp.Len())
	}
	// Lengths match by construction, so AddColumn cannot fail here.
	f.AddColumn(ColDryBulb, sp.dryBulb)
	f.AddColumn(ColHumidityRatio, sp.humidityRatio)
	f.AddColumn(ColRelHumidity, sp.relativeHumidity)
	f.AddColumn(ColWetBulb, sp.wetBulb)
	f.AddColumn(ColDewPoint, sp.dewPoint)
	f.AddColumn(ColEnthalpy, sp.enthalpy)
	f.AddColumn(ColSpecificVolume, sp.specificVolume)
	f.AddColumn(ColPressure, sp.pressure)
	return f
}

// FromWeather builds a state point from an EPW-named weather frame using
// dry bulb and relative humidity, plus station pressure when the frame has
// it. EPW relative humidity is in percent; values are converted to
// fractions when the series maximum exceeds 1.
func (e *Engine) FromWeather(f *timeseries.Frame) (*StatePoint, error) {
	dryBulb, err := f.Column(epw.ColDryBulb)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	rh, err := f.Column(epw.ColRelHumidity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	maxRH := 0.0
	for _, v := range rh {
		if v > maxRH {
			maxRH = v
		}
	}
	if maxRH > 1 {
		frac := make([]float64, len(rh))
		for i, v := range rh {
			frac[i] = v / 100
		}
		rh = frac
	}

	in := Input{DryBulb: dryBulb, RelativeHumidity: rh}
	if p, err := f.Column(epw.ColPressure); err == nil {
		in.Pressure = p
	}

	sp, err := e.StatePoint(in)
	if err != nil {
		return nil, err
	}
	if f.HasTimes() {
		sp.times = f.Times()
	}
	return sp, nil
}
