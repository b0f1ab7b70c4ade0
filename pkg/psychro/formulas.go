// Package psychro implements the psychrometric state-point engine: given
// dry-bulb temperature, pressure and exactly one humidity-defining input,
// it derives the full consistent property set of moist air.
//
// The formulas are the hourly-climate-analysis approximations used
// throughout building-stock studies, not the iterative laboratory-grade
// solutions: saturation vapor pressure uses the Magnus form, the wet-bulb
// temperature a linear approximation. Both are deliberate and labeled.
package psychro

import "math"

// Physical constants (SI).
const (
	// SeaLevelPressure is the standard-atmosphere surface pressure, Pa.
	SeaLevelPressure = 101325.0

	// scaleHeight is the exponential-atmosphere scale height, m.
	scaleHeight = 7400.0

	// Magnus saturation-vapor-pressure coefficients (Pa, °C).
	magnusA = 610.78
	magnusB = 17.2694
	magnusC = 238.3

	// epsilon is the molecular-weight ratio of water vapor to dry air.
	epsilon = 0.62198

	// Moist-air enthalpy coefficients, kJ/kg per °C and kJ/kg.
	cpDryAir     = 1.006
	latentHeat   = 2501.0
	cpWaterVapor = 1.86

	// Specific-volume coefficients.
	gasConstantDryAir = 287.055 // J/(kg·K)
	volumeVaporFactor = 1.6078
)

// PressureFromAltitude converts altitude (m) to pressure (Pa) with the
// exponential standard-atmosphere barometric formula.
func PressureFromAltitude(altitude float64) float64 {
	return SeaLevelPressure * math.Exp(-altitude/scaleHeight)
}

// SaturationPressure returns the saturation vapor pressure (Pa) over water
// at temperature t (°C) using the Magnus approximation. It is the building
// block of every humidity-ratio conversion in this package.
func SaturationPressure(t float64) float64 {
	return magnusA * math.Exp(magnusB*t/(t+magnusC))
}

// HumidityRatioFromRelHumidity converts a relative-humidity fraction at
// dry-bulb temperature t (°C) and pressure p (Pa) to a humidity ratio
// (kg water / kg dry air).
func HumidityRatioFromRelHumidity(t, rh, p float64) float64 {
	pw := rh * SaturationPressure(t)
	return epsilon * pw / (p - pw)
}

// HumidityRatioFromDewPoint converts a dew-point temperature (°C) at
// pressure p (Pa) to a humidity ratio.
func HumidityRatioFromDewPoint(dewPoint, p float64) float64 {
	pws := SaturationPressure(dewPoint)
	return epsilon * pws / (p - pws)
}

// HumidityRatioFromWetBulb converts a wet-bulb temperature (°C) at dry-bulb
// temperature t (°C) and pressure p (Pa) to a humidity ratio using the
// enthalpy balance across the saturation state at the wet bulb. This is the
// non-iterative approximation: adequate for hourly climate series, not for
// precision laboratory work.
func HumidityRatioFromWetBulb(t, wetBulb, p float64) float64 {
	wsWB := HumidityRatioFromDewPoint(wetBulb, p) // saturation ratio at the wet bulb
	hWB := Enthalpy(wetBulb, wsWB)
	hDry := cpDryAir * t
	return (hWB - hDry) / (latentHeat + cpWaterVapor*t)
}

// VaporPressure returns the partial pressure of water vapor (Pa) for a
// humidity ratio w at total pressure p (Pa).
func VaporPressure(w, p float64) float64 {
	return w * p / (epsilon + w)
}

// RelHumidity derives the relative-humidity fraction from humidity ratio w
// at dry-bulb temperature t (°C) and pressure p (Pa).
func RelHumidity(t, w, p float64) float64 {
	return VaporPressure(w, p) / SaturationPressure(t)
}

// DewPointFromVaporPressure inverts the Magnus formula in closed form.
// A vapor pressure of zero (dry air) has no dew point; NaN is returned as
// the degenerate-input sentinel.
func DewPointFromVaporPressure(pw float64) float64 {
	if pw <= 0 {
		return math.NaN()
	}
	l := math.Log(pw / magnusA)
	return magnusC * l / (magnusB - l)
}

// WetBulbApprox estimates wet-bulb temperature (°C) from dry bulb and
// relative humidity with a linear approximation: a 5 °C depression at
// zero humidity, shrinking to zero at saturation. It is not the
// iterative psychrometric solution.
func WetBulbApprox(t, rh float64) float64 {
	return t - (1-rh)*5
}

// Enthalpy returns the specific enthalpy of moist air (kJ/kg dry air) at
// temperature t (°C) and humidity ratio w.
func Enthalpy(t, w float64) float64 {
	return cpDryAir*t + w*(latentHeat+cpWaterVapor*t)
}

// SpecificVolume returns the specific volume of moist air (m³/kg dry air)
// at temperature t (°C), humidity ratio w and pressure p (Pa).
func SpecificVolume(t, w, p float64) float64 {
	return gasConstantDryAir * (t + 273.15) * (1 + volumeVaporFactor*w) / p
}
