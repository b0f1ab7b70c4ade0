package wind

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Weibull holds a fitted two-parameter Weibull distribution: shape k
// (dimensionless) and scale c (m/s).
type Weibull struct {
	K float64
	C float64
}

// FitWeibull fits a Weibull distribution to a speed series by the method
// of moments: k = (σ/μ)^−1.086, c = μ/Γ(1+1/k). A degenerate series (zero
// mean or zero spread) has no fit; both parameters come back NaN.
func FitWeibull(speeds []float64) Weibull {
	mean := stat.Mean(speeds, nil)
	sd := stat.StdDev(speeds, nil)
	if !(mean > 0) || !(sd > 0) {
		return Weibull{K: math.NaN(), C: math.NaN()}
	}
	k := math.Pow(sd/mean, -1.086)
	c := mean / math.Gamma(1+1/k)
	return Weibull{K: k, C: c}
}

// Valid reports whether the fit produced usable parameters.
func (w Weibull) Valid() bool {
	return !math.IsNaN(w.K) && !math.IsNaN(w.C) && w.K > 0 && w.C > 0
}

// Distribution returns the fitted distribution for density, CDF and
// quantile evaluation.
func (w Weibull) Distribution() distuv.Weibull {
	return distuv.Weibull{K: w.K, Lambda: w.C}
}

// PDF evaluates the fitted probability density at speed v.
func (w Weibull) PDF(v float64) float64 {
	return w.Distribution().Prob(v)
}

// CDF evaluates the fitted cumulative distribution at speed v.
func (w Weibull) CDF(v float64) float64 {
	return w.Distribution().CDF(v)
}
