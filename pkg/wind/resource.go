package wind

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/epwkit/epwkit/pkg/epw"
	"github.com/epwkit/epwkit/pkg/timeseries"
)

// ResourceOptions configures a resource assessment. The zero value is
// usable: 16 sectors, default speed bins, no height adjustment.
type ResourceOptions struct {
	// Sectors is the wind-rose sector count; 0 means 16.
	Sectors int

	// SpeedBins overrides DefaultSpeedBins when non-nil.
	SpeedBins []float64

	// MeasurementHeight and TargetHeight enable power-law extrapolation of
	// the speed series before analysis when both are positive.
	MeasurementHeight float64
	TargetHeight      float64

	// ShearExponent for the extrapolation; 0 means DefaultShearExponent.
	ShearExponent float64

	// Logger receives progress and data notes. Nil means no logging.
	Logger *zap.SugaredLogger
}

// Resource is the full assessment of a site's wind climate.
type Resource struct {
	Stats           SpeedStats
	Weibull         Weibull
	Rose            *Rose
	MeanDirection   float64
	DirectionStdDev float64

	// AnalysisHeight is the height the statistics refer to: the target
	// height when extrapolation was requested, otherwise the measurement
	// height as recorded (0 when unknown).
	AnalysisHeight float64
}

// AnalyzeResource runs the complete assessment on an EPW-named weather
// frame: required-column validation, optional hub-height extrapolation,
// summary statistics, Weibull fit, circular direction statistics and the
// wind rose.
func AnalyzeResource(f *timeseries.Frame, opt ResourceOptions) (*Resource, error) {
	if err := epw.Validate(f, epw.SetWind); err != nil {
		return nil, err
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	sectors := opt.Sectors
	if sectors == 0 {
		sectors = 16
	}

	speeds, _ := f.Column(epw.ColWindSpeed)
	directions, _ := f.Column(epw.ColWindDirection)

	height := opt.MeasurementHeight
	if opt.MeasurementHeight > 0 && opt.TargetHeight > 0 &&
		opt.MeasurementHeight != opt.TargetHeight {
		alpha := opt.ShearExponent
		if alpha == 0 {
			alpha = DefaultShearExponent
		}
		adjusted, err := AdjustHeight(speeds, opt.MeasurementHeight, opt.TargetHeight, alpha)
		if err != nil {
			return nil, err
		}
		log.Infow("extrapolated wind speeds",
			"from_m", opt.MeasurementHeight, "to_m", opt.TargetHeight, "alpha", alpha)
		speeds = adjusted
		height = opt.TargetHeight
	}

	stats, err := Stats(speeds)
	if err != nil {
		return nil, err
	}
	fit := FitWeibull(speeds)
	if !fit.Valid() {
		log.Warnw("degenerate speed series, no Weibull fit",
			"mean", stats.Mean, "stddev", stats.StdDev)
	}
	rose, err := ComputeRose(speeds, directions, sectors, opt.SpeedBins)
	if err != nil {
		return nil, fmt.Errorf("wind rose: %w", err)
	}

	return &Resource{
		Stats:           stats,
		Weibull:         fit,
		Rose:            rose,
		MeanDirection:   MeanDirection(directions),
		DirectionStdDev: DirectionStdDev(directions),
		AnalysisHeight:  height,
	}, nil
}
