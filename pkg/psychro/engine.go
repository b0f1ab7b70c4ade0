package psychro

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// UnitSystem selects the unit system the engine computes in. It replaces
// the implicit global unit-system switch of older psychrometric libraries:
// the choice is explicit at construction and defaults to SI.
type UnitSystem int

const (
	// UnitSI: °C, Pa, kg/kg, kJ/kg, m³/kg. The only system implemented.
	UnitSI UnitSystem = iota
)

// RHPolicy decides what the engine does with relative humidity outside
// [0,1] — sensor noise above saturation is common in weather files. The
// ambiguity is resolved by configuration, not by a hard-coded guess.
type RHPolicy int

const (
	// RHWarn logs a data-quality warning and passes the value through. Default.
	RHWarn RHPolicy = iota
	// RHClamp silently clamps to [0,1].
	RHClamp
	// RHReject fails construction with a data-quality error.
	RHReject
)

// rhTolerance absorbs floating error before a value counts as out of range.
const rhTolerance = 1e-9

var (
	// ErrConfig covers invalid engine configuration and construction calls:
	// missing dry bulb, more than one humidity input, unknown unit system.
	ErrConfig = errors.New("psychro: configuration error")

	// ErrDataQuality covers inputs that are structurally valid but
	// physically corrupt, such as relative humidity far outside [0,1]
	// under the RHReject policy.
	ErrDataQuality = errors.New("psychro: data-quality error")
)

// Config carries the engine's explicit configuration.
type Config struct {
	Units    UnitSystem
	RHPolicy RHPolicy
	// Logger receives data-quality warnings. Nil means no logging.
	Logger *zap.SugaredLogger
}

// Engine computes state points under one fixed configuration. Engines are
// stateless between calls and safe to reuse.
type Engine struct {
	cfg Config
	log *zap.SugaredLogger
}

// NewEngine validates the configuration and returns an engine. The zero
// Config is valid: SI units, warn-and-pass-through humidity policy.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Units != UnitSI {
		return nil, fmt.Errorf("%w: unsupported unit system %d", ErrConfig, cfg.Units)
	}
	switch cfg.RHPolicy {
	case RHWarn, RHClamp, RHReject:
	default:
		return nil, fmt.Errorf("%w: unknown RH policy %d", ErrConfig, cfg.RHPolicy)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{cfg: cfg, log: logger}, nil
}

// checkRelHumidity applies the configured out-of-range policy to a derived
// or supplied relative-humidity series. It returns the series to use.
func (e *Engine) checkRelHumidity(rh []float64, source string) ([]float64, error) {
	var low, high int
	for _, v := range rh {
		if v < -rhTolerance {
			low++
		} else if v > 1+rhTolerance {
			high++
		}
	}
	if low == 0 && high == 0 {
		return rh, nil
	}

	switch e.cfg.RHPolicy {
	case RHReject:
		return nil, fmt.Errorf("%w: %s relative humidity outside [0,1] at %d samples",
			ErrDataQuality, source, low+high)
	case RHClamp:
		out := make([]float64, len(rh))
		for i, v := range rh {
			switch {
			case v < 0:
				out[i] = 0
			case v > 1:
				out[i] = 1
			default:
				out[i] = v
			}
		}
		e.log.Warnw("relative humidity outside [0,1], clamped",
			"source", source, "below", low, "above", high)
		return out, nil
	default: // RHWarn
		e.log.Warnw("relative humidity outside [0,1], passed through",
			"source", source, "below", low, "above", high)
		return rh, nil
	}
}
