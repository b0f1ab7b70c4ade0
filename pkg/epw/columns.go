// Package epw holds the EnergyPlus Weather boundary: the canonical column
// names and units of an EPW-derived frame, required-column validation for
// each analysis, and a reader for the EPW text format. The physics packages
// consume only the resulting timeseries.Frame and trust these names and
// units verbatim.
package epw

import (
	"errors"
	"fmt"
	"strings"

	"github.com/epwkit/epwkit/pkg/timeseries"
)

// Canonical EPW column names. Units are part of the name so a frame is
// self-describing.
const (
	ColDryBulb           = "Dry Bulb Temperature (°C)"
	ColDewPoint          = "Dew Point Temperature (°C)"
	ColRelHumidity       = "Relative Humidity (%)"
	ColPressure          = "Atmospheric Station Pressure (Pa)"
	ColGlobalHorizontal  = "Global Horizontal Radiation (Wh/m²)"
	ColDirectNormal      = "Direct Normal Radiation (Wh/m²)"
	ColDiffuseHorizontal = "Diffuse Horizontal Radiation (Wh/m²)"
	ColWindDirection     = "Wind Direction (°)"
	ColWindSpeed         = "Wind Speed (m/s)"
	ColTotalSkyCover     = "Total Sky Cover (tenths)"
	ColOpaqueSkyCover    = "Opaque Sky Cover (tenths)"
	ColVisibility        = "Visibility (km)"
	ColCeilingHeight     = "Ceiling Height (m)"
	ColPrecipWater       = "Precipitable Water (mm)"
	ColSnowDepth         = "Snow Depth (cm)"
)

// ColumnSet names one of the required-column subsets an analysis depends on.
type ColumnSet string

const (
	SetBasic         ColumnSet = "basic"
	SetSolar         ColumnSet = "solar"
	SetPsychrometric ColumnSet = "psychrometric"
	SetWind          ColumnSet = "wind"
)

// requiredColumns maps each set to the columns an analysis of that kind
// reads.
var requiredColumns = map[ColumnSet][]string{
	SetBasic: {
		ColDryBulb,
		ColRelHumidity,
		ColWindSpeed,
		ColWindDirection,
	},
	SetSolar: {
		ColDirectNormal,
		ColDiffuseHorizontal,
		ColGlobalHorizontal,
	},
	SetPsychrometric: {
		ColDryBulb,
		ColRelHumidity,
		ColPressure,
	},
	SetWind: {
		ColWindSpeed,
		ColWindDirection,
	},
}

// ErrMissingColumns indicates a frame lacking columns an analysis requires.
var ErrMissingColumns = errors.New("epw: missing required columns")

// ErrUnknownSet indicates an unrecognized column-set name.
var ErrUnknownSet = errors.New("epw: unknown column set")

// RequiredColumns returns the column names belonging to a set.
func RequiredColumns(set ColumnSet) ([]string, error) {
	cols, ok := requiredColumns[set]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, set)
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out, nil
}

// Validate checks that the frame holds every column the named set requires.
// The returned error lists each missing column by name.
func Validate(f *timeseries.Frame, set ColumnSet) error {
	required, err := RequiredColumns(set)
	if err != nil {
		return err
	}
	var missing []string
	for _, name := range required {
		if !f.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w for %q check: %s; frame has: %s",
			ErrMissingColumns, set,
			strings.Join(missing, ", "),
			strings.Join(f.ColumnNames(), ", "))
	}
	return nil
}
