// Package timeseries provides the named-column series container shared by
// the analysis packages. A Frame holds equal-length float64 columns,
// optionally aligned to a shared time axis, plus optional site metadata.
// Frames never resample: every derived quantity keeps the sample count and
// temporal alignment of its inputs.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrLengthMismatch indicates a column or axis whose sample count does
	// not match the frame.
	ErrLengthMismatch = errors.New("timeseries: length mismatch")

	// ErrNoSuchColumn indicates a lookup of a column the frame does not hold.
	ErrNoSuchColumn = errors.New("timeseries: no such column")

	// ErrInvalidSite indicates missing or out-of-range site coordinates.
	ErrInvalidSite = errors.New("timeseries: invalid site")
)

// Site identifies a measurement location. Latitude is signed north-positive,
// longitude signed east-positive, UTCOffset in hours. EPW time is always
// standard time, so the offset carries no daylight-saving component.
type Site struct {
	Latitude  float64
	Longitude float64
	UTCOffset float64
}

// Validate reports a configuration error when any coordinate is missing
// (NaN) or outside its physical range.
func (s *Site) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: site is nil", ErrInvalidSite)
	}
	if math.IsNaN(s.Latitude) || s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90,90]", ErrInvalidSite, s.Latitude)
	}
	if math.IsNaN(s.Longitude) || s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180,180]", ErrInvalidSite, s.Longitude)
	}
	if math.IsNaN(s.UTCOffset) || s.UTCOffset < -12 || s.UTCOffset > 14 {
		return fmt.Errorf("%w: UTC offset %v outside [-12,14]", ErrInvalidSite, s.UTCOffset)
	}
	return nil
}

// FixedZone returns the fixed-offset zone for the site's UTC offset. No
// daylight-saving rules are ever applied.
func (s *Site) FixedZone() *time.Location {
	secs := int(math.Round(s.UTCOffset * 3600))
	return time.FixedZone(fmt.Sprintf("UTC%+g", s.UTCOffset), secs)
}

// Frame is an ordered collection of named float64 columns sharing one
// sample count and, optionally, one time axis.
type Frame struct {
	n     int
	times []time.Time
	order []string
	cols  map[string][]float64
	site  *Site
}

// NewFrame creates a frame of n samples with no time axis.
func NewFrame(n int) *Frame {
	return &Frame{n: n, cols: make(map[string][]float64)}
}

// NewTimeFrame creates a frame aligned to the given time axis.
func NewTimeFrame(times []time.Time) *Frame {
	f := NewFrame(len(times))
	f.times = times
	return f
}

// Len returns the shared sample count.
func (f *Frame) Len() int { return f.n }

// HasTimes reports whether the frame carries a genuine time axis.
func (f *Frame) HasTimes() bool { return len(f.times) == f.n && f.n > 0 }

// Times returns the time axis, or nil when the frame has none.
func (f *Frame) Times() []time.Time { return f.times }

// Site returns the attached site metadata, or nil.
func (f *Frame) Site() *Site { return f.site }

// SetSite attaches site metadata to the frame.
func (f *Frame) SetSite(s *Site) { f.site = s }

// AddColumn stores a named column. The column must match the frame's sample
// count exactly; a mismatch is a configuration error. Adding an existing
// name replaces its values but keeps its position.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != f.n {
		return fmt.Errorf("%w: column %q has %d samples, frame has %d",
			ErrLengthMismatch, name, len(values), f.n)
	}
	if _, ok := f.cols[name]; !ok {
		f.order = append(f.order, name)
	}
	f.cols[name] = values
	return nil
}

// Column returns the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	v, ok := f.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchColumn, name)
	}
	return v, nil
}

// HasColumn reports whether the frame holds the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// ColumnNames returns the column names in insertion order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Broadcast expands a scalar (length-1) input to n samples, passes a
// length-n input through unchanged, and rejects anything else. This is the
// scalar-broadcasting rule of the state-point engine.
func Broadcast(values []float64, n int) ([]float64, error) {
	switch len(values) {
	case n:
		return values, nil
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot broadcast %d samples to %d",
			ErrLengthMismatch, len(values), n)
	}
}

// HourlyIndex builds an n-sample hourly time axis starting at start.
func HourlyIndex(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return out
}
