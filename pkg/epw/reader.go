package epw

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/epwkit/epwkit/pkg/timeseries"
)

// EPW files carry eight header lines before the hourly records.
const headerLines = 8

// Hourly record field positions, per the EnergyPlus weather-file format.
const (
	fieldYear = iota
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
	fieldFlags
	fieldDryBulb
	fieldDewPoint
	fieldRelHumidity
	fieldPressure
	fieldExtHorizontal
	fieldExtDirectNormal
	fieldHorizontalIR
	fieldGlobalHorizontal
	fieldDirectNormal
	fieldDiffuseHorizontal
	fieldGlobalIlluminance
	fieldDirectIlluminance
	fieldDiffuseIlluminance
	fieldZenithLuminance
	fieldWindDirection
	fieldWindSpeed
	fieldTotalSkyCover
	fieldOpaqueSkyCover
	fieldVisibility
	fieldCeilingHeight
	minRecordFields = fieldCeilingHeight + 1
)

// ErrFormat indicates a file that does not follow the EPW layout.
var ErrFormat = errors.New("epw: malformed file")

// ReadFile parses an EPW weather file into a frame with a local
// standard-time axis and the site coordinates from the LOCATION header.
func ReadFile(path string) (*timeseries.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("epw: open %s: %w", path, err)
	}
	defer f.Close()
	frame, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return frame, nil
}

// Read parses EPW text from r. The LOCATION header supplies latitude,
// longitude and UTC offset; each hourly record supplies one row of every
// weather column this package names. The time axis is built in the site's
// fixed-offset zone — EPW time is always local standard time.
func Read(r io.Reader) (*timeseries.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read LOCATION header: %v", ErrFormat, err)
	}
	site, err := parseLocation(header)
	if err != nil {
		return nil, err
	}

	// Skip the remaining descriptive header lines.
	for i := 1; i < headerLines; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, fmt.Errorf("%w: truncated header at line %d: %v", ErrFormat, i+1, err)
		}
	}

	zone := site.FixedZone()
	var times []time.Time
	columns := map[string][]float64{}
	numeric := []struct {
		field int
		name  string
	}{
		{fieldDryBulb, ColDryBulb},
		{fieldDewPoint, ColDewPoint},
		{fieldRelHumidity, ColRelHumidity},
		{fieldPressure, ColPressure},
		{fieldGlobalHorizontal, ColGlobalHorizontal},
		{fieldDirectNormal, ColDirectNormal},
		{fieldDiffuseHorizontal, ColDiffuseHorizontal},
		{fieldWindDirection, ColWindDirection},
		{fieldWindSpeed, ColWindSpeed},
		{fieldTotalSkyCover, ColTotalSkyCover},
		{fieldOpaqueSkyCover, ColOpaqueSkyCover},
		{fieldVisibility, ColVisibility},
		{fieldCeilingHeight, ColCeilingHeight},
	}

	row := headerLines
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: record at line %d: %v", ErrFormat, row+1, err)
		}
		row++
		if len(record) < minRecordFields {
			return nil, fmt.Errorf("%w: record at line %d has %d fields, want at least %d",
				ErrFormat, row, len(record), minRecordFields)
		}

		ts, err := recordTime(record, zone)
		if err != nil {
			return nil, fmt.Errorf("%w: record at line %d: %v", ErrFormat, row, err)
		}
		times = append(times, ts)

		for _, col := range numeric {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col.field]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: record at line %d, column %q: %v",
					ErrFormat, row, col.name, err)
			}
			columns[col.name] = append(columns[col.name], v)
		}
	}

	if len(times) == 0 {
		return nil, fmt.Errorf("%w: no hourly records", ErrFormat)
	}

	frame := timeseries.NewTimeFrame(times)
	frame.SetSite(site)
	for _, col := range numeric {
		if err := frame.AddColumn(col.name, columns[col.name]); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// parseLocation extracts site coordinates from the LOCATION header:
// LOCATION,city,state,country,source,WMO,latitude,longitude,tz,elevation
func parseLocation(fields []string) (*timeseries.Site, error) {
	if len(fields) < 10 || !strings.EqualFold(strings.TrimSpace(fields[0]), "LOCATION") {
		return nil, fmt.Errorf("%w: first line is not a LOCATION header", ErrFormat)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[6]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: LOCATION latitude: %v", ErrFormat, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[7]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: LOCATION longitude: %v", ErrFormat, err)
	}
	tz, err := strconv.ParseFloat(strings.TrimSpace(fields[8]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: LOCATION time zone: %v", ErrFormat, err)
	}
	site := &timeseries.Site{Latitude: lat, Longitude: lon, UTCOffset: tz}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return site, nil
}

// recordTime builds the sample timestamp from an hourly record. EPW hours
// run 1..24 and mark the end of the interval; the axis uses the start of
// the interval, so hour 1 becomes 00:00 local standard time.
func recordTime(record []string, zone *time.Location) (time.Time, error) {
	year, err := strconv.Atoi(strings.TrimSpace(record[fieldYear]))
	if err != nil {
		return time.Time{}, fmt.Errorf("year: %v", err)
	}
	month, err := strconv.Atoi(strings.TrimSpace(record[fieldMonth]))
	if err != nil {
		return time.Time{}, fmt.Errorf("month: %v", err)
	}
	day, err := strconv.Atoi(strings.TrimSpace(record[fieldDay]))
	if err != nil {
		return time.Time{}, fmt.Errorf("day: %v", err)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(record[fieldHour]))
	if err != nil {
		return time.Time{}, fmt.Errorf("hour: %v", err)
	}
	if hour < 1 || hour > 24 {
		return time.Time{}, fmt.Errorf("hour %d outside 1..24", hour)
	}
	return time.Date(year, time.Month(month), day, hour-1, 0, 0, 0, zone), nil
}
