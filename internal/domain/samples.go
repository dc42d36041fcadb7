package domain

import (
	"errors"
	"fmt"
)

// Sample table column names for coordinates.
const (
	ColumnLongitude = "longitude"
	ColumnLatitude  = "latitude"
	// ColumnUnnamed is where decoders put a field whose GRIB name was not recognised.
	ColumnUnnamed = "unknown"
)

// ErrNoSamples is returned when a sample table cannot supply annotations.
var ErrNoSamples = errors.New("no sample annotations available")

// SampleTable is a per-period table of grid-point samples. Every row has one
// value per column.
type SampleTable struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the values of the named column.
func (t *SampleTable) Column(name string) ([]float64, error) {
	if t == nil {
		return nil, ErrNoSamples
	}
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q: %w", name, ErrNoSamples)
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if idx >= len(row) {
			return nil, fmt.Errorf("row %d has %d values, want column %d: %w", i, len(row), idx, ErrNoSamples)
		}
		out[i] = row[idx]
	}
	return out, nil
}

// Sample is one annotated grid point.
type Sample struct {
	Point
	Value float64
}

// SelectSamples extracts the field column, retrying with fallback when field
// is absent. Callers treat any error as "annotations disabled".
func SelectSamples(t *SampleTable, field, fallback string) ([]Sample, error) {
	lons, err := t.Column(ColumnLongitude)
	if err != nil {
		return nil, err
	}
	lats, err := t.Column(ColumnLatitude)
	if err != nil {
		return nil, err
	}
	values, err := t.Column(field)
	if err != nil && fallback != "" && fallback != field {
		values, err = t.Column(fallback)
	}
	if err != nil {
		return nil, err
	}
	out := make([]Sample, len(values))
	for i := range values {
		out[i] = Sample{Point: Point{Lon: lons[i], Lat: lats[i]}, Value: values[i]}
	}
	return out, nil
}
