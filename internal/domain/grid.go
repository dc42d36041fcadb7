package domain

import (
	"fmt"
	"math"
)

// Point is a WGS-84 longitude/latitude pair.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Grid is a row-major 2-D array of forecast values. Missing cells are NaN.
// Lat and Lon, when present, hold the coordinates of every cell.
type Grid struct {
	Rows   int
	Cols   int
	Values []float64
	Lat    []float64
	Lon    []float64
}

// NewGrid builds a Grid and checks that values fills rows x cols.
func NewGrid(rows, cols int, values []float64) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions %dx%d: %w", rows, cols, ErrShapeMismatch)
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("grid %dx%d with %d values: %w", rows, cols, len(values), ErrShapeMismatch)
	}
	return &Grid{Rows: rows, Cols: cols, Values: values}, nil
}

// At returns the value at row r, column c.
func (g *Grid) At(r, c int) float64 {
	return g.Values[r*g.Cols+c]
}

// HasData reports whether any cell holds a finite value.
func (g *Grid) HasData() bool {
	if g == nil {
		return false
	}
	for _, v := range g.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Range returns the smallest and largest finite values.
func (g *Grid) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

// SameShape reports whether g and o have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols && len(g.Values) == len(o.Values)
}

// Sub returns g - o elementwise. Coordinates are taken from g.
func (g *Grid) Sub(o *Grid) (*Grid, error) {
	if !g.SameShape(o) {
		return nil, fmt.Errorf("subtract %dx%d from %dx%d: %w", o.Rows, o.Cols, g.Rows, g.Cols, ErrShapeMismatch)
	}
	out := g.withValues(make([]float64, len(g.Values)))
	for i := range g.Values {
		out.Values[i] = g.Values[i] - o.Values[i]
	}
	return out, nil
}

// Map returns a copy of g with f applied to every cell.
func (g *Grid) Map(f func(float64) float64) *Grid {
	out := g.withValues(make([]float64, len(g.Values)))
	for i, v := range g.Values {
		out.Values[i] = f(v)
	}
	return out
}

func (g *Grid) withValues(values []float64) *Grid {
	return &Grid{Rows: g.Rows, Cols: g.Cols, Values: values, Lat: g.Lat, Lon: g.Lon}
}
