package domain

import (
	"fmt"
	"time"
)

// Unit is the unit family of grid values.
type Unit int

const (
	UnitPercent Unit = iota
	UnitKelvin
	UnitFahrenheit
)

func (u Unit) String() string {
	switch u {
	case UnitPercent:
		return "%"
	case UnitKelvin:
		return "K"
	case UnitFahrenheit:
		return "°F"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// Display returns the unit values are shown in.
func (u Unit) Display() Unit {
	if u == UnitKelvin {
		return UnitFahrenheit
	}
	return u
}

// KelvinToFahrenheit converts an absolute temperature.
func KelvinToFahrenheit(k float64) float64 {
	return (k-273.15)*9/5 + 32
}

// KelvinDeltaToFahrenheit converts a temperature difference. Differences
// carry no offset.
func KelvinDeltaToFahrenheit(dk float64) float64 {
	return dk * 9 / 5
}

// ToDisplayUnits returns b with every grid converted to its display unit.
// Bundles already in display units are returned unchanged.
func ToDisplayUnits(b ForecastBundle) ForecastBundle {
	if b.Unit != UnitKelvin {
		return b
	}
	out := b
	out.Unit = UnitFahrenheit
	out.Periods = make([]ForecastPeriod, len(b.Periods))
	for i, p := range b.Periods {
		p.Grid = p.Grid.Map(KelvinToFahrenheit)
		out.Periods[i] = p
	}
	return out
}

// TrendPeriod is the change from the previous period to this one, labelled
// with the later period's index and times.
type TrendPeriod struct {
	Index int
	Grid  *Grid
	Start time.Time
	End   time.Time
}

// TrendSeries holds the N-1 first differences of a bundle.
type TrendSeries struct {
	Element Element
	Unit    Unit
	Periods []TrendPeriod
}

// Trends computes grid[i+1] - grid[i] for every adjacent pair of periods.
// Kelvin deltas are expressed in Fahrenheit degrees.
func Trends(b ForecastBundle) (TrendSeries, error) {
	out := TrendSeries{Element: b.Element, Unit: b.Unit.Display()}
	if len(b.Periods) < 2 {
		return out, nil
	}
	out.Periods = make([]TrendPeriod, 0, len(b.Periods)-1)
	for i := 1; i < len(b.Periods); i++ {
		prev, cur := b.Periods[i-1], b.Periods[i]
		if prev.Grid == nil || cur.Grid == nil {
			return TrendSeries{}, fmt.Errorf("%s trend %d: %w", b.Element, cur.Index, ErrMissingGrid)
		}
		diff, err := cur.Grid.Sub(prev.Grid)
		if err != nil {
			return TrendSeries{}, fmt.Errorf("%s trend %d: %w", b.Element, cur.Index, err)
		}
		if b.Unit == UnitKelvin {
			diff = diff.Map(KelvinDeltaToFahrenheit)
		}
		out.Periods = append(out.Periods, TrendPeriod{
			Index: cur.Index,
			Grid:  diff,
			Start: cur.Start,
			End:   cur.End,
		})
	}
	return out, nil
}
