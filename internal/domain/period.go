package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrPeriodCount is returned when a bundle holds fewer than 6 or more than 7 periods.
	ErrPeriodCount = errors.New("forecast bundle must hold 6 or 7 periods")
	// ErrMissingGrid is returned when one of the first six periods has no grid.
	ErrMissingGrid = errors.New("forecast period has no grid")
	// ErrBadTimestamp is returned for zero, inverted or out-of-order period times.
	ErrBadTimestamp = errors.New("forecast period has an invalid timestamp")
	// ErrShapeMismatch is returned when grids that must align do not.
	ErrShapeMismatch = errors.New("grid shape mismatch")
	// ErrElementMismatch is returned when data belongs to another element
	// than the one being rendered, or carries a unit the element cannot have.
	ErrElementMismatch = errors.New("forecast data element mismatch")
)

// ForecastLength is the number of daily periods a bundle carries.
type ForecastLength int

const (
	// Short is a bundle without the extended seventh day.
	Short ForecastLength = 6
	// Extended is a bundle whose extended file carried the seventh day.
	Extended ForecastLength = 7
)

func (l ForecastLength) String() string {
	switch l {
	case Short:
		return "short"
	case Extended:
		return "extended"
	default:
		return fmt.Sprintf("length(%d)", int(l))
	}
}

// RawPeriod is one period as handed over by the GRIB parser, times in UTC.
type RawPeriod struct {
	Grid    *Grid
	Start   time.Time
	End     time.Time
	Samples *SampleTable
}

// RawBundle is the parser's output for one NDFD element.
type RawBundle struct {
	Element Element
	Unit    Unit
	Periods []RawPeriod
}

// ForecastPeriod is an aligned period with local times. Index starts at 1.
type ForecastPeriod struct {
	Index   int
	Grid    *Grid
	Start   time.Time
	End     time.Time
	Samples *SampleTable
}

// ForecastBundle is an aligned, chronologically ordered set of periods.
type ForecastBundle struct {
	Element Element
	Unit    Unit
	Length  ForecastLength
	Periods []ForecastPeriod
}

// HasSeventhPeriod reports whether the extended seventh day is present.
func (b ForecastBundle) HasSeventhPeriod() bool {
	return b.Length == Extended
}

// AlignPeriods validates raw and converts every period's times into loc
// (time.Local when nil). The seventh slot is optional: when it is missing,
// nil or holds no finite value the bundle is Short and the slot is dropped.
// Every other defect is returned as an error.
func AlignPeriods(raw RawBundle, loc *time.Location) (ForecastBundle, error) {
	if loc == nil {
		loc = time.Local
	}
	n := len(raw.Periods)
	if n < int(Short) || n > int(Extended) {
		return ForecastBundle{}, fmt.Errorf("%s bundle with %d periods: %w", raw.Element, n, ErrPeriodCount)
	}

	length := Short
	if n == int(Extended) && raw.Periods[Extended-1].Grid.HasData() {
		length = Extended
	}

	out := ForecastBundle{
		Element: raw.Element,
		Unit:    raw.Unit,
		Length:  length,
		Periods: make([]ForecastPeriod, 0, int(length)),
	}
	for i := range int(length) {
		p := raw.Periods[i]
		if p.Grid == nil {
			return ForecastBundle{}, fmt.Errorf("%s period %d: %w", raw.Element, i+1, ErrMissingGrid)
		}
		if err := checkTimes(p); err != nil {
			return ForecastBundle{}, fmt.Errorf("%s period %d: %w", raw.Element, i+1, err)
		}
		if i > 0 && !p.Start.After(raw.Periods[i-1].Start) {
			return ForecastBundle{}, fmt.Errorf("%s period %d starts at or before period %d: %w",
				raw.Element, i+1, i, ErrBadTimestamp)
		}
		out.Periods = append(out.Periods, ForecastPeriod{
			Index:   i + 1,
			Grid:    p.Grid,
			Start:   p.Start.In(loc),
			End:     p.End.In(loc),
			Samples: p.Samples,
		})
	}
	return out, nil
}

func checkTimes(p RawPeriod) error {
	switch {
	case p.Start.IsZero():
		return fmt.Errorf("missing start time: %w", ErrBadTimestamp)
	case p.End.IsZero():
		return fmt.Errorf("missing end time: %w", ErrBadTimestamp)
	case !p.End.After(p.Start):
		return fmt.Errorf("end %s not after start %s: %w", p.End.Format(time.RFC3339), p.Start.Format(time.RFC3339), ErrBadTimestamp)
	}
	return nil
}
