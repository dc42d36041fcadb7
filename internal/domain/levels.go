package domain

import "math"

// MaxTicks bounds the number of labelled colorbar ticks.
const MaxTicks = 15

// Levels are the contour boundaries of a product and the subset labelled on
// the colorbar. When Mask is set, values outside the level range are left
// unfilled instead of clamped to the end colors.
type Levels struct {
	Values []float64
	Ticks  []float64
	Mask   bool
}

// LinearLevels returns lo, lo+step, ... for every value below hi, with ticks
// subsampled by TickStep.
func LinearLevels(lo, hi, step float64) Levels {
	if step <= 0 || hi <= lo {
		return Levels{}
	}
	n := int(math.Ceil((hi - lo) / step))
	values := make([]float64, n)
	for i := range values {
		values[i] = lo + float64(i)*step
	}
	return Levels{Values: values, Ticks: subsample(values, TickStep(n))}
}

// ThresholdLevels builds the levels of a threshold product. Below products
// span [0, threshold+1) and Above products span [threshold, upper+1), both
// in unit steps.
func ThresholdLevels(mode Mode, threshold, upper float64) Levels {
	var lv Levels
	switch mode {
	case ModeBelow:
		lv = LinearLevels(0, threshold+1, 1)
	case ModeAbove:
		lv = LinearLevels(threshold, upper+1, 1)
	default:
		return Levels{}
	}
	lv.Mask = true
	return lv
}

// TickStep is the stride between labelled levels so that at most MaxTicks
// labels are drawn.
func TickStep(n int) int {
	if n <= MaxTicks {
		return 1
	}
	return (n + MaxTicks - 1) / MaxTicks
}

func subsample(values []float64, step int) []float64 {
	out := make([]float64, 0, len(values)/step+1)
	for i := 0; i < len(values); i += step {
		out = append(out, values[i])
	}
	return out
}

// Index returns the level band v falls in, or -1 when v is missing or, for
// masked levels, outside the range.
func (l Levels) Index(v float64) int {
	if len(l.Values) == 0 || math.IsNaN(v) {
		return -1
	}
	first, last := l.Values[0], l.Values[len(l.Values)-1]
	if v < first {
		if l.Mask {
			return -1
		}
		return 0
	}
	if v >= last {
		if l.Mask && v > last {
			return -1
		}
		return len(l.Values) - 1
	}
	i := 0
	for i+1 < len(l.Values) && v >= l.Values[i+1] {
		i++
	}
	return i
}
