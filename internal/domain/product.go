package domain

import "fmt"

// Element is an NDFD GRIB2 element, named as in the ds.<element>.bin files.
type Element string

const (
	ElementMaxRH Element = "maxrh"
	ElementMinRH Element = "minrh"
	ElementMaxT  Element = "maxt"
	ElementMinT  Element = "mint"
)

// Unit returns the unit NDFD encodes the element in.
func (e Element) Unit() Unit {
	switch e {
	case ElementMaxT, ElementMinT:
		return UnitKelvin
	default:
		return UnitPercent
	}
}

// Accepts reports whether a bundle of e may be expressed in u.
func (e Element) Accepts(u Unit) bool {
	switch e {
	case ElementMaxT, ElementMinT:
		return u == UnitKelvin || u == UnitFahrenheit
	default:
		return u == UnitPercent
	}
}

// Mode is how a product presents its element.
type Mode int

const (
	// ModeValue draws the forecast value.
	ModeValue Mode = iota
	// ModeTrend draws the change from the previous period.
	ModeTrend
	// ModeBelow draws only values at or below a threshold.
	ModeBelow
	// ModeAbove draws only values at or above a threshold.
	ModeAbove
)

func (m Mode) String() string {
	switch m {
	case ModeValue:
		return "value"
	case ModeTrend:
		return "trend"
	case ModeBelow:
		return "below"
	case ModeAbove:
		return "above"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Product describes one graphic: what it plots and how.
type Product struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Element          Element `json:"element"`
	Mode             Mode    `json:"-"`
	Colormap         string  `json:"colormap"`
	DefaultThreshold float64 `json:"default_threshold,omitempty"`
	// SampleColumn is the sample-table column annotated on the map.
	SampleColumn string `json:"-"`
}

var catalog = []Product{
	{ID: "maximum_relative_humidity", Title: "Maximum Relative Humidity", Element: ElementMaxRH, Mode: ModeValue, Colormap: "BrBG"},
	{ID: "maximum_relative_humidity_trend", Title: "Maximum Relative Humidity Trend", Element: ElementMaxRH, Mode: ModeTrend, Colormap: "BrBG"},
	{ID: "poor_overnight_recovery", Title: "Poor Overnight Recovery", Element: ElementMaxRH, Mode: ModeBelow, Colormap: "YlOrBr_r", DefaultThreshold: 30},
	{ID: "excellent_overnight_recovery", Title: "Excellent Overnight Recovery", Element: ElementMaxRH, Mode: ModeAbove, Colormap: "Greens", DefaultThreshold: 80},
	{ID: "minimum_relative_humidity", Title: "Minimum Relative Humidity", Element: ElementMinRH, Mode: ModeValue, Colormap: "BrBG"},
	{ID: "minimum_relative_humidity_trend", Title: "Minimum Relative Humidity Trend", Element: ElementMinRH, Mode: ModeTrend, Colormap: "BrBG"},
	{ID: "low_minimum_relative_humidity", Title: "Low Minimum Relative Humidity", Element: ElementMinRH, Mode: ModeBelow, Colormap: "YlOrBr_r", DefaultThreshold: 15},
	{ID: "maximum_temperature", Title: "Maximum Temperature", Element: ElementMaxT, Mode: ModeValue, Colormap: "jet"},
	{ID: "maximum_temperature_trend", Title: "Maximum Temperature Trend", Element: ElementMaxT, Mode: ModeTrend, Colormap: "coolwarm"},
	{ID: "extreme_heat", Title: "Extreme Heat", Element: ElementMaxT, Mode: ModeAbove, Colormap: "hot_r", DefaultThreshold: 95},
	{ID: "minimum_temperature", Title: "Minimum Temperature", Element: ElementMinT, Mode: ModeValue, Colormap: "jet"},
	{ID: "minimum_temperature_trend", Title: "Minimum Temperature Trend", Element: ElementMinT, Mode: ModeTrend, Colormap: "coolwarm"},
}

func init() {
	for i := range catalog {
		catalog[i].SampleColumn = string(catalog[i].Element)
	}
}

// Products returns the product catalog in display order.
func Products() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}

// LookupProduct finds a product by ID.
func LookupProduct(id string) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// IsThreshold reports whether the product classifies against a threshold.
func (p Product) IsThreshold() bool {
	return p.Mode == ModeBelow || p.Mode == ModeAbove
}

// Levels returns the contour levels for the product. threshold is used only
// by threshold products.
func (p Product) Levels(threshold float64) Levels {
	temperature := p.Element.Unit() == UnitKelvin
	switch p.Mode {
	case ModeTrend:
		if temperature {
			return LinearLevels(-20, 21, 1)
		}
		return LinearLevels(-50, 51, 1)
	case ModeBelow:
		return ThresholdLevels(ModeBelow, threshold, 0)
	case ModeAbove:
		if temperature {
			return ThresholdLevels(ModeAbove, threshold, 120)
		}
		return ThresholdLevels(ModeAbove, threshold, 100)
	default:
		if temperature {
			return LinearLevels(30, 111, 1)
		}
		return LinearLevels(0, 101, 1)
	}
}
