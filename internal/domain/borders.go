package domain

import (
	"fmt"
	"strings"
)

// Layer identifies one vector boundary overlay.
type Layer int

const (
	LayerState Layer = iota
	LayerCounty
	LayerGACC
	LayerPSA
	LayerCWA
	LayerFireWeatherZone
	LayerPublicZone
)

// NumLayers is the number of overlay layers a plan covers.
const NumLayers = 7

var layerNames = [NumLayers]string{
	"state",
	"county",
	"gacc",
	"psa",
	"cwa",
	"fire_weather_zone",
	"public_zone",
}

func (l Layer) String() string {
	if l < 0 || int(l) >= NumLayers {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// Layers returns every overlay layer in drawing order.
func Layers() []Layer {
	out := make([]Layer, NumLayers)
	for i := range out {
		out[i] = Layer(i)
	}
	return out
}

// ParseLayer maps a layer name such as "fire_weather_zone" to its Layer.
func ParseLayer(name string) (Layer, error) {
	for i, n := range layerNames {
		if n == name {
			return Layer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown border layer %q", name)
}

// Reference system names accepted by ResolveBorders.
const (
	RefStatesOnly              = "States Only"
	RefStatesCounties          = "States & Counties"
	RefGACCOnly                = "GACC Only"
	RefGACCPSA                 = "GACC & PSA"
	RefCWAOnly                 = "CWA Only"
	RefCWAPublicZones          = "NWS CWAs & NWS Public Zones"
	RefCWAFireWeatherZones     = "NWS CWAs & NWS Fire Weather Zones"
	RefCWACounties             = "NWS CWAs & Counties"
	RefGACCPSAFireWeatherZones = "GACC & PSA & NWS Fire Weather Zones"
	RefGACCPSAPublicZones      = "GACC & PSA & NWS Public Zones"
	RefGACCPSACWA              = "GACC & PSA & NWS CWA"
	RefGACCPSACounties         = "GACC & PSA & Counties"
	RefGACCCounties            = "GACC & Counties"
	RefCustom                  = "Custom"
)

const (
	thinLinewidth              = 0.25
	nationalSecondaryLinewidth = 0.25
	nationalPrimaryLinewidth   = 0.5
	defaultPrimaryLinewidth    = 1.0
	defaultSecondaryLinewidth  = 0.25
	defaultLinestyle           = "-"
	defaultColor               = "black"
)

// referenceRule lists the layers a reference system shows and the layers it
// draws at thinLinewidth.
type referenceRule struct {
	show []Layer
	thin []Layer
}

var referenceRules = map[string]referenceRule{
	RefStatesOnly:              {show: []Layer{LayerState}},
	RefStatesCounties:          {show: []Layer{LayerState, LayerCounty}},
	RefGACCOnly:                {show: []Layer{LayerGACC}},
	RefGACCPSA:                 {show: []Layer{LayerGACC, LayerPSA}},
	RefCWAOnly:                 {show: []Layer{LayerCWA}},
	RefCWAPublicZones:          {show: []Layer{LayerCWA, LayerPublicZone}},
	RefCWAFireWeatherZones:     {show: []Layer{LayerCWA, LayerFireWeatherZone}},
	RefCWACounties:             {show: []Layer{LayerCWA, LayerCounty}},
	RefGACCPSAFireWeatherZones: {show: []Layer{LayerGACC, LayerPSA, LayerFireWeatherZone}, thin: []Layer{LayerFireWeatherZone}},
	RefGACCPSAPublicZones:      {show: []Layer{LayerGACC, LayerPSA, LayerPublicZone}, thin: []Layer{LayerPublicZone}},
	RefGACCPSACWA:              {show: []Layer{LayerGACC, LayerPSA, LayerCWA}, thin: []Layer{LayerCWA}},
	RefGACCPSACounties:         {show: []Layer{LayerGACC, LayerPSA, LayerCounty}, thin: []Layer{LayerCounty}},
	RefGACCCounties:            {show: []Layer{LayerGACC, LayerCounty}},
}

// ReferenceSystems returns the documented reference system names in a stable order.
func ReferenceSystems() []string {
	return []string{
		RefStatesOnly,
		RefStatesCounties,
		RefGACCOnly,
		RefGACCPSA,
		RefCWAOnly,
		RefCWAPublicZones,
		RefCWAFireWeatherZones,
		RefCWACounties,
		RefGACCPSAFireWeatherZones,
		RefGACCPSAPublicZones,
		RefGACCPSACWA,
		RefGACCPSACounties,
		RefGACCCounties,
	}
}

// IsKnownReferenceSystem reports whether name is one of the documented
// reference systems or "Custom" in any case.
func IsKnownReferenceSystem(name string) bool {
	if isCustom(name) {
		return true
	}
	_, ok := referenceRules[name]
	return ok
}

func isCustom(name string) bool {
	return strings.EqualFold(name, RefCustom)
}

// BorderConfig is the caller-facing boundary configuration. Show is consulted
// only for the Custom reference system; Linewidth replaces the layer default
// for any reference system. Nil entries mean "not set".
type BorderConfig struct {
	ReferenceSystem string
	Show            [NumLayers]*bool
	Linewidth       [NumLayers]*float64
}

// BorderStyle is the resolved drawing style of one overlay layer.
type BorderStyle struct {
	Show      bool
	Linewidth float64
	Linestyle string
	Color     string
}

// BorderStylePlan holds one BorderStyle per layer. It is a value type: equal
// inputs to ResolveBorders produce == plans.
type BorderStylePlan struct {
	styles [NumLayers]BorderStyle
}

// Style returns the resolved style of l.
func (p BorderStylePlan) Style(l Layer) BorderStyle {
	return p.styles[l]
}

// Shown returns the layers drawn by the plan in drawing order.
func (p BorderStylePlan) Shown() []Layer {
	var out []Layer
	for i, s := range p.styles {
		if s.Show {
			out = append(out, Layer(i))
		}
	}
	return out
}

// DefaultBorderStyles returns the per-layer styles before any reference
// system is applied. Polygon layers carrying many small features default to
// the thin width.
func DefaultBorderStyles() [NumLayers]BorderStyle {
	var out [NumLayers]BorderStyle
	for i := range out {
		out[i] = BorderStyle{Linewidth: defaultPrimaryLinewidth, Linestyle: defaultLinestyle, Color: defaultColor}
	}
	for _, l := range []Layer{LayerCounty, LayerPSA, LayerFireWeatherZone, LayerPublicZone} {
		out[l].Linewidth = defaultSecondaryLinewidth
	}
	return out
}

// ResolveBorders converts a BorderConfig into a BorderStylePlan for the given
// two-letter area code. It never fails: an unrecognised reference system
// yields a plan with every layer hidden.
func ResolveBorders(cfg BorderConfig, areaCode string) BorderStylePlan {
	styles := DefaultBorderStyles()
	for i, lw := range cfg.Linewidth {
		if lw != nil {
			styles[i].Linewidth = *lw
		}
	}

	if isCustom(cfg.ReferenceSystem) {
		for i, show := range cfg.Show {
			styles[i].Show = show != nil && *show
		}
	} else if rule, ok := referenceRules[cfg.ReferenceSystem]; ok {
		for _, l := range rule.show {
			styles[l].Show = true
		}
		for _, l := range rule.thin {
			styles[l].Linewidth = thinLinewidth
		}
	}

	// Continental-scale areas clamp widths. Unreachable for the Hawaii area code.
	if isNationalArea(areaCode) {
		for _, l := range []Layer{LayerCounty, LayerPSA, LayerFireWeatherZone, LayerPublicZone} {
			styles[l].Linewidth = min(styles[l].Linewidth, nationalSecondaryLinewidth)
		}
		for _, l := range []Layer{LayerGACC, LayerCWA} {
			styles[l].Linewidth = min(styles[l].Linewidth, nationalPrimaryLinewidth)
		}
	}

	return BorderStylePlan{styles: styles}
}

func isNationalArea(areaCode string) bool {
	return strings.EqualFold(areaCode, "US") || strings.EqualFold(areaCode, "USA")
}
