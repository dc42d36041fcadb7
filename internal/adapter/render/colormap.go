package render

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"
)

// reversedSuffix selects the reversed variant of a named colormap.
const reversedSuffix = "_r"

// Colormap maps [0, 1] onto a piecewise-linear ramp of colors.
type Colormap struct {
	Name  string
	stops []color.RGBA
}

var colormaps = map[string][]color.RGBA{
	"BrBG": {
		{84, 48, 5, 255}, {140, 81, 10, 255}, {191, 129, 45, 255}, {223, 194, 125, 255},
		{246, 232, 195, 255}, {245, 245, 245, 255}, {199, 234, 229, 255}, {128, 205, 193, 255},
		{53, 151, 143, 255}, {1, 102, 94, 255}, {0, 60, 48, 255},
	},
	"YlOrBr": {
		{255, 255, 229, 255}, {255, 247, 188, 255}, {254, 227, 145, 255}, {254, 196, 79, 255},
		{254, 153, 41, 255}, {236, 112, 20, 255}, {204, 76, 2, 255}, {153, 52, 4, 255},
		{102, 37, 6, 255},
	},
	"Greens": {
		{247, 252, 245, 255}, {229, 245, 224, 255}, {199, 233, 192, 255}, {161, 217, 155, 255},
		{116, 196, 118, 255}, {65, 171, 93, 255}, {35, 139, 69, 255}, {0, 109, 44, 255},
		{0, 68, 27, 255},
	},
	"jet": {
		{0, 0, 128, 255}, {0, 0, 255, 255}, {0, 128, 255, 255}, {0, 255, 255, 255},
		{128, 255, 128, 255}, {255, 255, 0, 255}, {255, 128, 0, 255}, {255, 0, 0, 255},
		{128, 0, 0, 255},
	},
	"coolwarm": {
		{59, 76, 192, 255}, {98, 130, 234, 255}, {141, 176, 254, 255}, {184, 208, 249, 255},
		{221, 221, 221, 255}, {245, 196, 173, 255}, {244, 154, 123, 255}, {222, 96, 77, 255},
		{180, 4, 38, 255},
	},
	"hot": {
		{10, 0, 0, 255}, {128, 0, 0, 255}, {255, 0, 0, 255}, {255, 128, 0, 255},
		{255, 255, 0, 255}, {255, 255, 128, 255}, {255, 255, 255, 255},
	},
}

// LookupColormap returns the named colormap. A "_r" suffix reverses it.
func LookupColormap(name string) (Colormap, error) {
	base, reversed := strings.CutSuffix(name, reversedSuffix)
	stops, ok := colormaps[base]
	if !ok {
		return Colormap{}, fmt.Errorf("unknown colormap %q", name)
	}
	stops = slices.Clone(stops)
	if reversed {
		slices.Reverse(stops)
	}
	return Colormap{Name: name, stops: stops}, nil
}

// At returns the color at position t, clamped to [0, 1].
func (c Colormap) At(t float64) color.RGBA {
	if math.IsNaN(t) || t <= 0 {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[len(c.stops)-1]
	}
	pos := t * float64(len(c.stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := c.stops[i], c.stops[i+1]
	return color.RGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 255,
	}
}

// Level returns the color of level band i out of n.
func (c Colormap) Level(i, n int) color.RGBA {
	if n <= 1 {
		return c.At(0.5)
	}
	return c.At(float64(i) / float64(n-1))
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
