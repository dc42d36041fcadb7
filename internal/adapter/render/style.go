package render

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Style controls figure geometry and typography. It is passed to the
// renderer explicitly; nothing about it is process-global.
type Style struct {
	Width  int
	Height int
	// FontPath is a TrueType file used instead of the embedded Go fonts.
	FontPath string
	// BoldFontPath is the title face when Bold is set. Without it a custom
	// FontPath is also used for the title.
	BoldFontPath  string
	TitleSize     float64
	TickLabelSize float64
	SampleSize    float64
	// Bold draws the title with the bold face.
	Bold bool
	// FrameDelay is the GIF frame delay in hundredths of a second.
	FrameDelay int
}

// DefaultStyle returns the style used by the CLI and the serve loop.
func DefaultStyle() Style {
	return Style{
		Width:         1200,
		Height:        900,
		TitleSize:     16,
		TickLabelSize: 11,
		SampleSize:    8,
		Bold:          true,
		FrameDelay:    100,
	}
}

// fonts holds the faces a Style resolves to.
type fonts struct {
	title  font.Face
	tick   font.Face
	sample font.Face
}

func (s Style) loadFonts() (fonts, error) {
	title, err := s.titleSource().face(s.TitleSize)
	if err != nil {
		return fonts{}, err
	}
	regular := s.regularSource()
	tick, err := regular.face(s.TickLabelSize)
	if err != nil {
		return fonts{}, err
	}
	sample, err := regular.face(s.SampleSize)
	if err != nil {
		return fonts{}, err
	}
	return fonts{title: title, tick: tick, sample: sample}, nil
}

// fontSource is a TrueType file, or embedded font data when path is empty.
type fontSource struct {
	path string
	ttf  []byte
}

func (s Style) regularSource() fontSource {
	if s.FontPath != "" {
		return fontSource{path: s.FontPath}
	}
	return fontSource{ttf: goregular.TTF}
}

// titleSource picks the bold face when Bold is set. A custom FontPath has no
// bold companion unless BoldFontPath names one, so its title stays regular.
func (s Style) titleSource() fontSource {
	if !s.Bold {
		return s.regularSource()
	}
	switch {
	case s.BoldFontPath != "":
		return fontSource{path: s.BoldFontPath}
	case s.FontPath != "":
		return fontSource{path: s.FontPath}
	default:
		return fontSource{ttf: gobold.TTF}
	}
}

func (src fontSource) face(size float64) (font.Face, error) {
	if src.path != "" {
		f, err := gg.LoadFontFace(src.path, size)
		if err != nil {
			return nil, fmt.Errorf("load font %s: %w", src.path, err)
		}
		return f, nil
	}
	f, err := truetype.Parse(src.ttf)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}
