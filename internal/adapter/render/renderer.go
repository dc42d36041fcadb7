// Package render draws forecast frames with fogleman/gg, assembles them
// into animations and writes both to the graphics tree.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/fogleman/gg"
)

// Figure margins in pixels.
const (
	marginLeft     = 40
	marginTop      = 80
	marginBottom   = 40
	colorbarWidth  = 24
	colorbarOffset = 24
	colorbarLabels = 80
	// linewidthScale converts border linewidths (points) to pixels.
	linewidthScale = 2.0
)

// validFormat renders period bounds in the frame's local zone.
const validFormat = "Mon 01/02 15:04 MST"

// hawaiiExtent is used when a grid carries no coordinates.
var hawaiiExtent = extent{minLon: -160.5, maxLon: -154.5, minLat: 18.8, maxLat: 22.4}

var errNoGrid = errors.New("frame has no grid")

// Renderer draws frames into images.
type Renderer struct {
	style Style
	fonts fonts
}

// NewRenderer prepares the fonts of style.
func NewRenderer(style Style) (*Renderer, error) {
	f, err := style.loadFonts()
	if err != nil {
		return nil, err
	}
	return &Renderer{style: style, fonts: f}, nil
}

// Style returns the renderer's style.
func (r *Renderer) Style() Style {
	return r.style
}

// Render draws one frame: filled level bands, border overlays in plan
// order, optional sample labels, a colorbar and the title block.
func (r *Renderer) Render(f domain.Frame) (image.Image, error) {
	if f.Grid == nil {
		return nil, fmt.Errorf("%s period %d: %w", f.Product.ID, f.Index, errNoGrid)
	}
	if len(f.Levels.Values) == 0 {
		return nil, fmt.Errorf("%s period %d: no levels", f.Product.ID, f.Index)
	}
	cmap, err := LookupColormap(f.Product.Colormap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Product.ID, err)
	}

	dc := gg.NewContext(r.style.Width, r.style.Height)
	dc.SetColor(color.White)
	dc.Clear()

	box := r.mapBox()
	proj := newProjection(gridExtent(f.Grid), box)

	r.drawGrid(dc, proj, f, cmap)
	r.drawOverlays(dc, proj, f)
	if f.Samples != nil {
		r.drawSamples(dc, proj, f.Samples)
	}
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(box.Min.X, box.Min.Y, box.Dx(), box.Dy())
	dc.Stroke()

	r.drawColorbar(dc, box, f, cmap)
	r.drawTitle(dc, f)
	return dc.Image(), nil
}

func (r *Renderer) mapBox() rect {
	return rect{
		Min: gg.Point{X: marginLeft, Y: marginTop},
		Max: gg.Point{
			X: float64(r.style.Width - colorbarOffset - colorbarWidth - colorbarLabels),
			Y: float64(r.style.Height - marginBottom),
		},
	}
}

func (r *Renderer) drawGrid(dc *gg.Context, proj projection, f domain.Frame, cmap Colormap) {
	g := f.Grid
	n := len(f.Levels.Values)
	cw := proj.box.Dx() / float64(g.Cols)
	ch := proj.box.Dy() / float64(g.Rows)
	hasCoords := len(g.Lat) == len(g.Values) && len(g.Lon) == len(g.Values)

	for row := range g.Rows {
		for col := range g.Cols {
			i := row*g.Cols + col
			band := f.Levels.Index(g.Values[i])
			if band < 0 {
				continue
			}
			var x, y float64
			if hasCoords {
				x, y = proj.point(domain.Point{Lon: g.Lon[i], Lat: g.Lat[i]})
				x -= cw / 2
				y -= ch / 2
			} else {
				x = proj.box.Min.X + float64(col)*cw
				y = proj.box.Min.Y + float64(row)*ch
			}
			dc.SetColor(cmap.Level(band, n))
			dc.DrawRectangle(x, y, math.Ceil(cw), math.Ceil(ch))
			dc.Fill()
		}
	}
}

func (r *Renderer) drawOverlays(dc *gg.Context, proj projection, f domain.Frame) {
	dc.Push()
	defer dc.Pop()
	dc.DrawRectangle(proj.box.Min.X, proj.box.Min.Y, proj.box.Dx(), proj.box.Dy())
	dc.Clip()

	for _, ov := range f.Overlays {
		style := f.Plan.Style(ov.Layer)
		if !style.Show {
			continue
		}
		dc.SetColor(namedColor(style.Color))
		dc.SetLineWidth(style.Linewidth * linewidthScale)
		dc.SetDash(dashes(style.Linestyle)...)
		for _, line := range ov.Lines {
			if len(line) < 2 {
				continue
			}
			dc.NewSubPath()
			for j, pt := range line {
				x, y := proj.point(pt)
				if j == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.Stroke()
		}
	}
	dc.SetDash()
	dc.ResetClip()
}

func (r *Renderer) drawSamples(dc *gg.Context, proj projection, samples []domain.Sample) {
	dc.SetFontFace(r.fonts.sample)
	dc.SetColor(color.Black)
	for _, s := range samples {
		if math.IsNaN(s.Value) {
			continue
		}
		x, y := proj.point(s.Point)
		if !proj.box.contains(x, y) {
			continue
		}
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", s.Value), x, y, 0.5, 0.5)
	}
}

func (r *Renderer) drawColorbar(dc *gg.Context, box rect, f domain.Frame, cmap Colormap) {
	n := len(f.Levels.Values)
	x := box.Max.X + colorbarOffset
	bandH := box.Dy() / float64(n)

	// Lowest level at the bottom.
	for i := range n {
		y := box.Max.Y - float64(i+1)*bandH
		dc.SetColor(cmap.Level(i, n))
		dc.DrawRectangle(x, y, colorbarWidth, math.Ceil(bandH))
		dc.Fill()
	}
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, box.Min.Y, colorbarWidth, box.Dy())
	dc.Stroke()

	dc.SetFontFace(r.fonts.tick)
	lo := f.Levels.Values[0]
	step := 1.0
	if n > 1 {
		step = f.Levels.Values[1] - lo
	}
	for _, tick := range f.Levels.Ticks {
		i := (tick - lo) / step
		y := box.Max.Y - (i+0.5)*bandH
		dc.DrawLine(x+colorbarWidth, y, x+colorbarWidth+4, y)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%g", tick), x+colorbarWidth+8, y, 0, 0.5)
	}
	dc.DrawStringAnchored(f.Unit.String(), x+colorbarWidth/2, box.Min.Y-8, 0.5, 0)
}

func (r *Renderer) drawTitle(dc *gg.Context, f domain.Frame) {
	dc.SetColor(color.Black)
	dc.SetFontFace(r.fonts.title)
	dc.DrawStringAnchored(title(f), marginLeft, 28, 0, 0.5)

	dc.SetFontFace(r.fonts.tick)
	dc.DrawStringAnchored(subtitle(f), marginLeft, 56, 0, 0.5)
}

func title(f domain.Frame) string {
	t := f.Product.Title
	if f.AreaName != "" {
		t = f.AreaName + " " + t
	}
	switch f.Product.Mode {
	case domain.ModeBelow:
		t += fmt.Sprintf(" (RH <= %g%%)", f.Levels.Values[len(f.Levels.Values)-1])
	case domain.ModeAbove:
		t += fmt.Sprintf(" (>= %g %s)", f.Levels.Values[0], f.Unit)
	default:
		t += fmt.Sprintf(" (%s)", f.Unit)
	}
	return t
}

func subtitle(f domain.Frame) string {
	prefix := "Valid"
	if f.Product.Mode == domain.ModeTrend {
		prefix = "Change from previous day, valid"
	}
	return fmt.Sprintf("%s: %s - %s (Period %d)", prefix, f.Start.Format(validFormat), f.End.Format(validFormat), f.Index)
}

func namedColor(name string) color.Color {
	switch name {
	case "white":
		return color.White
	case "gray", "grey":
		return color.Gray{Y: 128}
	case "red":
		return color.RGBA{R: 255, A: 255}
	case "blue":
		return color.RGBA{B: 255, A: 255}
	default:
		return color.Black
	}
}

// dashes converts a line style ("-", "--", ":", "-.") to a gg dash pattern.
func dashes(linestyle string) []float64 {
	switch linestyle {
	case "--":
		return []float64{6, 4}
	case ":":
		return []float64{1, 3}
	case "-.":
		return []float64{6, 3, 1, 3}
	default:
		return nil
	}
}
