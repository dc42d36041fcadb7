package render

import (
	"math"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/fogleman/gg"
)

type rect struct {
	Min, Max gg.Point
}

func (r rect) Dx() float64 { return r.Max.X - r.Min.X }
func (r rect) Dy() float64 { return r.Max.Y - r.Min.Y }

func (r rect) contains(x, y float64) bool {
	return x >= r.Min.X && x <= r.Max.X && y >= r.Min.Y && y <= r.Max.Y
}

type extent struct {
	minLon, maxLon, minLat, maxLat float64
}

// gridExtent is the bounding box of the grid's cell centres padded by half a
// cell, or the Hawaii box when the grid has no coordinates.
func gridExtent(g *domain.Grid) extent {
	if len(g.Lat) != len(g.Values) || len(g.Lon) != len(g.Values) || len(g.Values) == 0 {
		return hawaiiExtent
	}
	e := extent{minLon: math.Inf(1), maxLon: math.Inf(-1), minLat: math.Inf(1), maxLat: math.Inf(-1)}
	for i := range g.Values {
		e.minLon = min(e.minLon, g.Lon[i])
		e.maxLon = max(e.maxLon, g.Lon[i])
		e.minLat = min(e.minLat, g.Lat[i])
		e.maxLat = max(e.maxLat, g.Lat[i])
	}
	if g.Cols > 1 {
		pad := (e.maxLon - e.minLon) / float64(g.Cols-1) / 2
		e.minLon -= pad
		e.maxLon += pad
	}
	if g.Rows > 1 {
		pad := (e.maxLat - e.minLat) / float64(g.Rows-1) / 2
		e.minLat -= pad
		e.maxLat += pad
	}
	if e.maxLon <= e.minLon || e.maxLat <= e.minLat {
		return hawaiiExtent
	}
	return e
}

// projection is an equirectangular lon/lat to pixel mapping filling box.
type projection struct {
	ext extent
	box rect
}

func newProjection(ext extent, box rect) projection {
	return projection{ext: ext, box: box}
}

func (p projection) point(pt domain.Point) (float64, float64) {
	x := p.box.Min.X + (pt.Lon-p.ext.minLon)/(p.ext.maxLon-p.ext.minLon)*p.box.Dx()
	y := p.box.Max.Y - (pt.Lat-p.ext.minLat)/(p.ext.maxLat-p.ext.minLat)*p.box.Dy()
	return x, y
}
