// Package borders loads boundary overlays from per-layer GeoJSON files.
package borders

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Provider reads {dir}/{layer}.geojson on first use and keeps the decoded
// polylines for the life of the process.
type Provider struct {
	dir    string
	logger *slog.Logger

	mu     sync.Mutex
	layers map[domain.Layer][][]domain.Point
}

// NewProvider creates a provider rooted at dir.
func NewProvider(dir string, logger *slog.Logger) *Provider {
	return &Provider{
		dir:    dir,
		logger: logger,
		layers: make(map[domain.Layer][][]domain.Point),
	}
}

// Load returns one overlay per layer the plan shows, in drawing order.
// A layer without a file is returned empty.
func (p *Provider) Load(ctx context.Context, plan domain.BorderStylePlan) ([]domain.Overlay, error) {
	shown := plan.Shown()
	out := make([]domain.Overlay, 0, len(shown))
	for _, l := range shown {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := p.layer(l)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Overlay{Layer: l, Lines: lines})
	}
	return out, nil
}

func (p *Provider) layer(l domain.Layer) ([][]domain.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if lines, ok := p.layers[l]; ok {
		return lines, nil
	}

	path := filepath.Join(p.dir, l.String()+".geojson")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Warn("border layer file missing", "layer", l.String(), "path", path)
		p.layers[l] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	lines, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	p.logger.Debug("border layer loaded", "layer", l.String(), "lines", len(lines))
	p.layers[l] = lines
	return lines, nil
}

// decode flattens a FeatureCollection to polylines. Polygon rings become
// closed lines; points are ignored.
func decode(data []byte) ([][]domain.Point, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	var out [][]domain.Point
	for _, f := range fc.Features {
		out = appendGeometry(out, f.Geometry)
	}
	return out, nil
}

func appendGeometry(out [][]domain.Point, g orb.Geometry) [][]domain.Point {
	switch g := g.(type) {
	case orb.LineString:
		out = append(out, toPoints(g))
	case orb.MultiLineString:
		for _, ls := range g {
			out = append(out, toPoints(ls))
		}
	case orb.Ring:
		out = append(out, toPoints(g))
	case orb.Polygon:
		for _, r := range g {
			out = append(out, toPoints(r))
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			for _, r := range poly {
				out = append(out, toPoints(r))
			}
		}
	case orb.Collection:
		for _, child := range g {
			out = appendGeometry(out, child)
		}
	}
	return out
}

func toPoints[T ~[]orb.Point](pts T) []domain.Point {
	out := make([]domain.Point, len(pts))
	for i, pt := range pts {
		out[i] = domain.Point{Lon: pt.Lon(), Lat: pt.Lat()}
	}
	return out
}
