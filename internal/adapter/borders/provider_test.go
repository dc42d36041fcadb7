package borders

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

const stateGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "Hawaii"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-155.9, 19.0], [-154.8, 19.5], [-155.8, 20.2], [-155.9, 19.0]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"name": "Maui"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[-156.7, 20.9], [-156.0, 20.6], [-156.4, 21.0], [-156.7, 20.9]]],
          [[[-157.0, 20.8], [-156.8, 20.8], [-156.9, 20.9], [-157.0, 20.8]]]
        ]
      }
    }
  ]
}`

const psaGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "LineString", "coordinates": [[-158.3, 21.2], [-157.6, 21.7]]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "Point", "coordinates": [-157.8, 21.3]}
    }
  ]
}`

func testProvider(t *testing.T, files map[string]string) *Provider {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return NewProvider(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func customPlan(layers ...domain.Layer) domain.BorderStylePlan {
	cfg := domain.BorderConfig{ReferenceSystem: domain.RefCustom}
	for _, l := range layers {
		cfg.Show[l] = ptr.To(true)
	}
	return domain.ResolveBorders(cfg, "HI")
}

func TestLoad_ShownLayersInOrder(t *testing.T) {
	p := testProvider(t, map[string]string{
		"state.geojson": stateGeoJSON,
		"psa.geojson":   psaGeoJSON,
	})

	overlays, err := p.Load(context.Background(), customPlan(domain.LayerPSA, domain.LayerState))
	require.NoError(t, err)
	require.Len(t, overlays, 2)

	assert.Equal(t, domain.LayerState, overlays[0].Layer)
	assert.Len(t, overlays[0].Lines, 3, "one polygon ring plus two multipolygon rings")
	assert.Equal(t, domain.Point{Lon: -155.9, Lat: 19.0}, overlays[0].Lines[0][0])

	assert.Equal(t, domain.LayerPSA, overlays[1].Layer)
	assert.Len(t, overlays[1].Lines, 1, "points are not drawn")
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	p := testProvider(t, nil)

	overlays, err := p.Load(context.Background(), customPlan(domain.LayerCounty))
	require.NoError(t, err)
	require.Len(t, overlays, 1)
	assert.Empty(t, overlays[0].Lines)
}

func TestLoad_NothingShown(t *testing.T) {
	p := testProvider(t, map[string]string{"state.geojson": stateGeoJSON})

	plan := domain.ResolveBorders(domain.BorderConfig{ReferenceSystem: "Provinces"}, "HI")
	overlays, err := p.Load(context.Background(), plan)
	require.NoError(t, err)
	assert.Empty(t, overlays)
}

func TestLoad_InvalidFile(t *testing.T) {
	p := testProvider(t, map[string]string{"gacc.geojson": "{not json"})

	_, err := p.Load(context.Background(), customPlan(domain.LayerGACC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gacc.geojson")
}

func TestLoad_CachesLayers(t *testing.T) {
	p := testProvider(t, map[string]string{"state.geojson": stateGeoJSON})
	plan := customPlan(domain.LayerState)

	_, err := p.Load(context.Background(), plan)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(p.dir, "state.geojson")))

	overlays, err := p.Load(context.Background(), plan)
	require.NoError(t, err)
	assert.Len(t, overlays[0].Lines, 3)
}

func TestLoad_ContextCancelled(t *testing.T) {
	p := testProvider(t, map[string]string{"state.geojson": stateGeoJSON})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Load(ctx, customPlan(domain.LayerState))
	require.ErrorIs(t, err, context.Canceled)
}
