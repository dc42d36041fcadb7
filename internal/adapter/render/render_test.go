package render

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func testStyle() Style {
	s := DefaultStyle()
	s.Width = 400
	s.Height = 300
	return s
}

func testFrame(t *testing.T, productID string, value float64) domain.Frame {
	t.Helper()
	product, ok := domain.LookupProduct(productID)
	require.True(t, ok)
	g, err := domain.NewGrid(2, 2, []float64{value, value, value, value})
	require.NoError(t, err)

	hst := time.FixedZone("HST", -10*3600)
	start := time.Date(2026, 3, 2, 20, 0, 0, 0, hst)
	return domain.Frame{
		Product:  product,
		AreaName: "Hawaii",
		Index:    1,
		Start:    start,
		End:      start.Add(12 * time.Hour),
		Grid:     g,
		Unit:     domain.UnitPercent,
		Levels:   product.Levels(product.DefaultThreshold),
		Plan:     domain.ResolveBorders(domain.BorderConfig{ReferenceSystem: domain.RefStatesCounties}, "HI"),
	}
}

// mapCentre is the centre of the map box for testStyle.
func mapCentre(r *Renderer) (int, int) {
	box := r.mapBox()
	return int((box.Min.X + box.Max.X) / 2), int((box.Min.Y + box.Max.Y) / 2)
}

func assertColor(t *testing.T, want color.Color, got color.Color) {
	t.Helper()
	wr, wg, wb, _ := want.RGBA()
	cr, cg, cb, _ := got.RGBA()
	assert.InDelta(t, wr>>8, cr>>8, 1)
	assert.InDelta(t, wg>>8, cg>>8, 1)
	assert.InDelta(t, wb>>8, cb>>8, 1)
}

func TestLookupColormap(t *testing.T) {
	cmap, err := LookupColormap("YlOrBr")
	require.NoError(t, err)
	rev, err := LookupColormap("YlOrBr_r")
	require.NoError(t, err)

	assert.Equal(t, cmap.At(0), rev.At(1))
	assert.Equal(t, cmap.At(1), rev.At(0))
	assert.Equal(t, color.RGBA{255, 255, 229, 255}, cmap.At(-1), "clamped below")

	_, err = LookupColormap("viridis_rr")
	require.Error(t, err)
}

func TestColormap_AllProductsResolve(t *testing.T) {
	for _, p := range domain.Products() {
		_, err := LookupColormap(p.Colormap)
		assert.NoError(t, err, p.ID)
	}
}

func TestColormap_Level(t *testing.T) {
	cmap, err := LookupColormap("Greens")
	require.NoError(t, err)
	assert.Equal(t, cmap.At(0), cmap.Level(0, 21))
	assert.Equal(t, cmap.At(1), cmap.Level(20, 21))
	assert.Equal(t, cmap.At(0.5), cmap.Level(0, 1))
}

func TestRender_FillsLevels(t *testing.T) {
	r, err := NewRenderer(testStyle())
	require.NoError(t, err)

	f := testFrame(t, "maximum_relative_humidity", 50)
	img, err := r.Render(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 300), img.Bounds())

	cmap, err := LookupColormap(f.Product.Colormap)
	require.NoError(t, err)
	x, y := mapCentre(r)
	band := f.Levels.Index(50)
	assertColor(t, cmap.Level(band, len(f.Levels.Values)), img.At(x, y))
}

func TestRender_MaskedCellsUnfilled(t *testing.T) {
	r, err := NewRenderer(testStyle())
	require.NoError(t, err)

	// 50% is above the poor-recovery threshold of 30.
	img, err := r.Render(testFrame(t, "poor_overnight_recovery", 50))
	require.NoError(t, err)

	x, y := mapCentre(r)
	assertColor(t, color.White, img.At(x, y))
}

func TestRender_MissingCellsUnfilled(t *testing.T) {
	r, err := NewRenderer(testStyle())
	require.NoError(t, err)

	img, err := r.Render(testFrame(t, "maximum_relative_humidity", math.NaN()))
	require.NoError(t, err)

	x, y := mapCentre(r)
	assertColor(t, color.White, img.At(x, y))
}

func TestRender_OverlaysAndSamples(t *testing.T) {
	r, err := NewRenderer(testStyle())
	require.NoError(t, err)

	f := testFrame(t, "minimum_relative_humidity", 40)
	f.Overlays = []domain.Overlay{{
		Layer: domain.LayerState,
		Lines: [][]domain.Point{{{Lon: -159, Lat: 19}, {Lon: -156, Lat: 22}}},
	}}
	f.Samples = []domain.Sample{{Point: domain.Point{Lon: -157.8, Lat: 21.3}, Value: 41}}

	_, err = r.Render(f)
	require.NoError(t, err)
}

func TestRender_Errors(t *testing.T) {
	r, err := NewRenderer(testStyle())
	require.NoError(t, err)

	f := testFrame(t, "maximum_temperature", 80)
	f.Grid = nil
	_, err = r.Render(f)
	require.ErrorIs(t, err, errNoGrid)

	f = testFrame(t, "maximum_temperature", 80)
	f.Product.Colormap = "nope"
	_, err = r.Render(f)
	require.Error(t, err)

	f = testFrame(t, "maximum_temperature", 80)
	f.Levels = domain.Levels{}
	_, err = r.Render(f)
	require.Error(t, err)
}

func TestNewRenderer_BadFontPath(t *testing.T) {
	s := testStyle()
	s.FontPath = filepath.Join(t.TempDir(), "missing.ttf")
	_, err := NewRenderer(s)
	require.Error(t, err)
}

func TestStyle_TitleSource(t *testing.T) {
	s := testStyle()
	assert.Equal(t, gobold.TTF, s.titleSource().ttf)

	s.Bold = false
	assert.Equal(t, goregular.TTF, s.titleSource().ttf)

	s.FontPath = "/fonts/regular.ttf"
	assert.Equal(t, "/fonts/regular.ttf", s.titleSource().path)

	s.Bold = true
	s.BoldFontPath = "/fonts/bold.ttf"
	assert.Equal(t, "/fonts/bold.ttf", s.titleSource().path)
	assert.Equal(t, "/fonts/regular.ttf", s.regularSource().path)

	s.Bold = false
	assert.Equal(t, "/fonts/regular.ttf", s.titleSource().path, "bold font ignored when bold is off")
}

func TestNewRenderer_FontFiles(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "regular.ttf")
	bold := filepath.Join(dir, "bold.ttf")
	require.NoError(t, os.WriteFile(regular, goregular.TTF, 0o600))
	require.NoError(t, os.WriteFile(bold, gobold.TTF, 0o600))

	s := testStyle()
	s.FontPath = regular
	s.BoldFontPath = bold
	r, err := NewRenderer(s)
	require.NoError(t, err)
	_, err = r.Render(testFrame(t, "maximum_relative_humidity", 50))
	require.NoError(t, err)

	s.BoldFontPath = filepath.Join(dir, "missing-bold.ttf")
	_, err = NewRenderer(s)
	require.Error(t, err)
}

func TestTitles(t *testing.T) {
	f := testFrame(t, "poor_overnight_recovery", 10)
	assert.Equal(t, "Hawaii Poor Overnight Recovery (RH <= 30%)", title(f))
	assert.Equal(t, "Valid: Mon 03/02 20:00 HST - Tue 03/03 08:00 HST (Period 1)", subtitle(f))

	f = testFrame(t, "maximum_relative_humidity_trend", 10)
	assert.Contains(t, subtitle(f), "Change from previous day")
}

func TestProjection(t *testing.T) {
	p := newProjection(extent{minLon: -160, maxLon: -150, minLat: 10, maxLat: 20},
		rect{Max: gg.Point{X: 100, Y: 50}})
	x, y := p.point(domain.Point{Lon: -155, Lat: 15})
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 25, y, 1e-9)
	x, y = p.point(domain.Point{Lon: -160, Lat: 20})
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestGridExtent(t *testing.T) {
	g, err := domain.NewGrid(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, hawaiiExtent, gridExtent(g))

	g.Lon = []float64{-158, -157, -158, -157}
	g.Lat = []float64{20, 20, 21, 21}
	assert.Equal(t, extent{minLon: -158.5, maxLon: -156.5, minLat: 19.5, maxLat: 21.5}, gridExtent(g))
}

func TestEncodeGIF(t *testing.T) {
	frames := []image.Image{solid(color.White), solid(color.Black), solid(color.RGBA{R: 255, A: 255})}

	path := filepath.Join(t.TempDir(), "anim.gif")
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, EncodeGIF(out, frames, 50))
	require.NoError(t, out.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()
	anim, err := gif.DecodeAll(in)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)
	assert.Equal(t, []int{50, 50, 50}, anim.Delay)

	require.ErrorIs(t, EncodeGIF(io.Discard, nil, 50), errNoFrames)
}

func TestStore_WritesTree(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, 100, slog.New(slog.NewTextHandler(io.Discard, nil)))
	key := domain.OutputKey{
		Area:            "Hawaii",
		SubArea:         "Big Island",
		Product:         "extreme_heat",
		ReferenceSystem: "States & Counties",
	}
	frames := []image.Image{solid(color.White), solid(color.Black)}

	paths, err := s.WriteImages(key, periods(1, frames...))
	require.NoError(t, err)
	wantDir := filepath.Join(root, "Hawaii", "Big Island", "extreme_heat", "States & Counties")
	assert.Equal(t, []string{
		filepath.Join(wantDir, "Period_1.png"),
		filepath.Join(wantDir, "Period_2.png"),
	}, paths)

	f, err := os.Open(paths[1])
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assertColor(t, color.Black, img.At(0, 0))

	anim, err := s.WriteAnimation(key, frames)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wantDir, "extreme_heat.gif"), anim)

	entries, err := os.ReadDir(wantDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp files left behind")
}

func TestStore_DirWithoutSubArea(t *testing.T) {
	s := NewStore("graphics", 100, slog.New(slog.NewTextHandler(io.Discard, nil)))
	got := s.Dir(domain.OutputKey{Area: "Hawaii", Product: "extreme_heat", ReferenceSystem: "GACC Only"})
	assert.Equal(t, filepath.Join("graphics", "Hawaii", "extreme_heat", "GACC Only"), got)
}

func TestPathPart(t *testing.T) {
	assert.Equal(t, "PSA-GACC", pathPart("PSA/GACC"))
	assert.Equal(t, "_", pathPart(".."))
	assert.Equal(t, "_", pathPart("  "))
}

func TestStore_RemovesStalePeriods(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, 100, slog.New(slog.NewTextHandler(io.Discard, nil)))
	key := domain.OutputKey{Area: "Hawaii", Product: "maximum_temperature", ReferenceSystem: "GACC Only"}
	dir := s.Dir(key)

	seven := make([]image.Image, 7)
	for i := range seven {
		seven[i] = solid(color.White)
	}
	_, err := s.WriteImages(key, periods(1, seven...))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o600))

	_, err = s.WriteImages(key, periods(1, seven[:6]...))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "Period_7.png"))
	require.ErrorIs(t, err, os.ErrNotExist, "day 7 of the previous issuance removed")
	assert.FileExists(t, filepath.Join(dir, "Period_6.png"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestStore_TrendPeriodNumbers(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, 100, slog.New(slog.NewTextHandler(io.Discard, nil)))
	key := domain.OutputKey{Area: "Hawaii", Product: "maximum_temperature_trend", ReferenceSystem: "GACC Only"}

	paths, err := s.WriteImages(key, periods(2, solid(color.White), solid(color.Black)))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(s.Dir(key), "Period_2.png"),
		filepath.Join(s.Dir(key), "Period_3.png"),
	}, paths)
}

// periods numbers images consecutively from first.
func periods(first int, images ...image.Image) []domain.PeriodImage {
	out := make([]domain.PeriodImage, len(images))
	for i, img := range images {
		out[i] = domain.PeriodImage{Index: first + i, Image: img}
	}
	return out
}

func solid(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.Set(x, y, c)
		}
	}
	return img
}
