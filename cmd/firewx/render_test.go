package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/couchcryptid/hawaii-firewx/internal/pipeline"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseRenderFlags(t *testing.T, args ...string) (renderFlags, *pflag.FlagSet) {
	t.Helper()
	var rf renderFlags
	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	rf.bind(fs)
	require.NoError(t, fs.Parse(args))
	return rf, fs
}

func TestRenderFlags_Defaults(t *testing.T) {
	rf, fs := parseRenderFlags(t)
	req := rf.request(fs, domain.RefStatesCounties)

	assert.Equal(t, domain.RefStatesCounties, req.Borders.ReferenceSystem)
	assert.Nil(t, req.Threshold, "unset threshold keeps the product default")
	for _, l := range domain.Layers() {
		assert.Nil(t, req.Borders.Show[l], l.String())
		assert.Nil(t, req.Borders.Linewidth[l], l.String())
	}
}

func TestRenderFlags_Overrides(t *testing.T) {
	rf, fs := parseRenderFlags(t,
		"-r", "Custom",
		"--show-psa",
		"--show-state=false",
		"--linewidth-psa=1.5",
		"--threshold=0",
		"--sub-area", "Maui",
		"--samples",
		"-f", "a.bin,b.bin",
	)
	req := rf.request(fs, domain.RefStatesCounties)

	assert.Equal(t, "Custom", req.Borders.ReferenceSystem)
	require.NotNil(t, req.Borders.Show[domain.LayerPSA])
	assert.True(t, *req.Borders.Show[domain.LayerPSA])
	require.NotNil(t, req.Borders.Show[domain.LayerState])
	assert.False(t, *req.Borders.Show[domain.LayerState])
	assert.Nil(t, req.Borders.Show[domain.LayerCounty])
	require.NotNil(t, req.Borders.Linewidth[domain.LayerPSA])
	assert.InDelta(t, 1.5, *req.Borders.Linewidth[domain.LayerPSA], 0)
	require.NotNil(t, req.Threshold, "an explicit zero is still an override")
	assert.InDelta(t, 0, *req.Threshold, 0)
	assert.Equal(t, "Maui", req.SubArea)
	assert.True(t, req.ShowSamples)
	assert.Equal(t, []string{"a.bin", "b.bin"}, req.FilePaths)

	plan := domain.ResolveBorders(req.Borders, "HI")
	assert.Equal(t, []domain.Layer{domain.LayerPSA}, plan.Shown())
}

func TestProductIDs(t *testing.T) {
	ids, err := productIDs([]string{"all"})
	require.NoError(t, err)
	assert.Len(t, ids, len(domain.Products()))

	ids, err = productIDs([]string{"extreme_heat", "poor_overnight_recovery"})
	require.NoError(t, err)
	assert.Equal(t, []string{"extreme_heat", "poor_overnight_recovery"}, ids)

	_, err = productIDs([]string{"extreme_heat", "haines_index"})
	require.ErrorIs(t, err, pipeline.ErrUnknownProduct)
}

func TestPrintResult(t *testing.T) {
	color.NoColor = true
	product, _ := domain.LookupProduct("extreme_heat")
	start := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	printResult(&buf, pipeline.Result{
		Product:         product,
		Length:          domain.Short,
		Images:          make([]string, 6),
		Animation:       "graphics/Hawaii/extreme_heat/States & Counties/extreme_heat.gif",
		SamplesDisabled: 1,
		Event: domain.ProductRendered{
			FirstValid: start,
			LastValid:  start.Add(5*24*time.Hour + 12*time.Hour),
		},
	})

	out := buf.String()
	assert.Contains(t, out, "extreme_heat  6 periods (short)")
	assert.Contains(t, out, "disabled for 1 period(s)")
	assert.Contains(t, out, "extreme_heat.gif")

	buf.Reset()
	printFailure(&buf, "extreme_heat", errors.New("status 404"))
	assert.Equal(t, "extreme_heat  status 404\n", buf.String())
}

func TestPrintProducts(t *testing.T) {
	var buf bytes.Buffer
	printProducts(&buf)
	assert.Contains(t, buf.String(), "poor_overnight_recovery")
	assert.Contains(t, buf.String(), "below")
	assert.Contains(t, buf.String(), "30")
}

func TestStyleFlags_Style(t *testing.T) {
	s := styleFlags{font: "regular.ttf", boldFont: "bold.ttf", width: 800, height: 600}.style()
	assert.Equal(t, "regular.ttf", s.FontPath)
	assert.Equal(t, "bold.ttf", s.BoldFontPath)
	assert.Equal(t, 800, s.Width)
	assert.True(t, s.Bold)

	assert.False(t, styleFlags{noBold: true}.style().Bold)
}
