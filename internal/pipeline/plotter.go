package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/couchcryptid/hawaii-firewx/internal/observability"
)

// ErrUnknownProduct is returned for a product ID outside the catalog.
var ErrUnknownProduct = errors.New("unknown product")

// Downloader fetches the GRIB2 files of one NDFD element.
type Downloader interface {
	Download(ctx context.Context, element domain.Element) ([][]byte, error)
}

// Parser decodes GRIB2 files into a raw bundle.
type Parser interface {
	Parse(element domain.Element, files [][]byte) (domain.RawBundle, error)
}

// LayerProvider supplies the border overlays a plan shows.
type LayerProvider interface {
	Load(ctx context.Context, plan domain.BorderStylePlan) ([]domain.Overlay, error)
}

// Renderer draws one frame.
type Renderer interface {
	Render(frame domain.Frame) (image.Image, error)
}

// Output persists a product's images and animation.
type Output interface {
	WriteImages(key domain.OutputKey, images []domain.PeriodImage) ([]string, error)
	WriteAnimation(key domain.OutputKey, images []image.Image) (string, error)
}

// Publisher announces a rendered product.
type Publisher interface {
	Publish(ctx context.Context, event domain.ProductRendered) error
}

// Request is one product render.
type Request struct {
	Product string
	Borders domain.BorderConfig
	// Threshold overrides the product default for threshold products.
	Threshold   *float64
	SubArea     string
	ShowSamples bool
	// FilePaths are local GRIB2 files used instead of downloading.
	FilePaths []string
	// Data is an already-parsed bundle used instead of FilePaths or downloading.
	Data *domain.RawBundle
}

// Result describes what a render produced.
type Result struct {
	Product         domain.Product
	Plan            domain.BorderStylePlan
	Length          domain.ForecastLength
	Images          []string
	Animation       string
	SamplesDisabled int
	Event           domain.ProductRendered
}

// Options are the area-wide settings of a Plotter.
type Options struct {
	AreaCode string
	AreaName string
	// Location is the zone period labels are shown in; nil means time.Local.
	Location *time.Location
}

// Deps are the adapters a Plotter drives. Publisher may be nil.
type Deps struct {
	Downloader Downloader
	Parser     Parser
	Layers     LayerProvider
	Renderer   Renderer
	Output     Output
	Publisher  Publisher
}

// Plotter turns a Request into written graphics.
type Plotter struct {
	opts    Options
	deps    Deps
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPlotter creates a Plotter.
func NewPlotter(opts Options, deps Deps, logger *slog.Logger, metrics *observability.Metrics) *Plotter {
	return &Plotter{opts: opts, deps: deps, logger: logger, metrics: metrics}
}

// Render produces every period image of one product and its animation.
// All frames are drawn before anything is written, so a drawing failure
// leaves the previous graphics in place.
func (p *Plotter) Render(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	product, ok := domain.LookupProduct(req.Product)
	if !ok {
		return Result{}, fmt.Errorf("%q: %w", req.Product, ErrUnknownProduct)
	}

	res, err := p.render(ctx, product, req)
	if err != nil {
		p.metrics.Renders.WithLabelValues(product.ID, "error").Inc()
		return Result{}, fmt.Errorf("render %s: %w", product.ID, err)
	}
	p.metrics.Renders.WithLabelValues(product.ID, "success").Inc()
	p.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	return res, nil
}

func (p *Plotter) render(ctx context.Context, product domain.Product, req Request) (Result, error) {
	plan := domain.ResolveBorders(req.Borders, p.opts.AreaCode)
	if !domain.IsKnownReferenceSystem(req.Borders.ReferenceSystem) {
		p.logger.Warn("unrecognised reference system, drawing no borders",
			"product", product.ID,
			"reference_system", req.Borders.ReferenceSystem,
		)
		p.metrics.UnknownReferences.Inc()
	}

	raw, err := p.source(ctx, product.Element, req)
	if err != nil {
		return Result{}, err
	}
	bundle, err := domain.AlignPeriods(raw, p.opts.Location)
	if err != nil {
		return Result{}, err
	}
	p.metrics.ForecastPeriods.WithLabelValues(string(product.Element)).Set(float64(bundle.Length))

	overlays, err := p.deps.Layers.Load(ctx, plan)
	if err != nil {
		return Result{}, fmt.Errorf("load borders: %w", err)
	}

	threshold := product.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	frames, disabled, err := p.frames(product, bundle, req.ShowSamples)
	if err != nil {
		return Result{}, err
	}
	levels := product.Levels(threshold)
	images := make([]image.Image, len(frames))
	periods := make([]domain.PeriodImage, len(frames))
	for i := range frames {
		frames[i].AreaName = p.opts.AreaName
		frames[i].Levels = levels
		frames[i].Plan = plan
		frames[i].Overlays = overlays
		img, err := p.deps.Renderer.Render(frames[i])
		if err != nil {
			return Result{}, fmt.Errorf("period %d: %w", frames[i].Index, err)
		}
		images[i] = img
		periods[i] = domain.PeriodImage{Index: frames[i].Index, Image: img}
	}

	key := domain.OutputKey{
		Area:            p.opts.AreaName,
		SubArea:         req.SubArea,
		Product:         product.ID,
		ReferenceSystem: req.Borders.ReferenceSystem,
	}
	paths, err := p.deps.Output.WriteImages(key, periods)
	if err != nil {
		return Result{}, err
	}
	p.metrics.ImagesWritten.Add(float64(len(paths)))
	animation, err := p.deps.Output.WriteAnimation(key, images)
	if err != nil {
		return Result{}, err
	}

	event := domain.ProductRendered{
		ID:              domain.RenderedID(key, frames[0].Start),
		Product:         product.ID,
		Element:         product.Element,
		Area:            key.Area,
		SubArea:         key.SubArea,
		ReferenceSystem: key.ReferenceSystem,
		ForecastLength:  int(bundle.Length),
		FirstValid:      frames[0].Start,
		LastValid:       frames[len(frames)-1].End,
		Images:          paths,
		Animation:       animation,
		SamplesDisabled: disabled,
		RenderedAt:      domain.Now().UTC(),
	}
	if p.deps.Publisher != nil {
		if err := p.deps.Publisher.Publish(ctx, event); err != nil {
			p.logger.Error("publish product event failed", "product", product.ID, "error", err)
		}
	}

	p.logger.Info("product rendered",
		"product", product.ID,
		"forecast_length", bundle.Length.String(),
		"images", len(paths),
		"samples_disabled", disabled,
	)
	return Result{
		Product:         product,
		Plan:            plan,
		Length:          bundle.Length,
		Images:          paths,
		Animation:       animation,
		SamplesDisabled: disabled,
		Event:           event,
	}, nil
}

// source returns the raw bundle from, in order of preference, the request's
// data, its local files or a download. A bundle of another element is
// rejected; one with no element is taken to be element in its native unit.
func (p *Plotter) source(ctx context.Context, element domain.Element, req Request) (domain.RawBundle, error) {
	if req.Data != nil {
		raw := *req.Data
		if raw.Element == "" {
			raw.Element = element
			raw.Unit = element.Unit()
		}
		if err := checkElement(element, raw); err != nil {
			return domain.RawBundle{}, err
		}
		return raw, nil
	}

	var files [][]byte
	if len(req.FilePaths) > 0 {
		for _, path := range req.FilePaths {
			data, err := os.ReadFile(path)
			if err != nil {
				return domain.RawBundle{}, fmt.Errorf("read grib file: %w", err)
			}
			files = append(files, data)
		}
	} else {
		var err error
		files, err = p.deps.Downloader.Download(ctx, element)
		if err != nil {
			return domain.RawBundle{}, fmt.Errorf("download %s: %w", element, err)
		}
	}

	raw, err := p.deps.Parser.Parse(element, files)
	if err != nil {
		return domain.RawBundle{}, fmt.Errorf("parse %s: %w", element, err)
	}
	if err := checkElement(element, raw); err != nil {
		return domain.RawBundle{}, err
	}
	return raw, nil
}

func checkElement(want domain.Element, raw domain.RawBundle) error {
	if raw.Element != want {
		return fmt.Errorf("%s data for a %s product: %w", raw.Element, want, domain.ErrElementMismatch)
	}
	if !want.Accepts(raw.Unit) {
		return fmt.Errorf("%s data in %s: %w", want, raw.Unit, domain.ErrElementMismatch)
	}
	return nil
}

// frames builds one frame per displayed period. Trend products have no
// sample annotations; for other products a period whose samples cannot be
// read is drawn without them and counted in the returned total.
func (p *Plotter) frames(product domain.Product, bundle domain.ForecastBundle, showSamples bool) ([]domain.Frame, int, error) {
	if product.Mode == domain.ModeTrend {
		series, err := domain.Trends(bundle)
		if err != nil {
			return nil, 0, err
		}
		out := make([]domain.Frame, len(series.Periods))
		for i, tp := range series.Periods {
			out[i] = domain.Frame{
				Product: product,
				Index:   tp.Index,
				Start:   tp.Start,
				End:     tp.End,
				Grid:    tp.Grid,
				Unit:    series.Unit,
			}
		}
		return out, 0, nil
	}

	kelvin := bundle.Unit == domain.UnitKelvin
	display := domain.ToDisplayUnits(bundle)
	disabled := 0
	out := make([]domain.Frame, len(display.Periods))
	for i, fp := range display.Periods {
		out[i] = domain.Frame{
			Product: product,
			Index:   fp.Index,
			Start:   fp.Start,
			End:     fp.End,
			Grid:    fp.Grid,
			Unit:    display.Unit,
		}
		if !showSamples {
			continue
		}
		samples, err := domain.SelectSamples(fp.Samples, product.SampleColumn, domain.ColumnUnnamed)
		if err != nil {
			p.logger.Warn("sample annotations disabled for period",
				"product", product.ID,
				"period", fp.Index,
				"error", err,
			)
			p.metrics.SampleFailures.WithLabelValues(product.ID).Inc()
			disabled++
			continue
		}
		if kelvin {
			for j := range samples {
				samples[j].Value = domain.KelvinToFahrenheit(samples[j].Value)
			}
		}
		out[i].Samples = samples
	}
	return out, disabled, nil
}
