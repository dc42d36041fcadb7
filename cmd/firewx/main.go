// Command firewx renders NDFD fire-weather graphics for Hawaii.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/hawaii-firewx/internal/adapter/borders"
	"github.com/couchcryptid/hawaii-firewx/internal/adapter/grib"
	kafkaadapter "github.com/couchcryptid/hawaii-firewx/internal/adapter/kafka"
	"github.com/couchcryptid/hawaii-firewx/internal/adapter/ndfd"
	"github.com/couchcryptid/hawaii-firewx/internal/adapter/render"
	"github.com/couchcryptid/hawaii-firewx/internal/config"
	"github.com/couchcryptid/hawaii-firewx/internal/observability"
	"github.com/couchcryptid/hawaii-firewx/internal/pipeline"
	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// styleFlags are the figure settings shared by render and serve.
type styleFlags struct {
	font     string
	boldFont string
	width    int
	height   int
	noBold   bool
	noColor  bool
}

func main() {
	var sf styleFlags

	rootCmd := &cobra.Command{
		Use:   "firewx",
		Short: "Render NDFD fire-weather graphics",
		Long: `firewx downloads National Digital Forecast Database grids and renders
relative humidity and temperature graphics with their daily trends.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if sf.noColor {
				color.NoColor = true
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&sf.font, "font", "", "TrueType font file (default: embedded Go fonts)")
	rootCmd.PersistentFlags().StringVar(&sf.boldFont, "bold-font", "", "TrueType bold font for titles; with --font alone titles use that file")
	rootCmd.PersistentFlags().IntVar(&sf.width, "width", render.DefaultStyle().Width, "Figure width in pixels")
	rootCmd.PersistentFlags().IntVar(&sf.height, "height", render.DefaultStyle().Height, "Figure height in pixels")
	rootCmd.PersistentFlags().BoolVar(&sf.noBold, "no-bold", false, "Draw titles with the regular face")
	rootCmd.PersistentFlags().BoolVar(&sf.noColor, "no-color", false, "Disable colorized output")

	rootCmd.AddCommand(
		newRenderCmd(&sf),
		newServeCmd(&sf),
		newProductsCmd(),
		newReferenceSystemsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (sf styleFlags) style() render.Style {
	s := render.DefaultStyle()
	s.FontPath = sf.font
	s.BoldFontPath = sf.boldFont
	s.Width = sf.width
	s.Height = sf.height
	s.Bold = !sf.noBold
	return s
}

// app is the wired set of adapters behind a Plotter.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *observability.Metrics
	plotter   *pipeline.Plotter
	publisher *kafkaadapter.Publisher
}

func newApp(sf styleFlags) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	style := sf.style()
	renderer, err := render.NewRenderer(style)
	if err != nil {
		return nil, err
	}

	client := ndfd.NewClient(cfg.NDFDBaseURL, ndfd.SectorForArea(cfg.AreaCode), cfg.NDFDTimeout, logger, metrics)
	deps := pipeline.Deps{
		Downloader: ndfd.NewCachedDownloader(client, cfg.NDFDCacheSize, cfg.NDFDCacheTTL, clockwork.NewRealClock(), metrics),
		Parser:     grib.NewParser(logger, cfg.SampleStride),
		Layers:     borders.NewProvider(cfg.BordersDir, logger),
		Renderer:   renderer,
		Output:     render.NewStore(cfg.OutputDir, style.FrameDelay, logger),
	}

	a := &app{cfg: cfg, logger: logger, metrics: metrics}
	if cfg.KafkaEnabled {
		a.publisher = kafkaadapter.NewPublisher(cfg, logger)
		deps.Publisher = a.publisher
		logger.Info("product events enabled", "topic", cfg.KafkaTopic)
	}

	a.plotter = pipeline.NewPlotter(pipeline.Options{
		AreaCode: cfg.AreaCode,
		AreaName: cfg.AreaName,
		Location: cfg.Location,
	}, deps, logger, metrics)
	return a, nil
}

func (a *app) close() {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("kafka publisher close error", "error", err)
	}
}
