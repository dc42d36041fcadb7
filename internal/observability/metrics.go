package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "firewx"

// Metrics holds the Prometheus counters, histograms, and gauges for graphic production.
type Metrics struct {
	// NDFD download metrics.
	DownloadRequests *prometheus.CounterVec   // labels: element, outcome={success,error,missing}
	DownloadCache    *prometheus.CounterVec   // labels: result={hit,miss}
	DownloadDuration *prometheus.HistogramVec // labels: element

	// Render metrics.
	Renders           *prometheus.CounterVec // labels: product, outcome={success,error}
	RenderDuration    prometheus.Histogram
	ImagesWritten     prometheus.Counter
	SampleFailures    *prometheus.CounterVec // labels: product
	ForecastPeriods   *prometheus.GaugeVec   // labels: element
	UnknownReferences prometheus.Counter

	SchedulerRunning prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DownloadRequests,
		m.DownloadCache,
		m.DownloadDuration,
		m.Renders,
		m.RenderDuration,
		m.ImagesWritten,
		m.SampleFailures,
		m.ForecastPeriods,
		m.UnknownReferences,
		m.SchedulerRunning,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DownloadRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ndfd_downloads_total",
			Help:      "NDFD GRIB2 file downloads by element and outcome.",
		}, []string{"element", "outcome"}),
		DownloadCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ndfd_cache_total",
			Help:      "NDFD download cache lookups by result.",
		}, []string{"result"}),
		DownloadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ndfd_download_duration_seconds",
			Help:      "Duration of an NDFD element download (both files).",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"element"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Product renders by product and outcome.",
		}, []string{"product", "outcome"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of a complete product render including download.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		ImagesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_written_total",
			Help:      "Period images written to disk.",
		}),
		SampleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_annotation_failures_total",
			Help:      "Periods rendered without sample annotations because the sample table was unusable.",
		}, []string{"product"}),
		ForecastPeriods: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_periods",
			Help:      "Number of periods in the most recent bundle per element (6 or 7).",
		}, []string{"element"}),
		UnknownReferences: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_reference_systems_total",
			Help:      "Renders requested with an unrecognised reference system (no borders drawn).",
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_running",
			Help:      "1 when the render scheduler is active, 0 when shut down.",
		}),
	}
}
