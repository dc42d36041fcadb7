package ndfd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/couchcryptid/hawaii-firewx/internal/observability"
)

// Valid-period directories of an NDFD sector. The short-range file holds
// days 1-3 only, so both are needed to fill six periods.
const (
	shortRange    = "VP.001-003"
	extendedRange = "VP.004-007"
)

// maxFileSize caps a single GRIB2 download.
const maxFileSize = 64 << 20

var (
	errNotFound = errors.New("not found")
	errTooLarge = errors.New("file exceeds size limit")
)

// Client downloads NDFD GRIB2 element files for one sector over HTTP.
// It implements pipeline.Downloader.
type Client struct {
	baseURL    string
	sector     string
	httpClient *http.Client
	maxSize    int64
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an NDFD client for the given sector directory, e.g.
// "AR.hawaii".
func NewClient(baseURL, sector string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		sector:  sector,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxSize: maxFileSize,
		logger:  logger,
		metrics: metrics,
	}
}

// SectorForArea maps a two-letter area code to its NDFD sector directory.
func SectorForArea(areaCode string) string {
	switch strings.ToUpper(areaCode) {
	case "HI":
		return "AR.hawaii"
	case "AK":
		return "AR.alaska"
	case "PR":
		return "AR.puertori"
	case "GU":
		return "AR.guam"
	default:
		return "AR.conus"
	}
}

// URL returns the location of one element file.
func (c *Client) URL(element domain.Element, validPeriods string) string {
	return fmt.Sprintf("%s/%s/%s/ds.%s.bin", c.baseURL, c.sector, validPeriods, element)
}

// Download fetches the short-range and extended files for element, in
// chronological file order. A missing extended file is an error: the
// short-range file alone cannot make a forecast bundle.
func (c *Client) Download(ctx context.Context, element domain.Element) ([][]byte, error) {
	start := time.Now()
	defer func() {
		c.metrics.DownloadDuration.WithLabelValues(string(element)).Observe(time.Since(start).Seconds())
	}()

	short, err := c.fetch(ctx, element, c.URL(element, shortRange))
	if err != nil {
		return nil, err
	}
	files := [][]byte{short}

	extended, err := c.fetch(ctx, element, c.URL(element, extendedRange))
	if errors.Is(err, errNotFound) {
		c.logger.Warn("extended ndfd file not published, cannot render", "element", element)
		return nil, fmt.Errorf("%s extended file not published: %w", element, err)
	}
	if err != nil {
		return nil, err
	}
	return append(files, extended), nil
}

func (c *Client) fetch(ctx context.Context, element domain.Element, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.DownloadRequests.WithLabelValues(string(element), "error").Inc()
		return nil, fmt.Errorf("download %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.DownloadRequests.WithLabelValues(string(element), "missing").Inc()
		return nil, fmt.Errorf("download %s: %w", fullURL, errNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.DownloadRequests.WithLabelValues(string(element), "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ndfd error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		c.metrics.DownloadRequests.WithLabelValues(string(element), "error").Inc()
		return nil, fmt.Errorf("read %s: %w", fullURL, err)
	}
	if int64(len(data)) > c.maxSize {
		c.metrics.DownloadRequests.WithLabelValues(string(element), "error").Inc()
		return nil, fmt.Errorf("read %s: %w (%d bytes)", fullURL, errTooLarge, c.maxSize)
	}
	c.metrics.DownloadRequests.WithLabelValues(string(element), "success").Inc()
	c.logger.Debug("ndfd file downloaded", "url", fullURL, "bytes", len(data))
	return data, nil
}
