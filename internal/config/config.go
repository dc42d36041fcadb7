package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultNDFDBaseURL is the NDFD operational GRIB2 tree on the NWS FTP mirror.
const DefaultNDFDBaseURL = "https://tgftp.nws.noaa.gov/SL.us008001/ST.opnl/DF.gr2/DC.ndfd"

// Config holds all service settings, populated from environment variables.
type Config struct {
	AreaCode        string
	AreaName        string
	Location        *time.Location
	ReferenceSystem string
	OutputDir       string
	BordersDir      string
	JobsFile        string
	RenderInterval  time.Duration
	SampleStride    int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NDFD download configuration.
	NDFDBaseURL   string
	NDFDTimeout   time.Duration
	NDFDCacheSize int
	NDFDCacheTTL  time.Duration

	// Product-rendered event publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	ndfdTimeout, err := parsePositiveDuration("NDFD_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("NDFD_CACHE_TTL", "15m")
	if err != nil {
		return nil, err
	}
	renderInterval, err := parsePositiveDuration("RENDER_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("NDFD_CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}
	sampleStride, err := parsePositiveInt("SAMPLE_STRIDE", 25)
	if err != nil {
		return nil, err
	}

	tz := sharedcfg.EnvOrDefault("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		AreaCode:        strings.ToUpper(sharedcfg.EnvOrDefault("AREA_CODE", "HI")),
		AreaName:        sharedcfg.EnvOrDefault("AREA_NAME", "Hawaii"),
		Location:        loc,
		ReferenceSystem: sharedcfg.EnvOrDefault("REFERENCE_SYSTEM", "States & Counties"),
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "graphics"),
		BordersDir:      sharedcfg.EnvOrDefault("BORDERS_DIR", "shapes"),
		JobsFile:        os.Getenv("JOBS_FILE"),
		RenderInterval:  renderInterval,
		SampleStride:    sampleStride,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NDFDBaseURL:   strings.TrimRight(sharedcfg.EnvOrDefault("NDFD_BASE_URL", DefaultNDFDBaseURL), "/"),
		NDFDTimeout:   ndfdTimeout,
		NDFDCacheSize: cacheSize,
		NDFDCacheTTL:  cacheTTL,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "firewx-products-rendered"),
	}

	if cfg.AreaCode == "" {
		return nil, errors.New("AREA_CODE is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
