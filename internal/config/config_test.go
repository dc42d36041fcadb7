package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "HI", cfg.AreaCode)
	assert.Equal(t, "Hawaii", cfg.AreaName)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, "States & Counties", cfg.ReferenceSystem)
	assert.Equal(t, "graphics", cfg.OutputDir)
	assert.Equal(t, "shapes", cfg.BordersDir)
	assert.Empty(t, cfg.JobsFile)
	assert.Equal(t, time.Hour, cfg.RenderInterval)
	assert.Equal(t, 25, cfg.SampleStride)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultNDFDBaseURL, cfg.NDFDBaseURL)
	assert.Equal(t, 30*time.Second, cfg.NDFDTimeout)
	assert.Equal(t, 32, cfg.NDFDCacheSize)
	assert.Equal(t, 15*time.Minute, cfg.NDFDCacheTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "firewx-products-rendered", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("AREA_CODE", "hi")
	t.Setenv("AREA_NAME", "Hawaiian Islands")
	t.Setenv("TIMEZONE", "Pacific/Honolulu")
	t.Setenv("REFERENCE_SYSTEM", "GACC & PSA")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("BORDERS_DIR", "/tmp/shapes")
	t.Setenv("JOBS_FILE", "/etc/firewx/jobs.yaml")
	t.Setenv("RENDER_INTERVAL", "30m")
	t.Setenv("SAMPLE_STRIDE", "10")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("NDFD_BASE_URL", "http://mirror.local/ndfd/")
	t.Setenv("NDFD_TIMEOUT", "1m")
	t.Setenv("NDFD_CACHE_SIZE", "4")
	t.Setenv("NDFD_CACHE_TTL", "5m")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "HI", cfg.AreaCode)
	assert.Equal(t, "Hawaiian Islands", cfg.AreaName)
	assert.Equal(t, "Pacific/Honolulu", cfg.Location.String())
	assert.Equal(t, "GACC & PSA", cfg.ReferenceSystem)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "/tmp/shapes", cfg.BordersDir)
	assert.Equal(t, "/etc/firewx/jobs.yaml", cfg.JobsFile)
	assert.Equal(t, 30*time.Minute, cfg.RenderInterval)
	assert.Equal(t, 10, cfg.SampleStride)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://mirror.local/ndfd", cfg.NDFDBaseURL)
	assert.Equal(t, time.Minute, cfg.NDFDTimeout)
	assert.Equal(t, 4, cfg.NDFDCacheSize)
	assert.Equal(t, 5*time.Minute, cfg.NDFDCacheTTL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"NDFD_TIMEOUT", "NDFD_CACHE_TTL", "RENDER_INTERVAL"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "bad")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
		t.Run(key+" negative", func(t *testing.T) {
			t.Setenv(key, "-1s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidSizes(t *testing.T) {
	for _, key := range []string{"NDFD_CACHE_SIZE", "SAMPLE_STRIDE"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "0")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestLoad_KafkaDisabledUnlessTrue(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "yes")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
