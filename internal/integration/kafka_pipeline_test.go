//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/hawaii-firewx/internal/adapter/kafka"
	"github.com/couchcryptid/hawaii-firewx/internal/config"
	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testTopic = "test-products-rendered"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker for the test and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("firewx-test"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublisherRoundTrip publishes a ProductRendered event and reads it back
// from the topic.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}
	publisher := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	first := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	key := domain.OutputKey{Area: "Hawaii", Product: "extreme_heat", ReferenceSystem: domain.RefStatesCounties}
	event := domain.ProductRendered{
		ID:              domain.RenderedID(key, first),
		Product:         "extreme_heat",
		Element:         domain.ElementMaxT,
		Area:            "Hawaii",
		ReferenceSystem: domain.RefStatesCounties,
		ForecastLength:  6,
		FirstValid:      first,
		LastValid:       first.Add(72 * time.Hour),
		Images:          []string{"graphics/Hawaii/extreme_heat/States & Counties/Period_1.png"},
		Animation:       "graphics/Hawaii/extreme_heat/States & Counties/extreme_heat.gif",
		RenderedAt:      time.Date(2026, 3, 2, 6, 5, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(ctx, event))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from product topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, event.ID, string(msg.Key))
	assert.Equal(t, "extreme_heat", headers["product"])
	assert.Equal(t, "2026-03-02T06:05:00Z", headers["rendered_at"])

	var got domain.ProductRendered
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, domain.ElementMaxT, got.Element)
	assert.Equal(t, 6, got.ForecastLength)
	assert.True(t, got.FirstValid.Equal(first))
	assert.Equal(t, event.Images, got.Images)
}
