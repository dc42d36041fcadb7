package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/hawaii-firewx/internal/config"
	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher announces rendered products on a Kafka topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish writes one ProductRendered event keyed by its ID, so re-renders of
// the same issuance land on the same partition.
func (p *Publisher) Publish(ctx context.Context, event domain.ProductRendered) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Product, err)
	}
	p.logger.Debug("product event published", "product", event.Product, "id", event.ID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a ProductRendered event into a Kafka message.
func serializeToMessage(event domain.ProductRendered) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize product event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "product", Value: []byte(event.Product)},
			{Key: "rendered_at", Value: []byte(event.RenderedAt.Format(time.RFC3339))},
		},
	}, nil
}
