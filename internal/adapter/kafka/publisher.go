package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/epi-dashboard-service/internal/config"
	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces applied view snapshots to a Kafka topic.
// It implements view.Renderer.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured snapshot topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSnapshotTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// Render serializes the snapshot and publishes it keyed by page, so all
// snapshots of one page land on the same partition in order.
func (p *Publisher) Render(ctx context.Context, s domain.Snapshot) error {
	msg, err := serializeToMessage(s)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s snapshot: %w", s.Page, err)
	}
	p.logger.Debug("snapshot published", "page", string(s.Page), "generation", s.Generation, "bytes", len(msg.Value))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(s domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(s.Page),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "page", Value: []byte(s.Page)},
			{Key: "generation", Value: []byte(strconv.FormatUint(s.Generation, 10))},
			{Key: "rendered_at", Value: []byte(s.RenderedAt.Format(time.RFC3339))},
		},
	}, nil
}
