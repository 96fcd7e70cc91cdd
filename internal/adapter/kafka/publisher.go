// Package kafka publishes submitted hazard reports to a Kafka topic for
// downstream consumers (dashboards, alerting).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/coastwatch/hazard-report-service/internal/domain"
)

// Publisher produces report events to the configured topic.
// It implements feed.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the reports topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishReport serializes and publishes one submitted post.
func (p *Publisher) PublishReport(ctx context.Context, post domain.Post) error {
	msg, err := serializeToMessage(post)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a Post into a Kafka message.
func serializeToMessage(post domain.Post) (kafkago.Message, error) {
	data, err := json.Marshal(post)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(post.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hazard_type", Value: []byte(post.HazardType)},
			{Key: "submitted_at", Value: []byte(post.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
