package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"crewmatch/internal/domain"
)

// EventMatchDetected is the event_type header of published match groups.
const EventMatchDetected = "match.detected"

// messageWriter is the subset of kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher emits match groups to a Kafka topic.
// It implements domain.MatchPublisher.
type Publisher struct {
	writer messageWriter
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return newPublisher(w, clockwork.NewRealClock(), logger)
}

func newPublisher(w messageWriter, clock clockwork.Clock, logger *slog.Logger) *Publisher {
	return &Publisher{writer: w, clock: clock, logger: logger}
}

// matchEvent is the wire form of a detected match.
type matchEvent struct {
	City       string    `json:"city"`
	Date       string    `json:"date"`
	Members    []string  `json:"members"`
	Trigger    string    `json:"trigger"`
	DetectedAt time.Time `json:"detected_at"`
}

// PublishMatch writes one message keyed by city and date so updates for the same
// group land on the same partition.
func (p *Publisher) PublishMatch(ctx context.Context, group domain.MatchGroup, trigger string) error {
	msg, err := serializeToMessage(group, trigger, p.clock.Now().UTC())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish match %s/%s: %w", group.City, group.DateString(), err)
	}
	p.logger.DebugContext(ctx, "match published", "city", group.City, "date", group.DateString())
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a match group into a Kafka message.
func serializeToMessage(group domain.MatchGroup, trigger string, detectedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(matchEvent{
		City:       group.City,
		Date:       group.DateString(),
		Members:    group.Members,
		Trigger:    trigger,
		DetectedAt: detectedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize match: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(group.City + "/" + group.DateString()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventMatchDetected)},
			{Key: "detected_at", Value: []byte(detectedAt.Format(time.RFC3339))},
		},
	}, nil
}
