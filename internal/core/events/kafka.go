package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the forwarder needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder republishes every bus event onto a Kafka topic so other
// services can consume HR activity.
type KafkaForwarder struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}
}

func NewKafkaForwarder(writer MessageWriter) *KafkaForwarder {
	return &KafkaForwarder{writer: writer}
}

// Register subscribes the forwarder to all events on the bus.
func (f *KafkaForwarder) Register(bus *EventBus) {
	bus.Subscribe(AllEvents, f.Handle)
}

func (f *KafkaForwarder) Handle(ctx context.Context, event Event) error {
	value, err := json.Marshal(BaseEvent{
		ID:        event.EventID(),
		Type:      event.EventType(),
		Timestamp: event.OccurredAt(),
		Data:      payloadMap(event),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventID(), err)
	}

	msg := kafka.Message{
		Key:   []byte(event.EventType()),
		Value: value,
		Time:  event.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID())},
		},
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event %s to kafka: %w", event.EventID(), err)
	}
	return nil
}

func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

func payloadMap(event Event) map[string]interface{} {
	if m, ok := event.Payload().(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{"payload": event.Payload()}
}
