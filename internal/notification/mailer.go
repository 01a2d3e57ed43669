package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/frahmantamala/hr-management/internal/core/events"
)

// KafkaMailer queues password reset e-mails on the notifications topic for
// the notifications worker to deliver.
type KafkaMailer struct {
	writer events.MessageWriter
}

func NewKafkaMailer(writer events.MessageWriter) *KafkaMailer {
	return &KafkaMailer{writer: writer}
}

func (m *KafkaMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	msg := NewPasswordResetMessage(to, link)
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Kind),
		Value: value,
		Time:  msg.CreatedAt,
	})
}

func (m *KafkaMailer) Close() error {
	return m.writer.Close()
}

// DirectMailer hands password reset e-mails straight to a Notifier.
type DirectMailer struct {
	notifier Notifier
}

func NewDirectMailer(n Notifier) *DirectMailer {
	return &DirectMailer{notifier: n}
}

func (m *DirectMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	return m.notifier.Send(ctx, NewPasswordResetMessage(to, link))
}
