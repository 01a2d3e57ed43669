package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
}

// Consumer reads queued messages and delivers them through a Notifier.
type Consumer struct {
	reader   MessageReader
	notifier Notifier
	workers  int
	logger   *slog.Logger
}

type ConsumerOption func(*Consumer)

// WithWorkers sets how many messages are delivered concurrently. With more
// than one worker, delivery order is no longer the topic order.
func WithWorkers(n int) ConsumerOption {
	return func(c *Consumer) {
		if n > 0 {
			c.workers = n
		}
	}
}

func NewConsumer(reader MessageReader, notifier Notifier, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Consumer{
		reader:   reader,
		notifier: notifier,
		workers:  1,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start reads until ctx is cancelled. Undecodable and undeliverable
// messages are logged and skipped.
func (c *Consumer) Start(ctx context.Context) error {
	pool := newDeliveryPool(c.workers, c.logger)
	pool.start(ctx, c.deliver)
	defer pool.shutdown()

	c.logger.Info("notification consumer started", "workers", c.workers)

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("notification consumer stopped")
				return ctx.Err()
			}
			c.logger.Error("read message failed", "error", err)
			continue
		}

		var m Message
		if err := json.Unmarshal(msg.Value, &m); err != nil {
			c.logger.Error("decode notification failed", "offset", msg.Offset, "error", err)
			continue
		}

		if !pool.submit(ctx, m) {
			c.logger.Info("notification consumer stopped")
			return ctx.Err()
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, m Message) {
	if err := c.notifier.Send(ctx, m); err != nil {
		c.logger.Error("deliver notification failed", "kind", m.Kind, "to", m.To, "error", err)
		return
	}
	c.logger.Debug("notification delivered", "kind", m.Kind, "to", m.To)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
