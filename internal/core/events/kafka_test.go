package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/segmentio/kafka-go"

	"github.com/frahmantamala/hr-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

var _ = Describe("KafkaForwarder", func() {
	var (
		writer    *fakeWriter
		forwarder *events.KafkaForwarder
	)

	BeforeEach(func() {
		writer = &fakeWriter{}
		forwarder = events.NewKafkaForwarder(writer)
	})

	It("should write the event keyed by its type", func() {
		event := events.NewLeaveStatusChangedEvent(4, 2, "Pending", "Approved")

		Expect(forwarder.Handle(context.Background(), event)).To(Succeed())
		Expect(writer.messages).To(HaveLen(1))

		msg := writer.messages[0]
		Expect(string(msg.Key)).To(Equal(events.EventTypeLeaveStatusChanged))
		Expect(msg.Headers).To(ContainElement(kafka.Header{Key: "event_id", Value: []byte(event.EventID())}))

		var decoded events.BaseEvent
		Expect(json.Unmarshal(msg.Value, &decoded)).To(Succeed())
		Expect(decoded.ID).To(Equal(event.EventID()))
		Expect(decoded.Data).To(HaveKeyWithValue("to", "Approved"))
	})

	It("should wrap writer failures", func() {
		writer.err = errors.New("broker down")
		err := forwarder.Handle(context.Background(), events.NewEmployeeDeletedEvent(1))
		Expect(err).To(MatchError(ContainSubstring("broker down")))
	})

	It("should receive every event once registered on a bus", func() {
		bus := events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		forwarder.Register(bus)

		Expect(bus.PublishSync(context.Background(), events.NewUserCreatedEvent(1, "admin", "Admin"))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewEmployeeDeletedEvent(2))).To(Succeed())
		Expect(writer.messages).To(HaveLen(2))

		Expect(forwarder.Close()).To(Succeed())
		Expect(writer.closed).To(BeTrue())
	})
})
