package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/frahmantamala/hr-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var (
		bus    *events.EventBus
		logger *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
	})

	It("should deliver an event to handlers of its type and to wildcard handlers", func() {
		var (
			mu   sync.Mutex
			seen []string
		)
		record := func(name string) events.Handler {
			return func(ctx context.Context, event events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				seen = append(seen, name+":"+event.EventType())
				return nil
			}
		}
		bus.Subscribe(events.EventTypeEmployeeOnboarded, record("typed"))
		bus.Subscribe(events.EventTypeLeaveRequested, record("other"))
		bus.Subscribe(events.AllEvents, record("all"))

		err := bus.Publish(context.Background(), events.NewEmployeeOnboardedEvent(1, "E1000", "Jane Doe", "jane@example.com"))
		Expect(err).NotTo(HaveOccurred())
		bus.Wait()

		Expect(seen).To(ConsistOf(
			"typed:"+events.EventTypeEmployeeOnboarded,
			"all:"+events.EventTypeEmployeeOnboarded,
		))
	})

	It("should not fail when nobody listens", func() {
		err := bus.Publish(context.Background(), events.NewEmployeeDeletedEvent(3))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should keep publishing asynchronously when a handler fails", func() {
		bus.Subscribe(events.AllEvents, func(ctx context.Context, event events.Event) error {
			return errors.New("boom")
		})
		err := bus.Publish(context.Background(), events.NewEmployeeDeletedEvent(3))
		Expect(err).NotTo(HaveOccurred())
		bus.Wait()
	})

	It("should surface handler errors from PublishSync", func() {
		bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) error {
			return errors.New("boom")
		})
		err := bus.PublishSync(context.Background(), events.NewUserCreatedEvent(1, "admin", "Admin"))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(events.EventTypeUserCreated))
	})

	It("should hand handlers a context that outlives the publisher", func() {
		done := make(chan error, 1)
		bus.Subscribe(events.EventTypeEmployeeDeleted, func(ctx context.Context, event events.Event) error {
			done <- ctx.Err()
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewEmployeeDeletedEvent(9))).To(Succeed())
		cancel()
		bus.Wait()

		Eventually(done).Should(Receive(BeNil()))
	})
})

var _ = Describe("HR events", func() {
	It("should stamp ids and UTC timestamps", func() {
		a := events.NewLeaveRequestedEvent(1, 2, "2025-01-01", "2025-01-03")
		b := events.NewLeaveRequestedEvent(1, 2, "2025-01-01", "2025-01-03")

		Expect(a.EventID()).NotTo(BeEmpty())
		Expect(a.EventID()).NotTo(Equal(b.EventID()))
		Expect(a.OccurredAt().Location().String()).To(Equal("UTC"))
		Expect(a.Payload()).To(HaveKeyWithValue("employee", BeEquivalentTo(2)))
	})
})
