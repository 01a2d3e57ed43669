package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/events"
)

// Entry is one recorded domain event.
type Entry struct {
	EventID    string                 `bson:"event_id"`
	Type       string                 `bson:"type"`
	OccurredAt time.Time              `bson:"occurred_at"`
	RecordedAt time.Time              `bson:"recorded_at"`
	ActorID    *int64                 `bson:"actor_id,omitempty"`
	ActorRole  string                 `bson:"actor_role,omitempty"`
	Data       map[string]interface{} `bson:"data"`
}

type Store interface {
	Insert(ctx context.Context, entry Entry) error
}

// Recorder writes every bus event to the audit store.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Recorder) Register(bus *events.EventBus) {
	bus.Subscribe(events.AllEvents, r.Handle)
}

func (r *Recorder) Handle(ctx context.Context, event events.Event) error {
	entry := Entry{
		EventID:    event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.OccurredAt().UTC(),
		RecordedAt: r.now().UTC(),
		Data:       map[string]interface{}{},
	}
	if data, ok := event.Payload().(map[string]interface{}); ok && data != nil {
		entry.Data = data
	}
	if p, ok := internal.PrincipalFromContext(ctx); ok {
		id := p.UserID
		entry.ActorID = &id
		entry.ActorRole = p.Role
	}

	if err := r.store.Insert(ctx, entry); err != nil {
		r.logger.Error("audit insert failed", "event_id", entry.EventID, "event_type", entry.Type, "error", err)
		return err
	}
	return nil
}
