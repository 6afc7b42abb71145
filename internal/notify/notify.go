// Package notify publishes trip activity events.
//
// Events are fire-and-forget: a failed notification is logged and never
// fails the write that caused it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Kind identifies what happened in a trip.
type Kind string

const (
	KindExpenseAdded   Kind = "expense_added"
	KindExpenseUpdated Kind = "expense_updated"
	KindExpenseDeleted Kind = "expense_deleted"
	KindMemberAdded    Kind = "member_added"
	KindSettlement     Kind = "settlement"
	KindTripUpdate     Kind = "trip_update"
)

const (
	// QueueDefault is the queue trip events are enqueued on.
	QueueDefault = "default"
	// TaskTripEvent is the asynq task type carrying an Event.
	TaskTripEvent = "trip:event"
)

// Event is one piece of trip activity.
type Event struct {
	Kind    Kind   `json:"kind"`
	TripID  string `json:"tripId"`
	ActorID string `json:"actorId,omitempty"`
	// SubjectID is the expense, member or payment the event is about.
	SubjectID string `json:"subjectId,omitempty"`
	Message   string `json:"message"`
	At        int64  `json:"at"`
}

// Notifier delivers trip events.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// NewEvent stamps an event with the current time.
func NewEvent(kind Kind, tripID, actorID, subjectID, message string) Event {
	return Event{
		Kind:      kind,
		TripID:    tripID,
		ActorID:   actorID,
		SubjectID: subjectID,
		Message:   message,
		At:        time.Now().Unix(),
	}
}

// LogNotifier only logs events. It is used when no queue is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, event Event) {
	logEvent("Trip event", event)
}

func logEvent(msg string, event Event) {
	slog.Info(msg,
		"kind", event.Kind,
		"trip_id", event.TripID,
		"actor_id", event.ActorID,
		"subject_id", event.SubjectID,
		"message", event.Message,
	)
}

// NewTripEventTask constructs an asynq task for the event.
func NewTripEventTask(event Event) (*asynq.Task, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTripEvent, data, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier enqueues events for the worker to deliver.
type AsynqNotifier struct {
	client Enqueuer
}

// NewAsynqNotifier creates a notifier backed by an asynq client.
func NewAsynqNotifier(client Enqueuer) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) Notify(ctx context.Context, event Event) {
	task, err := NewTripEventTask(event)
	if err != nil {
		slog.Error("Failed to build trip event task", "kind", event.Kind, "trip_id", event.TripID, "error", err)
		return
	}
	// Detached so a cancelled request still gets its notification queued.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := n.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		slog.Warn("Failed to enqueue trip event", "kind", event.Kind, "trip_id", event.TripID, "error", err)
	}
}

// HandleTripEventTask processes TaskTripEvent tasks. Delivery channels (push,
// email) live outside this service; the worker records each event.
func HandleTripEventTask(_ context.Context, t *asynq.Task) error {
	var event Event
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return fmt.Errorf("decode trip event: %v: %w", err, asynq.SkipRetry)
	}
	logEvent("Delivered trip event", event)
	return nil
}
