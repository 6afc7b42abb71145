package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault, Type: task.Type()}, nil
}

func TestAsynqNotifierEnqueuesEvent(t *testing.T) {
	fake := &fakeEnqueuer{}
	n := NewAsynqNotifier(fake)

	n.Notify(context.Background(), NewEvent(KindExpenseAdded, "trip-1", "user-1", "exp-1", "Dinner added"))

	require.Len(t, fake.tasks, 1)
	assert.Equal(t, TaskTripEvent, fake.tasks[0].Type())

	var got Event
	require.NoError(t, json.Unmarshal(fake.tasks[0].Payload(), &got))
	assert.Equal(t, KindExpenseAdded, got.Kind)
	assert.Equal(t, "trip-1", got.TripID)
	assert.NotZero(t, got.At)
}

func TestAsynqNotifierSwallowsErrors(t *testing.T) {
	n := NewAsynqNotifier(&fakeEnqueuer{err: errors.New("redis down")})
	// Must not panic or block.
	n.Notify(context.Background(), NewEvent(KindSettlement, "trip-1", "", "", "Bob paid Alice"))
}

func TestHandleTripEventTask(t *testing.T) {
	task, err := NewTripEventTask(NewEvent(KindMemberAdded, "trip-1", "user-1", "m-1", "Carol joined"))
	require.NoError(t, err)
	assert.NoError(t, HandleTripEventTask(context.Background(), task))

	bad := asynq.NewTask(TaskTripEvent, []byte("{not json"))
	err = HandleTripEventTask(context.Background(), bad)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
