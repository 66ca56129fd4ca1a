package gateway

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/todo/pkg/task"
)

// WithTimeout bounds every call on g by d. A call cut off by the deadline
// fails with *TimeoutError. A non-positive d returns g unchanged.
func WithTimeout(g Gateway, d time.Duration) Gateway {
	if d <= 0 {
		return g
	}
	return &timeoutGateway{next: g, after: d}
}

type timeoutGateway struct {
	next  Gateway
	after time.Duration
}

func (t *timeoutGateway) Unwrap() Gateway { return t.next }

func (t *timeoutGateway) wrap(ctx context.Context, op, id string, err error) error {
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Op: op, ID: id, After: t.after}
	}
	return err
}

func (t *timeoutGateway) FetchAll(ctx context.Context) ([]task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, t.after)
	defer cancel()
	tasks, err := t.next.FetchAll(ctx)
	return tasks, t.wrap(ctx, OpFetchAll, "", err)
}

func (t *timeoutGateway) FetchOne(ctx context.Context, id string) (task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, t.after)
	defer cancel()
	got, err := t.next.FetchOne(ctx, id)
	return got, t.wrap(ctx, OpFetchOne, id, err)
}

func (t *timeoutGateway) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, t.after)
	defer cancel()
	got, err := t.next.Create(ctx, draft)
	return got, t.wrap(ctx, OpCreate, draft.ID, err)
}

func (t *timeoutGateway) SetDone(ctx context.Context, id string, isDone bool) error {
	ctx, cancel := context.WithTimeout(ctx, t.after)
	defer cancel()
	return t.wrap(ctx, OpSetDone, id, t.next.SetDone(ctx, id, isDone))
}

func (t *timeoutGateway) Remove(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, t.after)
	defer cancel()
	return t.wrap(ctx, OpRemove, id, t.next.Remove(ctx, id))
}

// RemoveAll gives the whole batch one deadline.
func (t *timeoutGateway) RemoveAll(ctx context.Context, ids []string) []Result {
	ctx, cancel := context.WithTimeout(ctx, t.after)
	defer cancel()
	results := t.next.RemoveAll(ctx, ids)
	for i := range results {
		results[i].Err = t.wrap(ctx, OpRemove, results[i].ID, results[i].Err)
	}
	return results
}
