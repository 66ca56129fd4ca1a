// Package gatewaytest provides an in-memory gateway for tests of the layers
// above the persistence contract.
package gatewaytest

import (
	"context"
	"sync"

	"tableflip.dev/todo/pkg/gateway"
	"tableflip.dev/todo/pkg/task"
)

// Call records one invocation on the fake.
type Call struct {
	Op     string
	ID     string
	IsDone bool
}

// Fake is a goroutine-safe Gateway backed by a slice. Failures and holds are
// scripted per operation and id.
type Fake struct {
	mu     sync.Mutex
	tasks  []task.Task
	calls  []Call
	fail   map[key]error
	gates  map[string]chan struct{}
	nextID func(task.Draft) string
}

type key struct {
	op string
	id string
}

// New returns a fake holding tasks.
func New(tasks ...task.Task) *Fake {
	return &Fake{
		tasks: task.Clone(tasks),
		fail:  map[key]error{},
		gates: map[string]chan struct{}{},
	}
}

// WithServerIDs makes Create assign ids through fn instead of keeping the
// draft id.
func (f *Fake) WithServerIDs(fn func(task.Draft) string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID = fn
	return f
}

// FailOn makes op on id fail with err. An empty id matches every id. A nil
// err clears the failure.
func (f *Fake) FailOn(op, id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, key{op, id})
		return
	}
	f.fail[key{op, id}] = err
}

// Hold blocks every later call of op until the returned release is called or
// the call's context ends.
func (f *Fake) Hold(op string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[op] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.gates[op] == ch {
				delete(f.gates, op)
			}
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns the recorded invocations in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount counts invocations of op.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Snapshot returns the stored collection.
func (f *Fake) Snapshot() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return task.Clone(f.tasks)
}

// Set replaces the stored collection, as another client would.
func (f *Fake) Set(tasks ...task.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = task.Clone(tasks)
}

// enter records the call, waits on any hold and returns the scripted error.
func (f *Fake) enter(ctx context.Context, c Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	gate := f.gates[c.Op]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return &gateway.TransportError{Op: c.Op, ID: c.ID, Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[key{c.Op, c.ID}]; ok {
		return err
	}
	if err, ok := f.fail[key{c.Op, ""}]; ok {
		return err
	}
	return nil
}

func (f *Fake) index(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (f *Fake) FetchAll(ctx context.Context) ([]task.Task, error) {
	if err := f.enter(ctx, Call{Op: gateway.OpFetchAll}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := task.Clone(f.tasks)
	if out == nil {
		out = []task.Task{}
	}
	return out, nil
}

func (f *Fake) FetchOne(ctx context.Context, id string) (task.Task, error) {
	if err := f.enter(ctx, Call{Op: gateway.OpFetchOne, ID: id}); err != nil {
		return task.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.index(id); i >= 0 {
		return f.tasks[i], nil
	}
	return task.Task{}, &gateway.NotFoundError{ID: id}
}

func (f *Fake) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	if err := f.enter(ctx, Call{Op: gateway.OpCreate, ID: draft.ID}); err != nil {
		return task.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := draft.Task()
	if f.nextID != nil {
		created.ID = f.nextID(draft)
	}
	f.tasks = append(f.tasks, created)
	return created, nil
}

func (f *Fake) SetDone(ctx context.Context, id string, isDone bool) error {
	if err := f.enter(ctx, Call{Op: gateway.OpSetDone, ID: id, IsDone: isDone}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return &gateway.NotFoundError{ID: id}
	}
	f.tasks[i].IsDone = isDone
	return nil
}

func (f *Fake) Remove(ctx context.Context, id string) error {
	if err := f.enter(ctx, Call{Op: gateway.OpRemove, ID: id}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return &gateway.NotFoundError{ID: id}
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// RemoveAll removes ids one at a time, so FailOn(OpRemove, id, err) fails
// single entries of a batch.
func (f *Fake) RemoveAll(ctx context.Context, ids []string) []gateway.Result {
	results := make([]gateway.Result, len(ids))
	for i, id := range ids {
		results[i] = gateway.Result{ID: id, Err: f.Remove(ctx, id)}
	}
	return results
}

var _ gateway.Gateway = (*Fake)(nil)
