// Package app sequences task mutations around gateway calls. It owns the
// session state the views read: the store, the search query, the shared
// error value and the transient markers.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tableflip.dev/todo/pkg/config"
	"tableflip.dev/todo/pkg/gateway"
	"tableflip.dev/todo/pkg/state"
	"tableflip.dev/todo/pkg/task"
)

// Options tunes a Service. Zero delays use the config defaults.
type Options struct {
	Logger         *slog.Logger
	AppearDelay    time.Duration
	DisappearDelay time.Duration
}

// Service provides the task operations shared by the terminal UI, the CLI
// and the MCP server.
type Service struct {
	gw     gateway.Gateway
	store  *state.Store
	logger *slog.Logger
	sched  *scheduler

	appearDelay    time.Duration
	disappearDelay time.Duration

	mu           sync.Mutex
	query        string
	loading      int
	err          error
	errOp        string
	appearing    marker
	disappearing marker
	// removing holds ids already deleted in the backend whose local removal
	// waits for the exit delay.
	removing map[string]struct{}
	gen      uint64
	version      uint64

	changed chan struct{}
}

// marker tags one task id for a transient presentation state. gen identifies
// which scheduling set it, so a stale clear leaves a newer marker alone.
type marker struct {
	id  string
	gen uint64
}

// New wires a Service to g.
func New(g gateway.Gateway, o Options) *Service {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if o.AppearDelay <= 0 {
		o.AppearDelay = config.DefaultDelay
	}
	if o.DisappearDelay <= 0 {
		o.DisappearDelay = config.DefaultDelay
	}
	return &Service{
		gw:             g,
		store:          state.New(logger),
		logger:         logger,
		sched:          newScheduler(),
		appearDelay:    o.AppearDelay,
		disappearDelay: o.DisappearDelay,
		removing:       map[string]struct{}{},
		changed:        make(chan struct{}, 1),
	}
}

// State is a consistent read of everything a view renders.
type State struct {
	Tasks        []task.Task
	Selected     *task.Task
	Query        string
	Loading      bool
	Err          error
	Appearing    string
	Disappearing string
	// Version changes whenever any other field does.
	Version uint64
}

// State returns a snapshot of the session.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.store.Snapshot()
	return State{
		Tasks:        snap.Tasks,
		Selected:     snap.Selected,
		Query:        s.query,
		Loading:      s.loading > 0,
		Err:          s.err,
		Appearing:    s.appearing.id,
		Disappearing: s.disappearing.id,
		Version:      snap.Version + s.version,
	}
}

// Version is the State version without copying the collection.
func (s *Service) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Version() + s.version
}

// Tasks returns the current collection.
func (s *Service) Tasks() []task.Task {
	return s.store.Tasks()
}

// Err is the shared error value of the most recent failed operation.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Changed delivers a value after state changes. Notifications coalesce, so
// a receive means "read State again", not one event per change.
func (s *Service) Changed() <-chan struct{} {
	return s.changed
}

func (s *Service) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// SetQuery sets the search query.
func (s *Service) SetQuery(q string) {
	s.mu.Lock()
	if s.query == q {
		s.mu.Unlock()
		return
	}
	s.query = q
	s.version++
	s.mu.Unlock()
	s.notify()
}

// Query returns the search query.
func (s *Service) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Filtered applies the search query to the collection.
func (s *Service) Filtered() []task.Task {
	return task.Filter(s.store.Tasks(), s.Query())
}

// fail stores err as the shared error value and returns it.
func (s *Service) fail(op, id string, err error) error {
	s.logger.Warn("operation failed",
		slog.String("op", op),
		slog.String("id", id),
		slog.String("error", err.Error()),
	)
	s.mu.Lock()
	s.err = err
	s.errOp = op
	s.version++
	s.mu.Unlock()
	s.notify()
	return err
}

// succeed clears the shared error when it came from the same kind of
// operation.
func (s *Service) succeed(op string) {
	s.mu.Lock()
	if s.err == nil || s.errOp != op {
		s.mu.Unlock()
		return
	}
	s.err = nil
	s.errOp = ""
	s.version++
	s.mu.Unlock()
	s.notify()
}

func (s *Service) setLoading(delta int) {
	s.mu.Lock()
	s.loading += delta
	s.version++
	s.mu.Unlock()
	s.notify()
}

func (s *Service) dispatch(a state.Action) {
	if s.store.Dispatch(a) {
		s.notify()
	}
}

// FetchAll loads the full collection from the backend. On failure the
// collection is left as it was.
func (s *Service) FetchAll(ctx context.Context) error {
	s.setLoading(1)
	tasks, err := s.gw.FetchAll(ctx)
	s.setLoading(-1)
	if err != nil {
		return s.fail(gateway.OpFetchAll, "", err)
	}
	if tasks == nil {
		s.logger.Warn("fetch-all returned no collection, keeping current tasks")
	}
	s.dispatch(state.ReplaceAll{Tasks: tasks})
	s.succeed(gateway.OpFetchAll)
	return nil
}

// FetchOne loads a single task into the selection. On failure the selection
// is cleared.
func (s *Service) FetchOne(ctx context.Context, id string) (task.Task, error) {
	s.setLoading(1)
	t, err := s.gw.FetchOne(ctx, id)
	s.setLoading(-1)
	if err != nil {
		s.store.ClearSelected()
		return task.Task{}, s.fail(gateway.OpFetchOne, id, err)
	}
	s.store.Select(t)
	s.notify()
	s.succeed(gateway.OpFetchOne)
	return t, nil
}

// Add validates text and creates a task. The task enters the collection only
// once the backend has stored it, under the id the backend returned. onDone,
// when set, runs after a successful create.
func (s *Service) Add(ctx context.Context, text string, onDone func()) (task.Task, error) {
	draft, err := task.NewDraft(text)
	if err != nil {
		return task.Task{}, err
	}
	created, err := s.gw.Create(ctx, draft)
	if err != nil {
		return task.Task{}, s.fail(gateway.OpCreate, draft.ID, err)
	}
	s.dispatch(state.AddOne{Task: created})
	if onDone != nil {
		onDone()
	}

	s.mu.Lock()
	s.query = ""
	s.gen++
	gen := s.gen
	s.appearing = marker{id: created.ID, gen: gen}
	s.version++
	s.mu.Unlock()
	s.notify()
	s.succeed(gateway.OpCreate)

	s.sched.After(s.appearDelay, func() {
		s.clearMarker(&s.appearing, gen)
	})
	return created, nil
}

// Toggle flips the completion flag of a task in the collection. The change is
// shown at once and reverted if the backend rejects it.
func (s *Service) Toggle(ctx context.Context, id string) (task.Task, error) {
	current, ok := s.store.Find(id)
	if !ok {
		return task.Task{}, s.fail(gateway.OpSetDone, id, &gateway.NotFoundError{ID: id})
	}
	next := !current.IsDone
	s.dispatch(state.SetCompletion{ID: id, IsDone: next})

	if err := s.gw.SetDone(ctx, id, next); err != nil {
		s.dispatch(state.SetCompletion{ID: id, IsDone: current.IsDone})
		return current, s.fail(gateway.OpSetDone, id, err)
	}
	s.succeed(gateway.OpSetDone)
	current.IsDone = next
	return current, nil
}

// Delete removes a task from the backend, then marks it as disappearing and
// drops it from the collection once the exit delay has passed. On failure
// nothing changes locally.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.gw.Remove(ctx, id); err != nil {
		return s.fail(gateway.OpRemove, id, err)
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.disappearing = marker{id: id, gen: gen}
	s.removing[id] = struct{}{}
	s.version++
	s.mu.Unlock()
	s.notify()
	s.succeed(gateway.OpRemove)

	s.sched.After(s.disappearDelay, func() {
		s.dispatch(state.RemoveOne{ID: id})
		s.mu.Lock()
		delete(s.removing, id)
		s.mu.Unlock()
		s.clearMarker(&s.disappearing, gen)
	})
	return nil
}

// DeleteAll removes every task after c confirms. The collection is emptied
// only when every deletion succeeded; otherwise a *BatchError lists the
// failures and the collection is left untouched. Tasks a Delete already
// removed from the backend are not sent again.
func (s *Service) DeleteAll(ctx context.Context, c Confirmer) error {
	ids := s.batchIDs()
	if len(ids) == 0 {
		return nil
	}
	if c == nil {
		return ErrNotConfirmed
	}
	ok, err := c.Confirm(ctx, len(ids))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotConfirmed
	}

	results := s.gw.RemoveAll(ctx, ids)
	if failed := gateway.Failed(results); len(failed) > 0 {
		return s.fail(gateway.OpRemoveAll, "", &BatchError{Total: len(ids), Failed: failed})
	}
	s.dispatch(state.RemoveAll{})
	s.succeed(gateway.OpRemoveAll)
	return nil
}

// batchIDs lists the collection ids without a pending removal.
func (s *Service) batchIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, id := range task.IDs(s.store.Tasks()) {
		if _, pending := s.removing[id]; !pending {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Service) clearMarker(m *marker, gen uint64) {
	s.mu.Lock()
	if m.gen != gen || m.id == "" {
		s.mu.Unlock()
		return
	}
	*m = marker{}
	s.version++
	s.mu.Unlock()
	s.notify()
}

// Watch refetches the collection whenever the backend reports an external
// change, until ctx ends. A refetch waits for pending delayed transitions, so
// a row keeps its exit delay even when the event came from its own removal.
// It returns ErrWatchUnsupported when the backend cannot report changes.
func (s *Service) Watch(ctx context.Context) error {
	w, ok := gateway.WatcherOf(s.gw)
	if !ok {
		return ErrWatchUnsupported
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			s.logger.Debug("external change", slog.String("path", ev.Path))
			s.sched.Wait()
			if ctx.Err() != nil {
				return
			}
			_ = s.FetchAll(ctx)
		}
	}()
	return nil
}

// Wait blocks until every scheduled marker and removal has run.
func (s *Service) Wait() {
	s.sched.Wait()
}

// Close runs pending delayed transitions immediately. Operations after Close
// still work; their delayed transitions run without delay.
func (s *Service) Close() {
	s.sched.Close()
}
