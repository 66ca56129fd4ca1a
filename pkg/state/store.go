package state

import (
	"log/slog"
	"slices"
	"sync"

	"tableflip.dev/todo/pkg/task"
)

// Store holds the task collection and the selected task. Reads return copies;
// writes go through Dispatch.
type Store struct {
	mu       sync.RWMutex
	tasks    []task.Task
	selected *task.Task
	version  uint64
	logger   *slog.Logger
}

// New returns an empty store. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{tasks: []task.Task{}, logger: logger}
}

// Dispatch applies a atomically and reports whether the collection changed.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Reduce(s.tasks, a)
	if sameTasks(s.tasks, next) {
		if a != nil {
			s.logger.Debug("action ignored", slog.String("action", a.Describe()))
		}
		return false
	}
	s.tasks = next
	s.version++
	s.logger.Debug("action applied",
		slog.String("action", a.Describe()),
		slog.Int("count", len(next)),
	)
	return true
}

// Tasks returns a copy of the collection.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return task.Clone(s.tasks)
}

// Find looks a task up by id.
func (s *Store) Find(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return task.Find(s.tasks, id)
}

// Selected returns the task held for the detail view.
func (s *Store) Selected() (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return task.Task{}, false
	}
	return *s.selected, true
}

// Select holds t for the detail view. It does not need to be in the
// collection.
func (s *Store) Select(t task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &t
	s.version++
}

// ClearSelected drops the selected task.
func (s *Store) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return
	}
	s.selected = nil
	s.version++
}

// Version increases on every change to the collection or selection.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot is a consistent read of the store.
type Snapshot struct {
	Tasks    []task.Task
	Selected *task.Task
	Version  uint64
}

// Snapshot reads everything under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Tasks: task.Clone(s.tasks), Version: s.version}
	if s.selected != nil {
		sel := *s.selected
		snap.Selected = &sel
	}
	return snap
}

func sameTasks(a, b []task.Task) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return slices.Equal(a, b)
}
