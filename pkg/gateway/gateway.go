// Package gateway is the persistence contract for the task collection and its
// two interchangeable backends: a REST service and an on-disk key-value slot.
package gateway

import (
	"context"

	"tableflip.dev/todo/pkg/task"
)

// Operation names used in errors, logs and metrics.
const (
	OpFetchAll  = "fetch-all"
	OpFetchOne  = "fetch-one"
	OpCreate    = "create"
	OpSetDone   = "set-done"
	OpRemove    = "remove"
	OpRemoveAll = "remove-all"
)

// Gateway reads and writes the task collection against one backend.
type Gateway interface {
	// FetchAll returns a snapshot of the full collection. A nil slice means
	// the backend answered with something that was not a collection.
	FetchAll(ctx context.Context) ([]task.Task, error)
	// FetchOne returns a single task, or a *NotFoundError.
	FetchOne(ctx context.Context, id string) (task.Task, error)
	// Create persists a draft and returns the stored task, whose id is
	// authoritative.
	Create(ctx context.Context, draft task.Draft) (task.Task, error)
	// SetDone persists a completion flag change.
	SetDone(ctx context.Context, id string, isDone bool) error
	// Remove deletes one task.
	Remove(ctx context.Context, id string) error
	// RemoveAll deletes every id and reports the outcome per id, in the
	// order the ids were given.
	RemoveAll(ctx context.Context, ids []string) []Result
}

// Result is the outcome of one deletion within a batch.
type Result struct {
	ID  string
	Err error
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Event signals that the stored collection changed outside this process.
type Event struct {
	Path string
}

// Watcher is implemented by backends that can report external changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Wrapper is implemented by decorators so capabilities of the wrapped backend
// stay discoverable.
type Wrapper interface {
	Unwrap() Gateway
}

// WatcherOf finds a Watcher in g or anything g wraps.
func WatcherOf(g Gateway) (Watcher, bool) {
	for g != nil {
		if w, ok := g.(Watcher); ok {
			return w, true
		}
		u, ok := g.(Wrapper)
		if !ok {
			return nil, false
		}
		g = u.Unwrap()
	}
	return nil, false
}
