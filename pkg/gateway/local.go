package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/todo/pkg/task"
)

// SlotKey is the single key under which the local backend keeps the whole
// collection.
const SlotKey = "tasks"

// Local keeps the collection as one JSON array in a diskv slot. Every
// operation reads the array, changes it and writes it back.
type Local struct {
	d        *diskv.Diskv
	basePath string
	latency  time.Duration
	logger   *slog.Logger

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewLocal opens (creating if needed) the slot directory at basePath. latency
// is waited before every operation.
func NewLocal(basePath string, latency time.Duration, logger *slog.Logger) (*Local, error) {
	if basePath == "" {
		return nil, errors.New("gateway: local path required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("gateway: ensure local path: %w", err)
	}
	return &Local{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			TempDir:           filepath.Join(basePath, ".tmp"),
			AdvancedTransform: slotTransform,
			InverseTransform:  slotInverseTransform,
			// No cache: other processes write the same slot.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		latency:  latency,
		logger:   logger,
	}, nil
}

func slotTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{}, FileName: key}
}

func slotInverseTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}

// SlotPath is the file holding the collection.
func (l *Local) SlotPath() string {
	return filepath.Join(l.basePath, SlotKey)
}

func (l *Local) delay(ctx context.Context) error {
	if l.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(l.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// read loads the slot. Missing or unreadable data is an empty collection.
func (l *Local) read() []task.Task {
	if !l.d.Has(SlotKey) {
		return []task.Task{}
	}
	data, err := l.d.Read(SlotKey)
	if err != nil {
		l.logger.Warn("local slot unreadable, treating as empty", slog.String("error", err.Error()))
		return []task.Task{}
	}
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		l.logger.Warn("local slot corrupt, treating as empty", slog.String("error", err.Error()))
		return []task.Task{}
	}
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}

func (l *Local) write(tasks []task.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return l.d.Write(SlotKey, data)
}

// update runs fn over the current collection and persists what it returns.
func (l *Local) update(ctx context.Context, op, id string, fn func([]task.Task) ([]task.Task, error)) error {
	if err := l.delay(ctx); err != nil {
		return &TransportError{Op: op, ID: id, Err: err}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	next, err := fn(l.read())
	if err != nil {
		return err
	}
	if err := l.write(next); err != nil {
		return &TransportError{Op: op, ID: id, Err: fmt.Errorf("write slot: %w", err)}
	}
	return nil
}

func (l *Local) FetchAll(ctx context.Context) ([]task.Task, error) {
	if err := l.delay(ctx); err != nil {
		return nil, &TransportError{Op: OpFetchAll, Err: err}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(), nil
}

func (l *Local) FetchOne(ctx context.Context, id string) (task.Task, error) {
	if err := l.delay(ctx); err != nil {
		return task.Task{}, &TransportError{Op: OpFetchOne, ID: id, Err: err}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := task.Find(l.read(), id); ok {
		return t, nil
	}
	return task.Task{}, &NotFoundError{ID: id}
}

// Create stores the draft. The draft id is kept unless it is empty or already
// used, in which case a fresh one is assigned.
func (l *Local) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	var created task.Task
	err := l.update(ctx, OpCreate, draft.ID, func(tasks []task.Task) ([]task.Task, error) {
		created = draft.Task()
		if _, taken := task.Find(tasks, created.ID); created.ID == "" || taken {
			created.ID = task.NewID()
		}
		return append(tasks, created), nil
	})
	if err != nil {
		return task.Task{}, err
	}
	return created, nil
}

func (l *Local) SetDone(ctx context.Context, id string, isDone bool) error {
	return l.update(ctx, OpSetDone, id, func(tasks []task.Task) ([]task.Task, error) {
		for i := range tasks {
			if tasks[i].ID == id {
				tasks[i].IsDone = isDone
				return tasks, nil
			}
		}
		return nil, &NotFoundError{ID: id}
	})
}

func (l *Local) Remove(ctx context.Context, id string) error {
	return l.update(ctx, OpRemove, id, func(tasks []task.Task) ([]task.Task, error) {
		for i := range tasks {
			if tasks[i].ID == id {
				return append(tasks[:i], tasks[i+1:]...), nil
			}
		}
		return nil, &NotFoundError{ID: id}
	})
}

// RemoveAll deletes the ids in one read-modify-write. Ids missing from the
// slot fail individually; the rest are removed.
func (l *Local) RemoveAll(ctx context.Context, ids []string) []Result {
	results := make([]Result, len(ids))
	for i, id := range ids {
		results[i] = Result{ID: id}
	}
	err := l.update(ctx, OpRemoveAll, "", func(tasks []task.Task) ([]task.Task, error) {
		drop := make(map[string]bool, len(ids))
		for _, t := range tasks {
			drop[t.ID] = false
		}
		for i, id := range ids {
			if _, ok := drop[id]; !ok {
				results[i].Err = &NotFoundError{ID: id}
				continue
			}
			drop[id] = true
		}
		kept := tasks[:0]
		for _, t := range tasks {
			if !drop[t.ID] {
				kept = append(kept, t)
			}
		}
		return kept, nil
	})
	if err != nil {
		for i := range results {
			results[i].Err = err
		}
	}
	return results
}
