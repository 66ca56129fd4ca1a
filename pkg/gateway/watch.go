package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchCoalesce groups bursts of filesystem activity into one event.
const watchCoalesce = 100 * time.Millisecond

// Watch streams an Event whenever the slot file changes on disk, until ctx is
// cancelled. Writes made by this process are reported too; callers treat
// every event as "refetch". Events are dropped while the consumer is busy
// since one pending refetch covers any number of changes.
func (l *Local) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("gateway: create watcher: %w", err)
	}
	if err := watcher.Add(l.basePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("gateway: watch %s: %w", l.basePath, err)
	}

	events := make(chan Event, 1)
	slot := l.SlotPath()

	go func() {
		defer close(events)
		defer func() {
			if err := watcher.Close(); err != nil {
				l.logger.Warn("watcher close", slog.String("error", err.Error()))
			}
		}()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}
		throttle := newEventThrottle(watchCoalesce)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("watcher error", slog.String("error", err.Error()))
				throttle.Enqueue(Event{Path: slot}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != slot {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				throttle.Enqueue(Event{Path: slot}, send)
			}
		}
	}()

	return events, nil
}

// eventThrottle delays delivery so a burst of writes yields one event.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending *Event
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{delay: delay}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending = &ev
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := t.pending
	t.pending = nil
	t.timer = nil
	// send never blocks, and holding the lock keeps it ordered before Stop.
	if pending != nil && !t.stopped {
		send(*pending)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
