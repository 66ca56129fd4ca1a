package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/todo/pkg/task"
)

func TestLocal_WatchReportsSlotWrites(t *testing.T) {
	dir := t.TempDir()
	watched, err := NewLocal(dir, 0, nil)
	require.NoError(t, err)
	writer, err := NewLocal(dir, 0, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := watched.Watch(ctx)
	require.NoError(t, err)

	_, err = writer.Create(context.Background(), task.Draft{ID: "a", Text: "milk"})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, watched.SlotPath(), ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for slot write")
	}

	cancel()
	for range events {
	}
}

func TestWatcherOf_UnwrapsDecorators(t *testing.T) {
	l := newTestLocal(t)
	m, err := NewMetrics(nil)
	require.NoError(t, err)

	g := Instrument(WithTimeout(l, time.Second), m)
	w, ok := WatcherOf(g)
	require.True(t, ok)
	assert.Same(t, l, w)

	r := Instrument(NewRemote("http://localhost"), m)
	_, ok = WatcherOf(r)
	assert.False(t, ok)
}

func TestEventThrottle_Coalesces(t *testing.T) {
	var mu sync.Mutex
	var got []Event
	send := func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
	}

	th := newEventThrottle(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Path: "slot"}, send)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Len(t, got, 1)
	mu.Unlock()
}

func TestEventThrottle_StopDropsPending(t *testing.T) {
	sent := make(chan Event, 1)
	th := newEventThrottle(20 * time.Millisecond)
	th.Enqueue(Event{Path: "slot"}, func(ev Event) { sent <- ev })
	th.Stop()

	select {
	case <-sent:
		t.Fatal("event sent after Stop")
	case <-time.After(60 * time.Millisecond):
	}
}
