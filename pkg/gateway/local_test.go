package gateway

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/todo/pkg/task"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir(), 0, nil)
	require.NoError(t, err)
	return l
}

func TestLocal_EmptySlot(t *testing.T) {
	l := newTestLocal(t)

	got, err := l.FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLocal_CorruptSlotReadsEmpty(t *testing.T) {
	l := newTestLocal(t)
	require.NoError(t, os.WriteFile(l.SlotPath(), []byte("{not json"), 0o644))

	got, err := l.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	// A write over a corrupt slot starts a fresh collection.
	created, err := l.Create(context.Background(), task.Draft{ID: "a", Text: "milk"})
	require.NoError(t, err)
	got, err = l.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []task.Task{created}, got)
}

func TestLocal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	a, err := l.Create(ctx, task.Draft{ID: "a", Text: "milk"})
	require.NoError(t, err)
	assert.Equal(t, task.Task{ID: "a", Text: "milk"}, a)
	b, err := l.Create(ctx, task.Draft{ID: "b", Text: "eggs"})
	require.NoError(t, err)

	require.NoError(t, l.SetDone(ctx, "a", true))

	one, err := l.FetchOne(ctx, "a")
	require.NoError(t, err)
	assert.True(t, one.IsDone)

	require.NoError(t, l.Remove(ctx, "a"))
	got, err := l.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []task.Task{b}, got)
}

func TestLocal_CreateReassignsTakenOrEmptyID(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	_, err := l.Create(ctx, task.Draft{ID: "a", Text: "one"})
	require.NoError(t, err)

	dup, err := l.Create(ctx, task.Draft{ID: "a", Text: "two"})
	require.NoError(t, err)
	assert.NotEqual(t, "a", dup.ID)
	assert.Equal(t, "two", dup.Text)

	blank, err := l.Create(ctx, task.Draft{Text: "three"})
	require.NoError(t, err)
	assert.NotEmpty(t, blank.ID)

	got, err := l.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestLocal_NotFound(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)

	_, err := l.FetchOne(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, l.SetDone(ctx, "nope", true), ErrNotFound)
	assert.ErrorIs(t, l.Remove(ctx, "nope"), ErrNotFound)
}

func TestLocal_RemoveAll(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)
	for _, id := range []string{"a", "b", "c"} {
		_, err := l.Create(ctx, task.Draft{ID: id, Text: id})
		require.NoError(t, err)
	}

	results := l.RemoveAll(ctx, []string{"a", "x", "c"})
	require.Len(t, results, 3)
	assert.Equal(t, []string{"a", "x", "c"}, []string{results[0].ID, results[1].ID, results[2].ID})
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrNotFound)
	assert.NoError(t, results[2].Err)

	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "x", failed[0].ID)

	got, err := l.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, task.IDs(got))
}

func TestLocal_LatencyHonoursContext(t *testing.T) {
	l, err := NewLocal(t.TempDir(), time.Second, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = l.FetchAll(ctx)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.ErrorIs(t, err, ErrTransport)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestLocal_SharedSlot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	one, err := NewLocal(dir, 0, nil)
	require.NoError(t, err)
	two, err := NewLocal(dir, 0, nil)
	require.NoError(t, err)

	_, err = one.Create(ctx, task.Draft{ID: "a", Text: "milk"})
	require.NoError(t, err)

	got, err := two.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, task.IDs(got))
}

func TestNewLocal_RequiresPath(t *testing.T) {
	_, err := NewLocal("", 0, nil)
	assert.Error(t, err)
}
