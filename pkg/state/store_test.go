package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/todo/pkg/task"
)

func TestStore_Dispatch(t *testing.T) {
	s := New(nil)
	assert.Empty(t, s.Tasks())
	assert.Zero(t, s.Version())

	assert.True(t, s.Dispatch(ReplaceAll{Tasks: []task.Task{milk, dog}}))
	assert.Equal(t, uint64(1), s.Version())

	assert.False(t, s.Dispatch(AddOne{Task: milk}), "duplicate id")
	assert.False(t, s.Dispatch(ReplaceAll{}), "malformed payload")
	assert.False(t, s.Dispatch(nil))
	assert.Equal(t, uint64(1), s.Version())

	assert.True(t, s.Dispatch(SetCompletion{ID: "1", IsDone: true}))
	got, ok := s.Find("1")
	require.True(t, ok)
	assert.True(t, got.IsDone)

	assert.True(t, s.Dispatch(RemoveAll{}))
	assert.Empty(t, s.Tasks())
	assert.False(t, s.Dispatch(RemoveAll{}))
}

func TestStore_TasksIsACopy(t *testing.T) {
	s := New(nil)
	s.Dispatch(ReplaceAll{Tasks: []task.Task{milk}})

	got := s.Tasks()
	got[0].Text = "changed"

	again, _ := s.Find("1")
	assert.Equal(t, "buy milk", again.Text)
}

func TestStore_Selected(t *testing.T) {
	s := New(nil)
	_, ok := s.Selected()
	assert.False(t, ok)

	s.Select(dog)
	got, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, dog, got)
	assert.Empty(t, s.Tasks(), "selection is independent of the collection")

	v := s.Version()
	s.ClearSelected()
	_, ok = s.Selected()
	assert.False(t, ok)
	assert.Greater(t, s.Version(), v)

	snap := s.Snapshot()
	assert.Nil(t, snap.Selected)
	assert.Equal(t, s.Version(), snap.Version)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(AddOne{Task: task.Task{ID: string(rune('a' + i%26)), Text: "x"}})
			_ = s.Tasks()
		}(i)
	}
	wg.Wait()

	ids := task.IDs(s.Tasks())
	assert.Len(t, ids, 26)
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}
