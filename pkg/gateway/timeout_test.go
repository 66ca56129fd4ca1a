package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/todo/pkg/gateway"
	"tableflip.dev/todo/pkg/gateway/gatewaytest"
	"tableflip.dev/todo/pkg/task"
)

func TestWithTimeout_ExpiredCallIsTimeoutError(t *testing.T) {
	fake := gatewaytest.New(task.Task{ID: "a", Text: "milk"})
	release := fake.Hold(gateway.OpSetDone)
	defer release()

	g := gateway.WithTimeout(fake, 20*time.Millisecond)
	err := g.SetDone(context.Background(), "a", true)

	var te *gateway.TimeoutError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, gateway.OpSetDone, te.Op)
	assert.Equal(t, "a", te.ID)
	assert.ErrorIs(t, err, gateway.ErrTimeout)
	assert.ErrorIs(t, err, gateway.ErrTransport)
	assert.Equal(t, "set-done timed out", gateway.Message(err))
}

func TestWithTimeout_PassesThroughOtherErrors(t *testing.T) {
	fake := gatewaytest.New()
	g := gateway.WithTimeout(fake, time.Second)

	err := g.Remove(context.Background(), "missing")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.NotErrorIs(t, err, gateway.ErrTimeout)

	got, err := g.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWithTimeout_RemoveAllSharesDeadline(t *testing.T) {
	fake := gatewaytest.New(task.Task{ID: "a"}, task.Task{ID: "b"})
	release := fake.Hold(gateway.OpRemove)
	defer release()

	g := gateway.WithTimeout(fake, 20*time.Millisecond)
	results := g.RemoveAll(context.Background(), []string{"a", "b"})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, gateway.ErrTimeout, r.ID)
	}
}

func TestWithTimeout_NonPositiveIsIdentity(t *testing.T) {
	fake := gatewaytest.New()
	assert.Same(t, fake, gateway.WithTimeout(fake, 0))
}
