package info

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/config"
	"tableflip.dev/todo/pkg/gateway"
	"tableflip.dev/todo/pkg/gateway/gatewaytest"
	"tableflip.dev/todo/pkg/task"
)

func init() {
	color.NoColor = true
}

func TestInfo(t *testing.T) {
	t.Setenv("TODO_CONFIG_PATH", "")
	fake := gatewaytest.New(task.Task{ID: "1", Text: "a", IsDone: true}, task.Task{ID: "2", Text: "b"})
	svc := app.New(fake, app.Options{})
	defer svc.Close()
	cfg := &config.Config{Backend: config.BackendLocal, Local: config.LocalConfig{Path: "/tmp/todo.db"}}

	var buf bytes.Buffer
	require.NoError(t, (&Info{Config: cfg, Service: svc, Out: &buf}).Do(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "/tmp/todo.db")
	assert.Contains(t, out, "Done 1 from 2")
	assert.Contains(t, out, "none")

	buf.Reset()
	require.NoError(t, (&Info{Config: cfg, Service: svc, Out: &buf, Output: "yaml"}).Do(context.Background()))
	var s Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &s))
	assert.Equal(t, "local", s.Backend)
	assert.Equal(t, app.Report{Total: 2, Done: 1, Open: 1}, s.Tasks)
}

func TestInfo_UnreachableBackend(t *testing.T) {
	fake := gatewaytest.New()
	fake.FailOn(gateway.OpFetchAll, "", &gateway.TransportError{Op: gateway.OpFetchAll})
	svc := app.New(fake, app.Options{})
	defer svc.Close()
	cfg := &config.Config{Backend: config.BackendRemote, Remote: config.RemoteConfig{URL: "http://x/todos"}}

	var buf bytes.Buffer
	require.NoError(t, (&Info{Config: cfg, Service: svc, Out: &buf}).Do(context.Background()))
	assert.Contains(t, buf.String(), "network problems")
	assert.Contains(t, buf.String(), "http://x/todos")
}
