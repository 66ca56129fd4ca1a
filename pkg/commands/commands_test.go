package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/task"
)

// localEnv points the config at a fresh local store.
func localEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("TODO_CONFIG_PATH", dir)
	t.Setenv("TODO_BACKEND", "local")
	t.Setenv("TODO_LOCAL_PATH", dir)
	t.Setenv("TODO_LOCAL_LATENCY", "0s")
	t.Setenv("TODO_UI_DISAPPEAR_DELAY", "1ms")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func listJSON(t *testing.T) []task.Task {
	t.Helper()
	out, err := execute(t, "list", "-o", "json")
	require.NoError(t, err)
	var tasks []task.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	return tasks
}

func TestAddListToggleDelete(t *testing.T) {
	localEnv(t)

	out, err := execute(t, "add", "buy", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "buy milk")

	_, err = execute(t, "add", "walk dog")
	require.NoError(t, err)

	tasks := listJSON(t)
	require.Len(t, tasks, 2)
	milk := tasks[0]
	assert.Equal(t, "buy milk", milk.Text)
	assert.False(t, milk.IsDone)

	out, err = execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Done 0 from 2")

	_, err = execute(t, "done", milk.ID)
	require.NoError(t, err)

	out, err = execute(t, "get", milk.ID, "-o", "json")
	require.NoError(t, err)
	var got task.Task
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.IsDone)

	out, err = execute(t, "list", "--query", "DOG")
	require.NoError(t, err)
	assert.Contains(t, out, "walk dog")
	assert.NotContains(t, out, "buy milk")

	_, err = execute(t, "rm", milk.ID)
	require.NoError(t, err)
	tasks = listJSON(t)
	require.Len(t, tasks, 1)
	assert.Equal(t, "walk dog", tasks[0].Text)
}

func TestAddRejectsBlankText(t *testing.T) {
	localEnv(t)

	_, err := execute(t, "add", "   ")
	assert.ErrorIs(t, err, task.ErrEmptyText)
	assert.Empty(t, listJSON(t))
}

func TestGetUnknownIDAsJSON(t *testing.T) {
	localEnv(t)

	out, err := execute(t, "get", "nope", "-o", "json")
	assert.ErrorIs(t, err, options.ErrReported)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "task not found", body["error"])
}

func TestClear(t *testing.T) {
	localEnv(t)
	_, err := execute(t, "add", "one")
	require.NoError(t, err)
	_, err = execute(t, "add", "two")
	require.NoError(t, err)

	// go test does not give the process a terminal on stdin.
	_, err = execute(t, "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Len(t, listJSON(t), 2)

	_, err = execute(t, "clear", "--yes")
	require.NoError(t, err)
	assert.Empty(t, listJSON(t))
}

func TestInvalidInput(t *testing.T) {
	localEnv(t)

	tests := map[string][]string{
		"unknown output": {"list", "-o", "xml"},
		"missing id":     {"get"},
		"extra args":     {"toggle", "1", "2"},
		"missing text":   {"add"},
		"bad backend":    {"--backend", "cloud", "list"},
		"bad transport":  {"mcp", "--transport", "carrier-pigeon"},
		"bad port":       {"mcp", "--http-port", "70000"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestBackendFlagOverridesEnv(t *testing.T) {
	localEnv(t)
	t.Setenv("TODO_BACKEND", "remote")
	t.Setenv("TODO_REMOTE_URL", "http://127.0.0.1:1/todos")

	out, err := execute(t, "--backend", "local", "info", "-o", "json")
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "local", summary["backend"])
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestIDCompletions(t *testing.T) {
	got := idCompletions([]task.Task{{ID: "1", Text: "buy milk"}})
	assert.Equal(t, []string{"1\tbuy milk"}, got)
}
