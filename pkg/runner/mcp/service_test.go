package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/gateway"
	"tableflip.dev/todo/pkg/gateway/gatewaytest"
	"tableflip.dev/todo/pkg/task"
)

func newTestService(t *testing.T, tasks ...task.Task) (*Service, *gatewaytest.Fake) {
	t.Helper()
	fake := gatewaytest.New(tasks...)
	a := app.New(fake, app.Options{AppearDelay: time.Millisecond, DisappearDelay: time.Millisecond})
	t.Cleanup(a.Close)
	return NewService(a), fake
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestServiceListTasks(t *testing.T) {
	svc, _ := newTestService(t,
		task.Task{ID: "1", Text: "buy milk"},
		task.Task{ID: "2", Text: "walk dog", IsDone: true},
	)

	all, err := svc.ListTasks(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)
	assert.Equal(t, "[x] walk dog", all.Tasks[1].Line)

	some, err := svc.ListTasks(context.Background(), " MILK ")
	require.NoError(t, err)
	assert.Equal(t, 1, some.Count)
	assert.Equal(t, 2, some.Total)
	assert.Equal(t, "MILK", some.Query)
}

func TestServiceSeesExternalChanges(t *testing.T) {
	svc, fake := newTestService(t, task.Task{ID: "1", Text: "buy milk"})
	_, err := svc.ListTasks(context.Background(), "")
	require.NoError(t, err)

	fake.Set(task.Task{ID: "1", Text: "buy milk"}, task.Task{ID: "9", Text: "elsewhere"})
	dto, err := svc.ToggleTask(context.Background(), "9")
	require.NoError(t, err)
	assert.True(t, dto.IsDone)
}

func TestServiceDeleteAll(t *testing.T) {
	svc, fake := newTestService(t, task.Task{ID: "1", Text: "a"}, task.Task{ID: "2", Text: "b"})

	_, err := svc.DeleteAll(context.Background(), false)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Len(t, fake.Snapshot(), 2)

	n, err := svc.DeleteAll(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, fake.Snapshot())
}

func TestToolHandlers(t *testing.T) {
	svc, fake := newTestService(t)

	out, isErr := call(t, addTaskHandler(svc), map[string]any{"text": "  buy milk "})
	require.False(t, isErr, out)
	var created TaskDTO
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "buy milk", created.Text)

	out, isErr = call(t, addTaskHandler(svc), map[string]any{"text": "   "})
	assert.True(t, isErr)
	assert.Equal(t, "task cannot be empty", out)
	assert.Equal(t, 1, fake.CallCount(gateway.OpCreate))

	out, isErr = call(t, toggleTaskHandler(svc), map[string]any{"id": created.ID})
	require.False(t, isErr, out)
	assert.Contains(t, out, `"isDone":true`)

	out, isErr = call(t, taskStatsHandler(svc), nil)
	require.False(t, isErr, out)
	assert.Contains(t, out, `"summary":"Done 1 from 1"`)

	out, isErr = call(t, getTaskHandler(svc), map[string]any{"id": "missing"})
	assert.True(t, isErr)
	assert.Equal(t, "task not found", out)

	_, isErr = call(t, getTaskHandler(svc), map[string]any{})
	assert.True(t, isErr)

	out, isErr = call(t, deleteAllTasksHandler(svc), map[string]any{"confirm": false})
	assert.True(t, isErr, out)

	out, isErr = call(t, deleteTaskHandler(svc), map[string]any{"id": created.ID})
	require.False(t, isErr, out)
	assert.Empty(t, fake.Snapshot())

	out, isErr = call(t, listTasksHandler(svc), map[string]any{})
	require.False(t, isErr, out)
	assert.Contains(t, out, `"count":0`)
}

func TestTemplateID(t *testing.T) {
	var req mcp.ReadResourceRequest
	req.Params.URI = "todo://tasks/abc"
	assert.Equal(t, "abc", templateID(req))

	req.Params.Arguments = map[string]any{"id": []string{"xyz"}}
	assert.Equal(t, "xyz", templateID(req))

	req.Params.Arguments = map[string]any{"id": "str"}
	assert.Equal(t, "str", templateID(req))
}

func TestResourceHandlers(t *testing.T) {
	svc, _ := newTestService(t, task.Task{ID: "1", Text: "buy milk"})

	var req mcp.ReadResourceRequest
	req.Params.URI = tasksURI
	contents, err := tasksResourceHandler(svc)(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"total":1`)

	req.Params.URI = "todo://tasks/1"
	contents, err = taskResourceHandler(svc)(context.Background(), req)
	require.NoError(t, err)
	text = contents[0].(mcp.TextResourceContents)
	assert.Contains(t, text.Text, `"text":"buy milk"`)
}
