package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/todo/pkg/app"
)

type tool struct {
	def     mcp.Tool
	handler server.ToolHandlerFunc
}

func tools(svc *Service) []tool {
	return []tool{
		{listTasksTool(), listTasksHandler(svc)},
		{getTaskTool(), getTaskHandler(svc)},
		{addTaskTool(), addTaskHandler(svc)},
		{toggleTaskTool(), toggleTaskHandler(svc)},
		{deleteTaskTool(), deleteTaskHandler(svc)},
		{deleteAllTasksTool(), deleteAllTasksHandler(svc)},
		{taskStatsTool(), taskStatsHandler(svc)},
	}
}

func registerTools(srv *server.MCPServer, svc *Service) {
	for _, t := range tools(svc) {
		srv.AddTool(t.def, t.handler)
	}
}

func listTasksTool() mcp.Tool {
	return mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List tasks, optionally filtered by a case-insensitive substring."),
		mcp.WithString("query",
			mcp.Description("Optional search text."),
		),
	)
}

func listTasksHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := svc.ListTasks(ctx, request.GetString("query", ""))
		if err != nil {
			return errorResult(err), nil
		}
		return toJSONResult(result)
	}
}

func getTaskTool() mcp.Tool {
	return mcp.NewTool(
		"get_task",
		mcp.WithDescription("Fetch a single task by identifier."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
	)
}

func getTaskHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.GetTask(ctx, id)
		if err != nil {
			return errorResult(err), nil
		}
		return toJSONResult(dto)
	}
}

func addTaskTool() mcp.Tool {
	return mcp.NewTool(
		"add_task",
		mcp.WithDescription("Create a task."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Task text. Leading and trailing whitespace is trimmed; blank text is rejected."),
		),
	)
}

func addTaskHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.AddTask(ctx, text)
		if err != nil {
			return errorResult(err), nil
		}
		return toJSONResult(dto)
	}
}

func toggleTaskTool() mcp.Tool {
	return mcp.NewTool(
		"toggle_task",
		mcp.WithDescription("Flip the completion flag of a task."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
	)
}

func toggleTaskHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.ToggleTask(ctx, id)
		if err != nil {
			return errorResult(err), nil
		}
		return toJSONResult(dto)
	}
}

func deleteTaskTool() mcp.Tool {
	return mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
	)
}

func deleteTaskHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteTask(ctx, id); err != nil {
			return errorResult(err), nil
		}
		return toJSONResult(map[string]any{"deleted": id})
	}
}

func deleteAllTasksTool() mcp.Tool {
	return mcp.NewTool(
		"delete_all_tasks",
		mcp.WithDescription("Delete every task. Irreversible; requires confirm=true."),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true to proceed."),
		),
	)
}

func deleteAllTasksHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, err := svc.DeleteAll(ctx, request.GetBool("confirm", false))
		if err != nil {
			return errorResult(err), nil
		}
		return toJSONResult(map[string]any{"deleted": n})
	}
}

func taskStatsTool() mcp.Tool {
	return mcp.NewTool(
		"task_stats",
		mcp.WithDescription("Count done and open tasks."),
	)
}

func taskStatsHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := svc.Stats(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return toJSONResult(map[string]any{
			"total":   report.Total,
			"done":    report.Done,
			"open":    report.Open,
			"summary": report.String(),
		})
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(app.Message(err))
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
