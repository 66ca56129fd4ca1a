package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	tasksURI       = "todo://tasks"
	taskURIPrefix  = tasksURI + "/"
	taskTemplateID = taskURIPrefix + "{id}"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	srv.AddResource(mcp.NewResource(
		tasksURI,
		"Tasks",
		mcp.WithResourceDescription("Every task in the collection."),
		mcp.WithMIMEType("application/json"),
	), tasksResourceHandler(svc))

	srv.AddResourceTemplate(mcp.NewResourceTemplate(
		taskTemplateID,
		"Task",
		mcp.WithTemplateDescription("A single task by identifier."),
		mcp.WithTemplateMIMEType("application/json"),
	), taskResourceHandler(svc))
}

func tasksResourceHandler(svc *Service) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		result, err := svc.ListTasks(ctx, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, result)
	}
}

func taskResourceHandler(svc *Service) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateID(request)
		if id == "" {
			return nil, fmt.Errorf("task id is required")
		}
		dto, err := svc.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	}
}

// templateID reads the {id} variable, falling back to the URI itself.
func templateID(request mcp.ReadResourceRequest) string {
	switch v := request.Params.Arguments["id"].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return strings.TrimPrefix(request.Params.URI, taskURIPrefix)
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
