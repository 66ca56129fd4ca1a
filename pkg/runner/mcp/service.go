// Package mcp provides the Model Context Protocol server integration for todo.
package mcp

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/task"
)

// ErrNotConfirmed is returned by DeleteAll when the caller did not set the
// confirm flag.
var ErrNotConfirmed = errors.New("delete_all_tasks requires confirm=true")

// TaskDTO is a transport-friendly projection of a task.
type TaskDTO struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	IsDone bool   `json:"isDone"`
	Line   string `json:"line"`
}

// ListResult is the payload of list_tasks and the tasks resource.
type ListResult struct {
	Query string    `json:"query,omitempty"`
	Tasks []TaskDTO `json:"tasks"`
	Count int       `json:"count"`
	Total int       `json:"total"`
}

// Service adapts the task service to MCP requests. Every read refetches the
// collection first since other clients may have changed it.
type Service struct {
	App *app.Service
}

// NewService wraps svc.
func NewService(svc *app.Service) *Service {
	return &Service{App: svc}
}

func toDTO(t task.Task) TaskDTO {
	return TaskDTO{ID: t.ID, Text: t.Text, IsDone: t.IsDone, Line: t.String()}
}

func toDTOs(tasks []task.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toDTO(t))
	}
	return out
}

func (s *Service) refresh(ctx context.Context) error {
	if s.App == nil {
		return errors.New("task service is not configured")
	}
	return s.App.FetchAll(ctx)
}

// ListTasks returns the tasks matching query, or all tasks for a blank query.
func (s *Service) ListTasks(ctx context.Context, query string) (ListResult, error) {
	if err := s.refresh(ctx); err != nil {
		return ListResult{}, err
	}
	all := s.App.Tasks()
	matched := task.Filter(all, query)
	return ListResult{
		Query: strings.TrimSpace(query),
		Tasks: toDTOs(matched),
		Count: len(matched),
		Total: len(all),
	}, nil
}

// GetTask fetches one task straight from the backend.
func (s *Service) GetTask(ctx context.Context, id string) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errors.New("task service is not configured")
	}
	t, err := s.App.FetchOne(ctx, strings.TrimSpace(id))
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t), nil
}

// AddTask creates a task.
func (s *Service) AddTask(ctx context.Context, text string) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errors.New("task service is not configured")
	}
	t, err := s.App.Add(ctx, text, nil)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t), nil
}

// ToggleTask flips the completion flag of a task.
func (s *Service) ToggleTask(ctx context.Context, id string) (TaskDTO, error) {
	if err := s.refresh(ctx); err != nil {
		return TaskDTO{}, err
	}
	t, err := s.App.Toggle(ctx, strings.TrimSpace(id))
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t), nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if s.App == nil {
		return errors.New("task service is not configured")
	}
	return s.App.Delete(ctx, strings.TrimSpace(id))
}

// DeleteAll removes every task when confirm is set. It returns how many tasks
// were removed.
func (s *Service) DeleteAll(ctx context.Context, confirm bool) (int, error) {
	if !confirm {
		return 0, ErrNotConfirmed
	}
	if err := s.refresh(ctx); err != nil {
		return 0, err
	}
	n := len(s.App.Tasks())
	if err := s.App.DeleteAll(ctx, app.Yes); err != nil {
		return 0, err
	}
	return n, nil
}

// Stats counts done and open tasks.
func (s *Service) Stats(ctx context.Context) (app.Report, error) {
	if err := s.refresh(ctx); err != nil {
		return app.Report{}, err
	}
	return s.App.Report(), nil
}
