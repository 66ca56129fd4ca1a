// Package teaui is the full-screen Bubble Tea interface for the task list.
package teaui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/todo/pkg/viewmodel"
)

// Options configures Run.
type Options struct {
	// StartPath is the first route shown, such as "/" or "/tasks/42".
	StartPath string
}

// Run launches the Bubble Tea UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, adapter *viewmodel.Adapter, o Options) error {
	p := tea.NewProgram(New(ctx, adapter, o.StartPath), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
