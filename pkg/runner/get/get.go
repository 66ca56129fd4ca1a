// Package get provides the runner logic for showing one task.
package get

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/printers"
)

// Get prints the task with ID, fetched directly from the backend.
type Get struct {
	ID     string
	Output string
	Out    io.Writer

	Service *app.Service
}

// Do fetches and prints the task.
func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no task service")
	}
	t, err := n.Service.FetchOne(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.Output != "" && n.Output != printers.FormatText {
		return printers.Structured(n.Out, n.Output, t)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Task(t)
	return nil
}
