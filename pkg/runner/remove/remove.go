// Package remove provides the runner logic for deleting a task.
package remove

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/printers"
)

// Remove deletes the task with ID.
type Remove struct {
	ID     string
	Output string
	Out    io.Writer

	Service *app.Service
}

// Do deletes the task and prints what is left.
func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no task service")
	}
	if err := n.Service.FetchAll(ctx); err != nil {
		return err
	}
	if err := n.Service.Delete(ctx, n.ID); err != nil {
		return err
	}
	// Apply the delayed removal now; there is no exit animation to wait for.
	n.Service.Close()

	tasks := n.Service.Tasks()
	if n.Output != "" && n.Output != printers.FormatText {
		return printers.Structured(n.Out, n.Output, map[string]any{"deleted": n.ID, "remaining": len(tasks)})
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}
	pp.TitleWithCount("Tasks", len(tasks))
	pp.Tasks("no tasks left", tasks...)
	return nil
}
