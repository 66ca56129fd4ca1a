// Package toggle provides the runner logic for flipping a task's completion.
package toggle

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/printers"
)

// Toggle flips the completion flag of the task with ID.
type Toggle struct {
	ID     string
	Output string
	Out    io.Writer

	Service *app.Service
}

// Do executes the toggle and prints the list with ids.
func (n *Toggle) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not toggle, no task service")
	}
	if err := n.Service.FetchAll(ctx); err != nil {
		return err
	}
	t, err := n.Service.Toggle(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.Output != "" && n.Output != printers.FormatText {
		return printers.Structured(n.Out, n.Output, t)
	}

	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}
	tasks := n.Service.Tasks()
	pp.TitleWithCount("Tasks", len(tasks))
	pp.Tasks("", tasks...)
	return nil
}
