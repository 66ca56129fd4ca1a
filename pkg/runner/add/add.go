// Package add provides the runner logic for creating tasks.
package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/printers"
)

// Add creates one task from Text.
type Add struct {
	Text   string
	ShowID bool
	Output string
	Out    io.Writer

	Service *app.Service
}

// Do creates the task and prints the resulting list.
func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no task service")
	}
	created, err := n.Service.Add(ctx, n.Text, nil)
	if err != nil {
		return err
	}

	if n.Output != "" && n.Output != printers.FormatText {
		return printers.Structured(n.Out, n.Output, created)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if err := n.Service.FetchAll(ctx); err != nil {
		pp.Title("Added")
		pp.Tasks("", created)
		return nil
	}
	tasks := n.Service.Tasks()
	pp.TitleWithCount("Tasks", len(tasks))
	pp.Tasks("", tasks...)
	return nil
}
