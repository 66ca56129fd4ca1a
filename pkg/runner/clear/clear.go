// Package clear provides the runner logic for deleting every task.
package clear

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/printers"
)

// Clear deletes every task once Confirm agrees.
type Clear struct {
	Confirm app.Confirmer
	Output  string
	Out     io.Writer

	Service *app.Service
}

// Do executes the delete-all.
func (n *Clear) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not clear, no task service")
	}
	if err := n.Service.FetchAll(ctx); err != nil {
		return err
	}
	count := len(n.Service.Tasks())
	err := n.Service.DeleteAll(ctx, n.Confirm)

	var be *app.BatchError
	if errors.As(err, &be) {
		n.printFailures(be)
	}
	if err != nil {
		return err
	}

	if n.Output != "" && n.Output != printers.FormatText {
		return printers.Structured(n.Out, n.Output, map[string]any{"deleted": count})
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if count == 0 {
		pp.Tasks("nothing to delete")
		return nil
	}
	pp.Title(fmt.Sprintf("Deleted %d tasks", count))
	return nil
}

func (n *Clear) printFailures(be *app.BatchError) {
	out := n.Out
	if out == nil {
		out = color.Output
	}
	red := color.New(color.FgRed)
	for _, r := range be.Failed {
		_, _ = red.Fprintf(out, "  %s: %s\n", r.ID, app.Message(r.Err))
	}
}
