// Package list provides the runner logic for printing the task list.
package list

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/printers"
	"tableflip.dev/todo/pkg/task"
)

// List prints the tasks matching Query.
type List struct {
	Query  string
	ShowID bool
	Output string
	Out    io.Writer

	Service *app.Service
}

// Do fetches the collection and prints it.
func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list, no task service")
	}
	if err := n.Service.FetchAll(ctx); err != nil {
		return err
	}
	n.Service.SetQuery(n.Query)
	tasks := n.Service.Filtered()

	if n.Output != "" && n.Output != printers.FormatText {
		return printers.Structured(n.Out, n.Output, tasks)
	}

	all := n.Service.Tasks()
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.TitleWithCount("Tasks", len(tasks))
	pp.Tasks(emptyMessage(all, n.Query), tasks...)
	report := app.NewReport(all)
	pp.Stats(report.Done, report.Total)
	return nil
}

func emptyMessage(all []task.Task, query string) string {
	if len(all) > 0 && query != "" {
		return "no tasks match " + query
	}
	return "no tasks yet"
}
