// Package printers renders tasks for the command line.
package printers

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/todo/pkg/task"
)

// PrettyPrint writes colored, human-oriented output.
type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " task")
	default:
		_, _ = c.Fprintln(pp.out(), " tasks")
	}
}

// Tasks prints one line per task, or a placeholder when there are none.
func (pp *PrettyPrint) Tasks(empty string, tasks ...task.Task) {
	if len(tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintf(pp.out(), " %s\n\n", empty)
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 80
	tbl.Wrap = true
	for _, t := range tasks {
		if pp.ShowID {
			tbl.AddRow(idColor.Sprint(t.ID), pp.checkbox(t), t.Text)
		} else {
			tbl.AddRow(pp.checkbox(t), t.Text)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Task prints a single task with its id.
func (pp *PrettyPrint) Task(t task.Task) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), idColor.Sprint(t.ID))
	tbl.AddRow(bold.Sprint("Text"), t.Text)
	tbl.AddRow(bold.Sprint("Done"), pp.checkbox(t))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Pairs prints aligned key/value rows.
func (pp *PrettyPrint) Pairs(rows [][2]string) {
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range rows {
		tbl.AddRow(bold.Sprint(r[0]), r[1])
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Stats prints the "Done N from M" line.
func (pp *PrettyPrint) Stats(done, total int) {
	f := color.New(color.Faint)
	_, _ = f.Fprintf(pp.out(), "Done %d from %d\n", done, total)
}

func (pp *PrettyPrint) checkbox(t task.Task) string {
	if t.IsDone {
		return doneColor.Sprint("[x]")
	}
	return "[ ]"
}

var (
	bold      = color.New(color.Bold)
	idColor   = color.New(color.FgHiYellow, color.Italic, color.Faint)
	doneColor = color.New(color.FgGreen)
)
