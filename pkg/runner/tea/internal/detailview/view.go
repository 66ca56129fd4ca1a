// Package detailview renders a single task for the /tasks/:id route.
package detailview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/gateway"
	"tableflip.dev/todo/pkg/runner/tea/internal/theme"
	"tableflip.dev/todo/pkg/task"
)

// NotFound is shown when the route names a task the backend does not have.
const NotFound = "task not found"

// Props is what the detail pane needs to render.
type Props struct {
	ID      string
	Task    *task.Task
	Loading bool
	Err     error
	Width   int
}

// Render draws the pane for p.
func Render(th theme.Theme, p Props) string {
	var b strings.Builder
	b.WriteString(th.Title.Render("Task " + p.ID))
	b.WriteString("\n\n")

	switch {
	case p.Loading:
		b.WriteString(th.Faint.Render("Loading task…"))
	case p.Err != nil && errors.Is(p.Err, gateway.ErrNotFound):
		b.WriteString(th.Error.Render(NotFound))
	case p.Err != nil:
		b.WriteString(th.Error.Render(app.Message(p.Err)))
	case p.Task == nil:
		b.WriteString(th.Error.Render(NotFound))
	default:
		b.WriteString(renderTask(th, *p.Task, p.Width))
	}
	return b.String()
}

func renderTask(th theme.Theme, t task.Task, width int) string {
	text := t.Text
	if width > 0 {
		text = wordwrap.String(text, width)
	}
	status := "open"
	textStyle := th.List.Row
	if t.IsDone {
		status = "done"
		textStyle = th.List.Done
	}
	lines := []string{
		textStyle.Render(text),
		"",
		th.Faint.Render(fmt.Sprintf("id:     %s", t.ID)),
		th.Faint.Render(fmt.Sprintf("status: %s", status)),
	}
	return strings.Join(lines, "\n")
}
