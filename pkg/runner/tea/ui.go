package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/route"
	"tableflip.dev/todo/pkg/runner/tea/internal/bottombar"
	"tableflip.dev/todo/pkg/runner/tea/internal/detailview"
	"tableflip.dev/todo/pkg/runner/tea/internal/listview"
	"tableflip.dev/todo/pkg/runner/tea/internal/theme"
	"tableflip.dev/todo/pkg/task"
	"tableflip.dev/todo/pkg/viewmodel"
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeSearch
	modeConfirm
)

const (
	viewList     = "list"
	viewDetail   = "detail"
	viewNotFound = "notfound"
)

// chrome is the number of lines around the task rows: title, stats, input,
// field error, shared error and footer.
const chrome = 7

// Model is the Bubble Tea model for the task list.
type Model struct {
	ctx     context.Context
	adapter *viewmodel.Adapter
	router  *route.Router
	keys    keyMap
	help    help.Model
	theme   theme.Theme
	footer  bottombar.Model
	list    *listview.State
	input   textinput.Model

	mode     mode
	path     string
	view     string
	params   route.Params
	fieldErr string

	detail        *task.Task
	detailLoading bool
	detailErr     error

	width  int
	height int

	initCmd tea.Cmd
}

type changedMsg struct{}

type fetchedMsg struct{ err error }

type watchMsg struct{ err error }

type detailMsg struct {
	id   string
	task task.Task
	err  error
}

type addedMsg struct {
	task  task.Task
	err   error
	reset bool
}

type toggledMsg struct {
	task task.Task
	err  error
}

type deletedMsg struct {
	id  string
	err error
}

type clearedMsg struct{ err error }

// New builds the model. startPath picks the first view; an empty path is the
// list.
func New(ctx context.Context, adapter *viewmodel.Adapter, startPath string) Model {
	th := theme.Default()
	ti := textinput.New()
	ti.CharLimit = 512

	h := help.New()
	h.ShortSeparator = " · "

	m := Model{
		ctx:     ctx,
		adapter: adapter,
		router: route.New(
			route.Route{Pattern: "/", View: viewList},
			route.Route{Pattern: "/tasks/:id", View: viewDetail},
			route.Route{Pattern: route.Wildcard, View: viewNotFound},
		),
		keys:   defaultKeys(),
		help:   h,
		theme:  th,
		footer: bottombar.New(th.Footer),
		list:   listview.NewState(),
		input:  ti,
	}
	if startPath == "" {
		startPath = "/"
	}
	m.initCmd = m.navigate(startPath)
	return m
}

// Init loads the collection, starts watching for external changes and
// listens for state changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchAll(), m.watch(), m.waitForChange(), m.initCmd)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-12, 10)
		return m, nil

	case changedMsg:
		m.syncList()
		return m, m.waitForChange()

	case fetchedMsg:
		if msg.err != nil {
			m.footer.SetStatus("refresh failed")
		}
		m.syncList()
		return m, nil

	case watchMsg:
		if msg.err != nil && !errors.Is(msg.err, app.ErrWatchUnsupported) {
			m.footer.SetStatus("watch: " + msg.err.Error())
		}
		return m, nil

	case detailMsg:
		if msg.id != m.params["id"] {
			return m, nil
		}
		m.detailLoading = false
		m.detailErr = msg.err
		if msg.err == nil {
			t := msg.task
			m.detail = &t
		}
		return m, nil

	case addedMsg:
		if msg.reset {
			m.input.Reset()
			m.fieldErr = ""
			m.setMode(modeNormal)
			m.syncList()
			m.list.SetSelected(msg.task.ID)
		}
		if msg.err != nil {
			var ve *task.ValidationError
			if errors.As(msg.err, &ve) {
				m.fieldErr = ve.Reason.Error()
			}
		}
		return m, nil

	case toggledMsg, deletedMsg:
		m.syncList()
		return m, nil

	case clearedMsg:
		switch {
		case msg.err == nil:
			m.footer.SetStatus("all tasks deleted")
		case errors.Is(msg.err, app.ErrNotConfirmed):
			m.footer.SetStatus(app.Message(msg.err))
		}
		m.syncList()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeAdd || m.mode == modeSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case modeAdd:
		return m.handleAddKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	}
	if m.view == viewDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.syncList()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.list.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.list.Move(1)
	case key.Matches(msg, m.keys.Top):
		m.list.Top()
	case key.Matches(msg, m.keys.Bottom):
		m.list.Bottom()
	case key.Matches(msg, m.keys.Toggle):
		if id := m.list.Selected(); id != "" {
			return m, m.toggle(id)
		}
	case key.Matches(msg, m.keys.Delete):
		if id := m.list.Selected(); id != "" {
			return m, m.remove(id)
		}
	case key.Matches(msg, m.keys.Open):
		if id := m.list.Selected(); id != "" {
			cmd := m.navigate("/tasks/" + id)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Add):
		m.input.Reset()
		m.input.Placeholder = "What needs to be done?"
		m.fieldErr = ""
		m.setMode(modeAdd)
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Search):
		m.input.SetValue(m.adapter.Model().Query)
		m.input.Placeholder = "Search tasks"
		m.input.CursorEnd()
		m.setMode(modeSearch)
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		if len(m.adapter.Model().Tasks) > 0 {
			m.setMode(modeConfirm)
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchAll()
	case key.Matches(msg, m.keys.Back):
		if m.view != viewList {
			cmd := m.navigate("/")
			return m, cmd
		}
		m.adapter.SetQuery("")
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.params["id"]
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		cmd := m.navigate("/")
		return m, cmd
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggle(id)
	case key.Matches(msg, m.keys.Delete):
		cmd := m.remove(id)
		m.navigate("/")
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.navigate(m.path)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.input.Reset()
		m.fieldErr = ""
		m.setMode(modeNormal)
		return m, nil
	case tea.KeyEnter:
		if !m.canSubmit() {
			return m, nil
		}
		return m, m.add(m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.fieldErr = task.FieldError(m.input.Value())
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.adapter.SetQuery("")
		m.setMode(modeNormal)
		m.syncList()
		return m, nil
	case tea.KeyEnter:
		m.input.Blur()
		m.setMode(modeNormal)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.adapter.SetQuery(m.input.Value())
	m.syncList()
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.setMode(modeNormal)
		return m, m.deleteAll(app.Yes)
	case key.Matches(msg, m.keys.No):
		m.setMode(modeNormal)
		return m, m.deleteAll(app.ConfirmFunc(func(context.Context, int) (bool, error) {
			return false, nil
		}))
	}
	return m, nil
}

// canSubmit reports whether the add field holds text worth sending.
func (m Model) canSubmit() bool {
	return strings.TrimSpace(m.input.Value()) != ""
}

func (m *Model) setMode(next mode) {
	m.mode = next
	switch next {
	case modeAdd:
		m.footer.SetMode(bottombar.ModeAdd)
	case modeSearch:
		m.footer.SetMode(bottombar.ModeSearch)
	case modeConfirm:
		m.footer.SetMode(bottombar.ModeConfirm)
	default:
		if m.view == viewDetail {
			m.footer.SetMode(bottombar.ModeDetail)
		} else {
			m.footer.SetMode(bottombar.ModeNormal)
		}
	}
}

// navigate resolves path and switches views. Entering the detail view
// starts loading its task.
func (m *Model) navigate(path string) tea.Cmd {
	view, params, ok := m.router.Resolve(path)
	if !ok {
		view, params = viewNotFound, route.Params{}
	}
	m.path = path
	m.view = view
	m.params = params
	m.detail = nil
	m.detailErr = nil
	m.detailLoading = false
	m.setMode(modeNormal)

	if view != viewDetail {
		return nil
	}
	m.detailLoading = true
	return m.fetchOne(params["id"])
}

func (m *Model) syncList() {
	vm := m.adapter.Model()
	m.list.SetItems(task.IDs(vm.Filtered))
}

func (m Model) waitForChange() tea.Cmd {
	changed := m.adapter.Changed()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-changed:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) watch() tea.Cmd {
	return func() tea.Msg {
		return watchMsg{err: m.adapter.Watch(m.ctx)}
	}
}

func (m Model) fetchAll() tea.Cmd {
	return func() tea.Msg {
		return fetchedMsg{err: m.adapter.FetchAll(m.ctx)}
	}
}

func (m Model) fetchOne(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.adapter.FetchOne(m.ctx, id)
		return detailMsg{id: id, task: t, err: err}
	}
}

func (m Model) add(text string) tea.Cmd {
	return func() tea.Msg {
		reset := false
		t, err := m.adapter.Add(m.ctx, text, func() { reset = true })
		return addedMsg{task: t, err: err, reset: reset}
	}
}

func (m Model) toggle(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.adapter.Toggle(m.ctx, id)
		return toggledMsg{task: t, err: err}
	}
}

func (m Model) remove(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.adapter.Delete(m.ctx, id)}
	}
}

func (m Model) deleteAll(c app.Confirmer) tea.Cmd {
	return func() tea.Msg {
		return clearedMsg{err: m.adapter.DeleteAll(m.ctx, c)}
	}
}

// View renders the UI.
func (m Model) View() string {
	vm := m.adapter.Model()
	m.syncList()

	var sections []string
	switch m.view {
	case viewDetail:
		sections = append(sections, m.renderDetail(vm))
	case viewNotFound:
		sections = append(sections,
			m.theme.Title.Render("todo"),
			m.theme.Error.Render(fmt.Sprintf("no view for %s", m.path)),
		)
	default:
		sections = append(sections, m.renderList(vm))
	}

	if vm.Err != nil {
		sections = append(sections, m.theme.Error.Render(app.Message(vm.Err)))
	}
	if m.mode == modeConfirm {
		prompt := fmt.Sprintf("Delete all %d tasks? (y/n)", vm.Total())
		sections = append(sections, m.theme.Modal.Render(prompt))
	}

	footer := m.footer
	footer.SetHelp(m.help.ShortHelpView(m.helpBindings(vm)))
	sections = append(sections, footer.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) helpBindings(vm *viewmodel.Model) []key.Binding {
	switch {
	case m.mode == modeAdd || m.mode == modeSearch:
		return m.keys.inputHelp()
	case m.mode == modeConfirm:
		return m.keys.confirmHelp()
	case m.view == viewDetail:
		return m.keys.detailHelp()
	default:
		return m.keys.listHelp(vm.Total() > 0)
	}
}

func (m Model) renderList(vm *viewmodel.Model) string {
	var b strings.Builder
	title := m.theme.Title.Render("todo")
	if vm.Loading {
		title += m.theme.Faint.Render("  loading…")
	}
	b.WriteString(title)
	b.WriteString("\n")
	if vm.Total() > 0 {
		b.WriteString(m.theme.List.Stats.Render(vm.Report.String()))
		b.WriteString(m.theme.Faint.Render("  ·  D delete all"))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAdd:
		b.WriteString(m.theme.Field.Label.Render("add › "))
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.fieldErr != "" {
			b.WriteString(m.theme.Field.Error.Render(m.fieldErr))
			b.WriteString("\n")
		}
	case modeSearch:
		b.WriteString(m.theme.Field.Label.Render("search › "))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	default:
		if vm.Query != "" {
			b.WriteString(m.theme.Faint.Render(fmt.Sprintf("filter: %q", vm.Query)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	switch {
	case vm.Total() == 0:
		b.WriteString(m.theme.List.Empty.Render("No tasks yet. Press a to add one."))
		return b.String()
	case len(vm.Filtered) == 0:
		b.WriteString(m.theme.List.Empty.Render(fmt.Sprintf("No tasks match %q.", vm.Query)))
		return b.String()
	}

	height := len(vm.Filtered)
	if m.height > 0 {
		height = m.height - chrome
	}
	start, end := m.list.Viewport(height)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, m.renderRow(vm, vm.Filtered[i], i == m.list.Cursor()))
	}
	b.WriteString(strings.Join(rows, "\n"))
	return b.String()
}

func (m Model) renderRow(vm *viewmodel.Model, t task.Task, selected bool) string {
	cursor := "  "
	if selected {
		cursor = m.theme.List.Cursor.Render("› ")
	}
	box := "[ ] "
	if t.IsDone {
		box = "[x] "
	}
	text := t.Text
	if m.width > 0 {
		text = truncate.StringWithTail(text, uint(max(m.width-6, 1)), "…")
	}

	style := m.theme.List.Row
	switch {
	case vm.IsDisappearing(t.ID):
		style = m.theme.List.Disappearing
	case vm.IsAppearing(t.ID):
		style = m.theme.List.Appearing
	case t.IsDone:
		style = m.theme.List.Done
	case selected:
		style = m.theme.List.Cursor
	}
	return cursor + style.Render(box+text)
}

func (m Model) renderDetail(vm *viewmodel.Model) string {
	id := m.params["id"]
	current := m.detail
	if current != nil {
		// Later toggles land in the collection, not in the fetched copy.
		for i := range vm.Tasks {
			if vm.Tasks[i].ID == id {
				current = &vm.Tasks[i]
				break
			}
		}
	}
	width := m.width
	if width > 4 {
		width -= 4
	}
	return detailview.Render(m.theme, detailview.Props{
		ID:      id,
		Task:    current,
		Loading: m.detailLoading,
		Err:     m.detailErr,
		Width:   width,
	})
}
