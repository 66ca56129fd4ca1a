package bottombar

import (
	"strings"

	"tableflip.dev/todo/pkg/runner/tea/internal/theme"
)

// Mode represents the UI mode that influences footer layout.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeSearch
	ModeConfirm
	ModeDetail
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "ADD"
	case ModeSearch:
		return "SEARCH"
	case ModeConfirm:
		return "CONFIRM"
	case ModeDetail:
		return "DETAIL"
	default:
		return "NORMAL"
	}
}

// Model tracks footer/help/status rendering state.
type Model struct {
	mode       Mode
	helpLine   string
	statusLine string
	theme      theme.FooterTheme
}

// New returns a footer model with sensible defaults.
func New(th theme.FooterTheme) Model {
	return Model{mode: ModeNormal, theme: th}
}

// SetMode updates the visual mode.
func (m *Model) SetMode(mode Mode) {
	m.mode = mode
}

// Mode reports the current mode.
func (m Model) Mode() Mode {
	return m.mode
}

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
}

// Status returns the status message.
func (m Model) Status() string {
	return m.statusLine
}

// View renders the footer as a single line.
func (m Model) View() string {
	segments := []string{m.theme.Mode.Render(m.mode.String())}
	if m.helpLine != "" {
		segments = append(segments, m.theme.Help.Render(m.helpLine))
	}
	if m.statusLine != "" {
		segments = append(segments, m.theme.Status.Render(m.statusLine))
	}
	return strings.Join(segments, " │ ")
}
