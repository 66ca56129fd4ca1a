package teaui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Open    key.Binding
	Add     key.Binding
	Search  key.Binding
	Clear   key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding

	Submit key.Binding
	Yes    key.Binding
	No     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "move")),
		Down:    key.NewBinding(key.WithKeys("j", "down")),
		Top:     key.NewBinding(key.WithKeys("g", "home")),
		Bottom:  key.NewBinding(key.WithKeys("G", "end")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Open:    key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "open")),
		Add:     key.NewBinding(key.WithKeys("a", "o"), key.WithHelp("a", "add")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Back:    key.NewBinding(key.WithKeys("esc", "h"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete all")),
		No:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	}
}

func (k keyMap) listHelp(hasTasks bool) []key.Binding {
	bindings := []key.Binding{k.Up, k.Toggle, k.Delete, k.Open, k.Add, k.Search}
	if hasTasks {
		bindings = append(bindings, k.Clear)
	}
	return append(bindings, k.Quit)
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Delete, k.Refresh, k.Back, k.Quit}
}

func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Submit, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))}
}

func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}
