package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Title  lipgloss.Style
	Faint  lipgloss.Style
	Error  lipgloss.Style
	List   ListTheme
	Footer FooterTheme
	Modal  lipgloss.Style
	Field  FieldTheme
}

// ListTheme groups styles for task rows.
type ListTheme struct {
	Row          lipgloss.Style
	Cursor       lipgloss.Style
	Done         lipgloss.Style
	Appearing    lipgloss.Style
	Disappearing lipgloss.Style
	Empty        lipgloss.Style
	Stats        lipgloss.Style
}

// FieldTheme groups styles for the add and search fields.
type FieldTheme struct {
	Label lipgloss.Style
	Error lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Mode   lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	return Theme{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		Faint: faint,
		Error: errStyle,
		List: ListTheme{
			Row:          lipgloss.NewStyle(),
			Cursor:       lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true),
			Done:         faint.Strikethrough(true),
			Appearing:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
			Disappearing: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Faint(true).Strikethrough(true),
			Empty:        faint.Italic(true),
			Stats:        faint,
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Mode:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 2),
		Field: FieldTheme{
			Label: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
			Error: errStyle.Italic(true),
		},
	}
}
