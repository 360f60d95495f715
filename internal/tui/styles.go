package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#101F38")
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#8a94a6")
	danger  = lipgloss.Color("#e53935")
	heart   = lipgloss.Color("#ff5a7a")
)

// Styles groups the lipgloss styles of the storefront screen.
type Styles struct {
	Title     lipgloss.Style
	Badge     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Card      lipgloss.Style
	Brand     lipgloss.Style
	Discount  lipgloss.Style
	Price     lipgloss.Style
	Meta      lipgloss.Style
	Heart     lipgloss.Style
	Rule      lipgloss.Style
	Banner    lipgloss.Style
	Loading   lipgloss.Style
	Heading   lipgloss.Style
	Tile      lipgloss.Style
	Hint      lipgloss.Style
	Error     lipgloss.Style
	Flight    lipgloss.Style
	Fading    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true),
		Badge:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Tab:       lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1),
		Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
		Brand:     lipgloss.NewStyle().Bold(true),
		Discount:  lipgloss.NewStyle().Bold(true).Foreground(danger),
		Price:     lipgloss.NewStyle().Bold(true),
		Meta:      lipgloss.NewStyle().Foreground(muted),
		Heart:     lipgloss.NewStyle().Foreground(heart),
		Rule:      lipgloss.NewStyle().Foreground(muted),
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Loading:   lipgloss.NewStyle().Italic(true).Foreground(muted),
		Heading:   lipgloss.NewStyle().Bold(true),
		Tile:      lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(primary),
		Hint:      lipgloss.NewStyle().Foreground(muted),
		Error:     lipgloss.NewStyle().Foreground(danger),
		Flight:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Fading:    lipgloss.NewStyle().Faint(true).Foreground(accent),
	}
}
