package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Label     lipgloss.Style
	Midpoint  lipgloss.Style
	Trapezoid lipgloss.Style
	Pass      lipgloss.Style
	Fail      lipgloss.Style
	Muted     lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label:     lipgloss.NewStyle().Foreground(t.Muted),
		Midpoint:  lipgloss.NewStyle().Foreground(t.Midpoint),
		Trapezoid: lipgloss.NewStyle().Foreground(t.Trapezoid),
		Pass:      lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Fail:      lipgloss.NewStyle().Foreground(t.Error),
		Muted:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

func (s Styles) Separator(width int) string {
	return s.Muted.Render(strings.Repeat("─", width))
}
