// Package styles holds the lipgloss palette used across the dashboard.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// Palette names the colours the dashboard draws with.
type Palette struct {
	Accent  lipgloss.Color
	Info    lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Rule    lipgloss.Color
	Bar     lipgloss.Color
	Good    lipgloss.Color
	Caution lipgloss.Color
	Bad     lipgloss.Color
}

// Clinical is the default dark palette.
var Clinical = Palette{
	Accent:  lipgloss.Color("#2DD4BF"),
	Info:    lipgloss.Color("#60A5FA"),
	Text:    lipgloss.Color("#E5E7EB"),
	Dim:     lipgloss.Color("#6B7280"),
	Rule:    lipgloss.Color("#374151"),
	Bar:     lipgloss.Color("#111827"),
	Good:    lipgloss.Color("#4ADE80"),
	Caution: lipgloss.Color("#FBBF24"),
	Bad:     lipgloss.Color("#F87171"),
}

// Styles are the rendered styles built from a Palette.
type Styles struct {
	palette Palette

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style

	kinds      map[domain.ChangeKind]lipgloss.Style
	categories map[domain.Category]lipgloss.Style
}

// FromPalette builds the style set for p.
func FromPalette(p Palette) *Styles {
	plain := lipgloss.NewStyle()
	bold := plain.Bold(true)
	boxed := plain.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(p.Rule)

	return &Styles{
		palette:    p,
		Title:      bold.Foreground(p.Accent),
		Subtitle:   bold.Foreground(p.Info),
		Normal:     plain.Foreground(p.Text),
		Muted:      plain.Foreground(p.Dim),
		Selected:   bold.Foreground(p.Bar).Background(p.Accent),
		Error:      plain.Foreground(p.Bad),
		InputField: boxed.Padding(0, 1),
		StatusBar:  plain.Foreground(p.Dim).Background(p.Bar).Padding(0, 1),
		Border:     boxed,
		kinds: map[domain.ChangeKind]lipgloss.Style{
			domain.ChangeAdded:    bold.Foreground(p.Good),
			domain.ChangeModified: bold.Foreground(p.Caution),
			domain.ChangeDeleted:  bold.Foreground(p.Bad),
		},
		categories: map[domain.Category]lipgloss.Style{
			domain.CategoryInternal: plain.Foreground(p.Accent),
			domain.CategoryExternal: plain.Foreground(p.Info),
		},
	}
}

// DefaultStyles returns the Clinical style set.
func DefaultStyles() *Styles {
	return FromPalette(Clinical)
}

// Palette returns the colours s was built from.
func (s *Styles) Palette() Palette {
	return s.palette
}

// ForKind colours a change kind. Unknown kinds are muted.
func (s *Styles) ForKind(kind domain.ChangeKind) lipgloss.Style {
	if st, ok := s.kinds[kind]; ok {
		return st
	}
	return s.Muted
}

// ForCategory colours a source category. Unknown categories are muted.
func (s *Styles) ForCategory(c domain.Category) lipgloss.Style {
	if st, ok := s.categories[c]; ok {
		return st
	}
	return s.Muted
}
