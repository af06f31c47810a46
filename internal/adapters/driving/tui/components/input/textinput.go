// Package input provides the query input for the dashboard.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// QueryInput wraps a bubbles textinput. A leading "internal:" or
// "external:" restricts the query to one category.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewQueryInput creates a focused query input.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "measles outbreak, external: cholera ..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &QueryInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render("Query: ")
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the raw input.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the raw input.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Query splits the input into query text and an optional category filter.
func (q *QueryInput) Query() (string, *domain.Category) {
	return ParseQuery(q.textinput.Value())
}

// ParseQuery strips a leading category prefix from raw.
// Unknown prefixes are treated as part of the query.
func ParseQuery(raw string) (string, *domain.Category) {
	raw = strings.TrimSpace(raw)
	prefix, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return raw, nil
	}
	cat, err := domain.ParseCategory(prefix)
	if err != nil {
		return raw, nil
	}
	return strings.TrimSpace(rest), &cat
}

// Focus sets focus on the input.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QueryInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QueryInput) SetWidth(width int) {
	q.width = width
	// label and padding
	fieldWidth := width - 10
	if fieldWidth < 20 {
		fieldWidth = 20
	}
	q.textinput.Width = fieldWidth
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QueryInput) Reset() {
	q.textinput.Reset()
}
