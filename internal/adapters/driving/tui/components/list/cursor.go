// Package list provides navigable list components for the dashboard.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// cursor tracks a selection over a slice of rows and the area they are
// drawn into. The list components embed it.
type cursor[T any] struct {
	rows     []T
	selected int
	width    int
	height   int
}

func newCursor[T any]() cursor[T] {
	return cursor[T]{width: 80, height: 10}
}

// navigate applies the up and down keys. Other messages are ignored.
func (c *cursor[T]) navigate(msg tea.Msg) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch key.String() {
	case "up", "k":
		c.MoveUp()
	case "down", "j":
		c.MoveDown()
	}
}

// MoveUp moves selection up.
func (c *cursor[T]) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *cursor[T]) MoveDown() {
	if c.selected < len(c.rows)-1 {
		c.selected++
	}
}

// Selected returns the selected index.
func (c *cursor[T]) Selected() int { return c.selected }

// SetSelected moves the selection. Out-of-range values are ignored.
func (c *cursor[T]) SetSelected(index int) {
	if index >= 0 && index < len(c.rows) {
		c.selected = index
	}
}

func (c *cursor[T]) current() *T {
	if c.selected < 0 || c.selected >= len(c.rows) {
		return nil
	}
	return &c.rows[c.selected]
}

// SetDimensions sets the drawing area.
func (c *cursor[T]) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Width returns the drawing width.
func (c *cursor[T]) Width() int { return c.width }

// Height returns the drawing height.
func (c *cursor[T]) Height() int { return c.height }

// Count returns the number of rows.
func (c *cursor[T]) Count() int { return len(c.rows) }

// IsEmpty reports whether there are no rows.
func (c *cursor[T]) IsEmpty() bool { return len(c.rows) == 0 }

// visible returns the [start, end) range of rows to draw when perRow lines
// are available per row, keeping the selection on screen.
func (c *cursor[T]) visible(lines, perRow int) (int, int) {
	return window(c.selected, len(c.rows), lines/perRow)
}

// window returns the [start, end) range of rows to show so that selected
// stays visible.
func window(selected, total, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	start := 0
	if selected >= visible {
		start = selected - visible + 1
	}
	return start, min(start+visible, total)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
