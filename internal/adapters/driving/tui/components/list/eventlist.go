package list

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// EventList displays recent change events, newest first.
type EventList struct {
	cursor[domain.ChangeEvent]
	styles *styles.Styles
}

// NewEventList creates an empty event list.
func NewEventList(s *styles.Styles) *EventList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &EventList{cursor: newCursor[domain.ChangeEvent](), styles: s}
}

// Update handles list navigation.
func (e *EventList) Update(msg tea.Msg) (*EventList, tea.Cmd) {
	e.navigate(msg)
	return e, nil
}

// View renders the feed.
func (e *EventList) View() string {
	if e.IsEmpty() {
		return e.styles.Muted.Render("No changes observed yet")
	}

	var b strings.Builder
	b.WriteString(e.styles.Subtitle.Render(fmt.Sprintf("Changes (%d)", e.Count())))
	b.WriteString("\n")

	start, end := e.visible(e.height-4, 1)
	for i := start; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(e.renderEvent(i == e.selected, &e.rows[i]))
	}
	return b.String()
}

// renderEvent formats one row, e.g.
// "> 14:02:11  modified  external  who-news::https://who.int/n/1".
func (e *EventList) renderEvent(selected bool, ev *domain.ChangeEvent) string {
	stamp := ev.ObservedAt.Local().Format(time.TimeOnly)
	kind := fmt.Sprintf("%-8s", ev.Kind)
	category := fmt.Sprintf("%-8s", ev.Category)
	ident := truncate(ev.Identifier, max(e.width-34, 10))

	if selected {
		return e.styles.Selected.Render(fmt.Sprintf("> %s  %s  %s  %s", stamp, kind, category, ident))
	}
	return e.styles.Normal.Render("  "+stamp+"  ") +
		e.styles.ForKind(ev.Kind).Render(kind) + "  " +
		e.styles.ForCategory(ev.Category).Render(category) + "  " +
		e.styles.Normal.Render(ident)
}

// SetEvents replaces the feed, clamping the selection to the new length.
func (e *EventList) SetEvents(events []domain.ChangeEvent) {
	e.rows = events
	if e.selected >= len(events) {
		e.selected = max(len(events)-1, 0)
	}
}

// Events returns the current feed.
func (e *EventList) Events() []domain.ChangeEvent { return e.rows }

// SelectedEvent returns the selected event, or nil if the feed is empty.
func (e *EventList) SelectedEvent() *domain.ChangeEvent { return e.current() }
