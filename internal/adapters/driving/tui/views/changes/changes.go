// Package changes provides the live change feed view of the dashboard.
package changes

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
)

// View shows recent change events and lets the user poll on demand.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.EventList
	statusbar *status.Bar

	watcher driving.WatcherService
	ctx     context.Context

	width    int
	height   int
	ready    bool
	polling  bool
	expanded bool
	err      error
}

// NewView creates a change feed view.
func NewView(s *styles.Styles, km *keymap.KeyMap, watcher driving.WatcherService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewEventList(s),
		statusbar: status.NewBar(s, km),
		watcher:   watcher,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for manual polls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the change feed.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.Refreshed:
		v.list.SetEvents(msg.Events)
		v.statusbar.Observe(msg.Stats, msg.Status)
		return v, nil

	case messages.PollCompleted:
		v.polling = false
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.statusbar.Clear()
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Expand):
		v.expanded = !v.expanded && v.list.SelectedEvent() != nil
	case keymap.Matches(msg.String(), v.keymap.Back):
		v.expanded = false
	case keymap.Matches(msg.String(), v.keymap.Refresh):
		return v, v.Poll()
	default:
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

// Poll runs one cycle in the background. It returns nil while a poll is
// already in flight.
func (v *View) Poll() tea.Cmd {
	if v.polling {
		return nil
	}
	v.polling = true
	v.statusbar.SetState(status.StatePolling)

	ctx := v.ctx
	watcher := v.watcher
	return func() tea.Msg {
		if watcher == nil {
			return messages.PollCompleted{Err: ErrNoWatcherService}
		}
		events, err := watcher.PollOnce(ctx)
		return messages.PollCompleted{Events: events, Err: err}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.Fail(err)
}

// View renders the change feed.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Biowatch · Changes"), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View())

	if ev := v.list.SelectedEvent(); v.expanded && ev != nil {
		sections = append(sections, "", v.renderDetail(ev))
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderDetail(ev *domain.ChangeEvent) string {
	header := v.styles.ForKind(ev.Kind).Render(ev.Kind.String()) + " " +
		v.styles.Subtitle.Render(ev.Identifier)
	meta := v.styles.Muted.Render(fmt.Sprintf("source %s · %s · %s",
		ev.Source, ev.Category, ev.ObservedAt.Local().Format("2006-01-02 15:04:05")))

	body := ev.Content
	if ev.Kind == domain.ChangeDeleted {
		body = v.styles.Muted.Render("(removed)")
	}
	body = v.styles.Normal.Width(max(v.width-4, 20)).MaxHeight(max(v.height/2, 3)).Render(body)

	return v.styles.Border.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, header, meta, body))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.list.SetDimensions(width, height-6) // header, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Events returns the displayed events.
func (v *View) Events() []domain.ChangeEvent {
	return v.list.Events()
}

// Polling reports whether a manual poll is in flight.
func (v *View) Polling() bool {
	return v.polling
}

// Expanded reports whether the selected event's content is shown.
func (v *View) Expanded() bool {
	return v.expanded
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
