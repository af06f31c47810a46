// Package status provides the dashboard status bar.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// State is what the view owning the bar is busy with.
type State string

const (
	StateReady     State = "ready"
	StatePolling   State = "polling"
	StateSearching State = "searching"
	StateResults   State = "results"
	StateError     State = "error"
)

// busy holds the fixed label for transient states.
var busy = map[State]string{
	StatePolling:   "Polling...",
	StateSearching: "Searching...",
}

// Bar is a single line: activity or corpus summary on the left, key hints on
// the right.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	width  int

	state   State
	message string
	results int
	stats   domain.Stats
	watcher domain.WatcherStatus
}

// NewBar creates a status bar in the ready state. Nil arguments use defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, width: 80, state: StateReady}
}

// View renders the bar at its current width.
func (s *Bar) View() string {
	left, right := s.activity(), s.hints()
	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) activity() string {
	if label, ok := busy[s.state]; ok {
		return s.styles.Muted.Render(label)
	}

	switch s.state {
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	case StateResults:
		if s.results == 0 {
			return s.styles.Muted.Render("No results")
		}
		return s.styles.Normal.Render(fmt.Sprintf("%d results", s.results))
	default:
		return s.summary()
	}
}

// summary describes the watcher and corpus, e.g.
// "running · cycle 3 at 14:02:11 · 12 docs · 40 chunks (31 int / 9 ext)".
func (s *Bar) summary() string {
	var parts []string
	if s.watcher.State != "" {
		parts = append(parts, string(s.watcher.State))
	}
	if s.watcher.Cycles > 0 {
		parts = append(parts, fmt.Sprintf("cycle %d at %s",
			s.watcher.Cycles, s.watcher.LastCycleAt.Local().Format(time.TimeOnly)))
	}
	parts = append(parts,
		fmt.Sprintf("%d docs", s.stats.TrackedIdentifiers),
		fmt.Sprintf("%d chunks (%d int / %d ext)", s.stats.ChunkCount, s.stats.InternalCount, s.stats.ExternalCount))
	return s.styles.Muted.Render(strings.Join(parts, " · "))
}

func (s *Bar) hints() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateResults && s.results > 0 {
		bindings = s.keymap.ResultsHelp()
	}
	return s.styles.Muted.Render(hintLine(bindings))
}

func hintLine(bindings []key.Binding) string {
	out := make([]string, len(bindings))
	for i, b := range bindings {
		out[i] = b.Help().Key + ": " + b.Help().Desc
	}
	return strings.Join(out, " | ")
}

// SetState switches the bar to state and drops any error message.
func (s *Bar) SetState(state State) {
	s.state = state
	s.message = ""
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Fail shows err until the next state change.
func (s *Bar) Fail(err error) {
	s.state = StateError
	s.message = err.Error()
}

// ShowResults reports a finished search with n hits.
func (s *Bar) ShowResults(n int) {
	s.state = StateResults
	s.results = n
}

// Observe records the latest corpus snapshot and watcher status.
func (s *Bar) Observe(stats domain.Stats, st domain.WatcherStatus) {
	s.stats = stats
	s.watcher = st
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear returns to the ready state. The corpus summary is kept.
func (s *Bar) Clear() {
	s.SetState(StateReady)
	s.results = 0
}
