// Package search provides the query view of the dashboard.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
)

// DefaultTopK is the number of hits requested per query.
const DefaultTopK = 10

// View represents the query view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	ctx       context.Context
	topK      int

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a query, false = navigating results
	expanded   bool // show the full text of the selected hit
}

// NewView creates a new query view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		retrieval:  retrieval,
		ctx:        context.Background(),
		topK:       DefaultTopK,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithTopK sets how many hits each query returns.
func (v *View) WithTopK(k int) *View {
	if k > 0 {
		v.topK = k
	}
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the query view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.Refreshed:
		v.statusbar.Observe(msg.Stats, msg.Status)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if v.expanded {
			v.expanded = false
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChanges}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case msg.Type == tea.KeyEnter:
		v.expanded = !v.expanded && v.list.SelectedResult() != nil
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusInput = true
		v.expanded = false
		v.input.SetValue("")
		return v, v.input.Focus()
	default:
		v.list, _ = v.list.Update(msg)
	}

	return v, nil
}

// submit starts a query for the current input. Empty queries are ignored.
func (v *View) submit() tea.Cmd {
	query, category := v.input.Query()
	if query == "" {
		return nil
	}
	v.statusbar.SetState(status.StateSearching)
	v.focusInput = false
	v.input.Blur()
	return v.performSearch(messages.SearchRequested{
		Query:   query,
		Options: domain.RetrieveOptions{TopK: v.topK, Category: category},
	})
}

func (v *View) performSearch(req messages.SearchRequested) tea.Cmd {
	ctx := v.ctx
	retrieval := v.retrieval
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		results, err := retrieval.Retrieve(ctx, req.Query, req.Options)
		return messages.SearchCompleted{Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.expanded = false
	v.list.SetResults(msg.Results)
	v.statusbar.ShowResults(len(msg.Results))
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.Fail(err)
}

// View renders the query view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Biowatch · Search"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View())

	if hit := v.list.SelectedResult(); v.expanded && hit != nil {
		sections = append(sections, "", v.renderDetail(hit))
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderDetail(hit *domain.ScoredChunk) string {
	title := v.styles.Subtitle.Render(hit.Chunk.Identifier)
	body := v.styles.Normal.Width(max(v.width-4, 20)).Render(hit.Chunk.Text)
	return v.styles.Border.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input, status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the raw input.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the raw input.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current hits.
func (v *View) Results() []domain.ScoredChunk {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected hit.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedResult returns the selected hit.
func (v *View) SelectedResult() *domain.ScoredChunk {
	return v.list.SelectedResult()
}

// Expanded reports whether the selected hit's full text is shown.
func (v *View) Expanded() bool {
	return v.expanded
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
}

// Reset returns the view to an empty query.
func (v *View) Reset() {
	v.focusInput = true
	v.expanded = false
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
