package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/views/changes"
	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/views/search"
)

const (
	// DefaultRefreshInterval is how often the dashboard re-reads watcher state.
	DefaultRefreshInterval = time.Second

	// feedLimit caps the change feed.
	feedLimit = 100
)

// App is the dashboard following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	changesView *changes.View
	searchView  *search.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when the help view closes.
	previousView messages.ViewType

	refreshInterval time.Duration

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the dashboard with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:           ports,
		ctx:             context.Background(),
		styles:          s,
		keymap:          km,
		changesView:     changes.NewView(s, km, ports.Watcher),
		searchView:      search.NewView(s, km, ports.Retrieval),
		currentView:     messages.ViewChanges,
		refreshInterval: DefaultRefreshInterval,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.changesView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	return a
}

// WithRefreshInterval sets how often watcher state is re-read.
func (a *App) WithRefreshInterval(d time.Duration) *App {
	if d > 0 {
		a.refreshInterval = d
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("biowatch"),
		a.refresh(),
		a.tick(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.Tick:
		return a, tea.Batch(a.refresh(), a.tick())

	case messages.Refreshed:
		a.changesView, _ = a.changesView.Update(msg)
		a.searchView, _ = a.searchView.Update(msg)
		return a, nil

	case messages.PollCompleted:
		a.err = msg.Err
		a.changesView, cmd = a.changesView.Update(msg)
		return a, tea.Batch(cmd, a.refresh())

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewChanges:
			a.changesView, cmd = a.changesView.Update(msg)
		case messages.ViewHelp:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if keymap.Matches(msg.String(), a.keymap.SwitchView) {
		if a.currentView == messages.ViewChanges {
			return a, a.switchTo(messages.ViewSearch)
		}
		return a, a.switchTo(messages.ViewChanges)
	}

	// While typing a query every other key belongs to the input.
	typing := a.currentView == messages.ViewSearch && a.searchView.InputFocused()
	if !typing {
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Help) && a.currentView != messages.ViewHelp:
			return a, a.switchTo(messages.ViewHelp)
		}
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewChanges:
		a.changesView, cmd = a.changesView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			return a, a.switchTo(a.previousView)
		}
	}
	return a, cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	if view == messages.ViewHelp && a.currentView != messages.ViewHelp {
		a.previousView = a.currentView
	}
	a.currentView = view

	if view == messages.ViewSearch {
		a.searchView.Reset()
		return a.searchView.Init()
	}
	return nil
}

// refresh reads watcher state and the change feed.
func (a *App) refresh() tea.Cmd {
	ctx := a.ctx
	ports := a.ports
	return func() tea.Msg {
		msg := messages.Refreshed{
			Stats:  ports.Watcher.Stats(),
			Status: ports.Watcher.Status(),
		}
		if ports.Changes != nil {
			msg.Events = ports.Changes.Recent(ctx, feedLimit)
		}
		return msg
	}
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.refreshInterval, func(t time.Time) tea.Msg {
		return messages.Tick(t)
	})
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewChanges:
	}
	return a.changesView.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n")

	for _, section := range a.keymap.Sections() {
		b.WriteString("\n" + a.styles.Subtitle.Render(section.Title) + "\n")
		for _, binding := range section.Bindings {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s  %s\n", h.Key, h.Desc)
		}
	}

	b.WriteString("\n" + a.styles.Muted.Render(`Prefix a query with "internal:" or "external:" to restrict it.`))
	b.WriteString("\n\n" + a.styles.Muted.Render("[esc] back"))
	return b.String()
}

// Run starts the dashboard.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.changesView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
}
