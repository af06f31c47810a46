package changes

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// MockWatcherService implements driving.WatcherService for testing.
type MockWatcherService struct {
	PollOnceFunc func(ctx context.Context) ([]domain.ChangeEvent, error)
	polls        int
}

func (m *MockWatcherService) Start(context.Context) error { return nil }
func (m *MockWatcherService) Stop() error { return nil }

func (m *MockWatcherService) PollOnce(ctx context.Context) ([]domain.ChangeEvent, error) {
	m.polls++
	if m.PollOnceFunc != nil {
		return m.PollOnceFunc(ctx)
	}
	return nil, nil
}

func (m *MockWatcherService) Subscribe(driven.EventHandler, domain.EventFilter) func() {
	return func() {}
}

func (m *MockWatcherService) Stats() domain.Stats { return domain.Stats{} }
func (m *MockWatcherService) Status() domain.WatcherStatus { return domain.WatcherStatus{} }

func testEvents() []domain.ChangeEvent {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	return []domain.ChangeEvent{
		{Kind: domain.ChangeModified, Identifier: "/data/report.txt", Content: "measles cases up", Category: domain.CategoryInternal, Source: "reports", ObservedAt: at},
		{Kind: domain.ChangeDeleted, Identifier: "who::7", Category: domain.CategoryExternal, Source: "who", ObservedAt: at},
	}
}

func newReadyView(w *MockWatcherService) *View {
	v := NewView(nil, nil, w)
	v.SetDimensions(120, 40)
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.Nil(t, v.Init())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, nil)

	v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.True(t, v.Ready())
}

func TestView_EmptyFeed(t *testing.T) {
	v := newReadyView(&MockWatcherService{})

	assert.Contains(t, v.View(), "No changes observed yet")
}

func TestView_Refreshed(t *testing.T) {
	v := newReadyView(&MockWatcherService{})

	v.Update(messages.Refreshed{
		Stats:  domain.Stats{TrackedIdentifiers: 2, ChunkCount: 3, InternalCount: 3},
		Status: domain.WatcherStatus{State: domain.WatcherRunning},
		Events: testEvents(),
	})

	view := v.View()
	assert.Len(t, v.Events(), 2)
	assert.Contains(t, view, "Changes (2)")
	assert.Contains(t, view, "/data/report.txt")
	assert.Contains(t, view, "2 docs")
	assert.Contains(t, view, "running")
}

func TestView_Poll(t *testing.T) {
	w := &MockWatcherService{
		PollOnceFunc: func(context.Context) ([]domain.ChangeEvent, error) {
			return testEvents()[:1], nil
		},
	}
	v := newReadyView(w)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	assert.True(t, v.Polling())
	assert.Contains(t, v.View(), "Polling...")

	// a second request while polling is ignored
	assert.Nil(t, v.Poll())

	msg := cmd()
	completed, ok := msg.(messages.PollCompleted)
	require.True(t, ok)
	assert.Len(t, completed.Events, 1)
	assert.Equal(t, 1, w.polls)

	v.Update(completed)
	assert.False(t, v.Polling())
	assert.NoError(t, v.Err())
}

func TestView_PollError(t *testing.T) {
	w := &MockWatcherService{
		PollOnceFunc: func(context.Context) ([]domain.ChangeEvent, error) {
			return nil, domain.ErrWatcherStopped
		},
	}
	v := newReadyView(w)

	cmd := v.Poll()
	v.Update(cmd())

	assert.ErrorIs(t, v.Err(), domain.ErrWatcherStopped)
	assert.Contains(t, v.View(), "watcher stopped")
}

func TestView_PollWithoutWatcher(t *testing.T) {
	v := NewView(nil, nil, nil)

	msg := v.Poll()()

	completed, ok := msg.(messages.PollCompleted)
	require.True(t, ok)
	assert.ErrorIs(t, completed.Err, ErrNoWatcherService)
}

func TestView_ExpandEvent(t *testing.T) {
	v := newReadyView(&MockWatcherService{})
	v.Update(messages.Refreshed{Events: testEvents()})

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, v.Expanded())
	assert.Contains(t, v.View(), "measles cases up")
	assert.Contains(t, v.View(), "source reports")

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.Expanded())
}

func TestView_ExpandDeletedEvent(t *testing.T) {
	v := newReadyView(&MockWatcherService{})
	v.Update(messages.Refreshed{Events: testEvents()})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, v.View(), "(removed)")
}

func TestView_ExpandEmptyFeed(t *testing.T) {
	v := newReadyView(&MockWatcherService{})

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, v.Expanded())
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newReadyView(&MockWatcherService{})

	v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
}
