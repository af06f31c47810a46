package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results  []domain.ScoredChunk
	err      error
	lastOpts domain.RetrieveOptions
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ string,
	opts domain.RetrieveOptions,
) ([]domain.ScoredChunk, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockWatcherService is a mock implementation of driving.WatcherService.
type mockWatcherService struct {
	stats   domain.Stats
	status  domain.WatcherStatus
	events  []domain.ChangeEvent
	pollErr error
}

func (m *mockWatcherService) Start(_ context.Context) error { return nil }

func (m *mockWatcherService) Stop() error { return nil }

func (m *mockWatcherService) PollOnce(_ context.Context) ([]domain.ChangeEvent, error) {
	return m.events, m.pollErr
}

func (m *mockWatcherService) Subscribe(_ driven.EventHandler, _ domain.EventFilter) func() {
	return func() {}
}

func (m *mockWatcherService) Stats() domain.Stats { return m.stats }

func (m *mockWatcherService) Status() domain.WatcherStatus { return m.status }

// mockChangeLog is a mock implementation of driving.ChangeLog.
type mockChangeLog struct {
	events []domain.ChangeEvent
}

func (m *mockChangeLog) Recent(_ context.Context, limit int) []domain.ChangeEvent {
	if limit > 0 && limit < len(m.events) {
		return m.events[:limit]
	}
	return m.events
}

// mockChangeJournal is a mock implementation of driving.ChangeJournal.
type mockChangeJournal struct {
	mockChangeLog
	lastQuery domain.JournalQuery
	err       error
}

func (m *mockChangeJournal) Query(_ context.Context, q domain.JournalQuery) ([]domain.ChangeEvent, error) {
	m.lastQuery = q
	return m.events, m.err
}

func (m *mockChangeJournal) Prune(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
