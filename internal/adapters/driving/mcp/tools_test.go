package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns scored chunks", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{
			results: []domain.ScoredChunk{
				{
					Chunk: domain.Chunk{
						Identifier: "alerts::42",
						Index:      1,
						Text:       "Measles outbreak confirmed",
						Category:   domain.CategoryExternal,
					},
					Score: 3,
				},
			},
		}

		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{Query: "measles", TopK: 3})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, ChunkOutput{
			Identifier: "alerts::42",
			Index:      1,
			Category:   "external",
			Score:      3,
			Text:       "Measles outbreak confirmed",
		}, output.Results[0])
		assert.Equal(t, 3, mockRetrieval.lastOpts.TopK)
		assert.Nil(t, mockRetrieval.lastOpts.Category)
	})

	t.Run("default top_k", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{}
		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{Query: "measles"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Results)
		assert.Equal(t, DefaultTopK, mockRetrieval.lastOpts.TopK)
	})

	t.Run("category filter", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{}
		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		_, _, err = server.handleRetrieve(ctx, nil, RetrieveInput{Query: "measles", Category: "Internal"})

		require.NoError(t, err)
		require.NotNil(t, mockRetrieval.lastOpts.Category)
		assert.Equal(t, domain.CategoryInternal, *mockRetrieval.lastOpts.Category)
	})

	t.Run("invalid category", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		_, _, err = server.handleRetrieve(ctx, nil, RetrieveInput{Query: "measles", Category: "partner"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{
			err: errors.New("retrieval failed"),
		}
		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		_, _, err = server.handleRetrieve(ctx, nil, RetrieveInput{Query: "measles"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "retrieval failed")
	})
}

func TestServer_handleStats(t *testing.T) {
	last := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	watcher := &mockWatcherService{
		stats: domain.Stats{TrackedIdentifiers: 4, ChunkCount: 9, InternalCount: 6, ExternalCount: 3},
		status: domain.WatcherStatus{
			State:       domain.WatcherRunning,
			Cycles:      12,
			LastCycleAt: last,
			Sources:     []string{"reports", "alerts"},
		},
	}

	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Watcher: watcher})
	require.NoError(t, err)

	_, output, err := server.handleStats(context.Background(), nil, StatsInput{})

	require.NoError(t, err)
	assert.Equal(t, 4, output.TrackedIdentifiers)
	assert.Equal(t, 9, output.ChunkCount)
	assert.Equal(t, 6, output.InternalCount)
	assert.Equal(t, 3, output.ExternalCount)
	assert.Equal(t, "running", output.State)
	assert.Equal(t, 12, output.Cycles)
	require.NotNil(t, output.LastCycleAt)
	assert.Equal(t, last, *output.LastCycleAt)
	assert.Equal(t, []string{"reports", "alerts"}, output.Sources)
}

func TestServer_handleStats_NeverPolled(t *testing.T) {
	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Watcher: &mockWatcherService{}})
	require.NoError(t, err)

	_, output, err := server.handleStats(context.Background(), nil, StatsInput{})

	require.NoError(t, err)
	assert.Nil(t, output.LastCycleAt)
}

func TestServer_handlePoll(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	watcher := &mockWatcherService{events: []domain.ChangeEvent{
		{Kind: domain.ChangeAdded, Identifier: "/docs/a.txt", Category: domain.CategoryInternal, Source: "docs", ObservedAt: at},
		{Kind: domain.ChangeDeleted, Identifier: "alerts::7", Category: domain.CategoryExternal, Source: "alerts", ObservedAt: at},
	}}
	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Watcher: watcher})
	require.NoError(t, err)

	_, output, err := server.handlePoll(context.Background(), nil, PollInput{})

	require.NoError(t, err)
	require.Equal(t, 2, output.Count)
	assert.Equal(t, "added", output.Events[0].Kind)
	assert.Equal(t, "internal", output.Events[0].Category)
	assert.Equal(t, "alerts::7", output.Events[1].Identifier)
	assert.Equal(t, at, output.Events[1].ObservedAt)
}

func TestServer_handlePoll_Error(t *testing.T) {
	watcher := &mockWatcherService{pollErr: domain.ErrWatcherStopped}
	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Watcher: watcher})
	require.NoError(t, err)

	_, _, err = server.handlePoll(context.Background(), nil, PollInput{})

	assert.ErrorIs(t, err, domain.ErrWatcherStopped)
}

func TestServer_handleHistory(t *testing.T) {
	tests := []struct {
		name    string
		input   HistoryInput
		check   func(t *testing.T, q domain.JournalQuery)
		wantErr error
	}{
		{
			name:  "defaults",
			input: HistoryInput{},
			check: func(t *testing.T, q domain.JournalQuery) {
				assert.Equal(t, recentLimit, q.Limit)
				assert.Empty(t, q.Kinds)
				assert.True(t, q.Since.IsZero())
			},
		},
		{
			name: "filters",
			input: HistoryInput{
				Kinds:      []string{"added", "deleted"},
				Source:     "alerts",
				Identifier: "alerts::7",
				Since:      "2h",
				Limit:      5,
			},
			check: func(t *testing.T, q domain.JournalQuery) {
				assert.Equal(t, []domain.ChangeKind{domain.ChangeAdded, domain.ChangeDeleted}, q.Kinds)
				assert.Equal(t, "alerts", q.Source)
				assert.Equal(t, "alerts::7", q.Identifier)
				assert.Equal(t, 5, q.Limit)
				assert.WithinDuration(t, time.Now().Add(-2*time.Hour), q.Since, time.Minute)
			},
		},
		{
			name:    "unknown kind",
			input:   HistoryInput{Kinds: []string{"renamed"}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "bad duration",
			input:   HistoryInput{Since: "yesterday"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "negative duration",
			input:   HistoryInput{Since: "-1h"},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journal := &mockChangeJournal{}
			journal.events = []domain.ChangeEvent{{Kind: domain.ChangeModified, Identifier: "/docs/a.txt", Category: domain.CategoryInternal}}
			server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Journal: journal})
			require.NoError(t, err)

			_, output, err := server.handleHistory(context.Background(), nil, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, output.Count)
			assert.Equal(t, "modified", output.Events[0].Kind)
			tt.check(t, journal.lastQuery)
		})
	}
}

func TestServer_handleHistory_EmptyJournal(t *testing.T) {
	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Journal: &mockChangeJournal{}})
	require.NoError(t, err)

	_, output, err := server.handleHistory(context.Background(), nil, HistoryInput{})

	require.NoError(t, err)
	assert.Equal(t, 0, output.Count)
	assert.NotNil(t, output.Events)
}
