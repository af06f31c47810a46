package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestParseChangesURI(t *testing.T) {
	tests := []struct {
		name  string
		uri   string
		ok    bool
		kinds []domain.ChangeKind
	}{
		{name: "all changes", uri: "biowatch://changes", ok: true},
		{name: "added", uri: "biowatch://changes/added", ok: true, kinds: []domain.ChangeKind{domain.ChangeAdded}},
		{name: "deleted", uri: "biowatch://changes/deleted", ok: true, kinds: []domain.ChangeKind{domain.ChangeDeleted}},
		{name: "unknown kind", uri: "biowatch://changes/renamed"},
		{name: "invalid prefix", uri: "file://changes"},
		{name: "empty URI", uri: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, ok := parseChangesURI(tt.uri)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kinds, filter.Kinds)
		})
	}
}

func recentEvents() []domain.ChangeEvent {
	return []domain.ChangeEvent{
		{Kind: domain.ChangeDeleted, Identifier: "/data/old.txt", Category: domain.CategoryInternal, Source: "reports"},
		{Kind: domain.ChangeAdded, Identifier: "alerts::7", Content: "Measles alert", Category: domain.CategoryExternal, Source: "alerts"},
		{Kind: domain.ChangeAdded, Identifier: "/data/new.txt", Content: "Weekly report", Category: domain.CategoryInternal, Source: "reports"},
	}
}

func TestServer_handleChangesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil change log returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		result, err := server.handleChangesResource(ctx, makeReadResourceRequest("biowatch://changes"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns all recent events", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Changes: &mockChangeLog{events: recentEvents()}})
		require.NoError(t, err)

		result, err := server.handleChangesResource(ctx, makeReadResourceRequest("biowatch://changes"))

		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 3)
		assert.Equal(t, "deleted", got[0]["kind"])
		assert.Equal(t, "/data/old.txt", got[0]["identifier"])
	})

	t.Run("filters by kind", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Changes: &mockChangeLog{events: recentEvents()}})
		require.NoError(t, err)

		result, err := server.handleChangesResource(ctx, makeReadResourceRequest("biowatch://changes/added"))

		require.NoError(t, err)
		var got []domain.ChangeEvent
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "alerts::7", got[0].Identifier)
		assert.Equal(t, "/data/new.txt", got[1].Identifier)
	})

	t.Run("caps the number of events", func(t *testing.T) {
		events := make([]domain.ChangeEvent, recentLimit+10)
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Changes: &mockChangeLog{events: events}})
		require.NoError(t, err)

		result, err := server.handleChangesResource(ctx, makeReadResourceRequest("biowatch://changes"))

		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Len(t, got, recentLimit)
	})

	t.Run("unknown kind returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Changes: &mockChangeLog{}})
		require.NoError(t, err)

		_, err = server.handleChangesResource(ctx, makeReadResourceRequest("biowatch://changes/renamed"))

		require.Error(t, err)
	})
}
