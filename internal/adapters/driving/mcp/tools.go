package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// DefaultTopK is used when the retrieve tool is called without top_k.
const DefaultTopK = 5

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query    string `json:"query" jsonschema:"words to look for; words shorter than four letters are ignored"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
	Category string `json:"category,omitempty" jsonschema:"restrict results to internal or external sources"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []ChunkOutput `json:"results"`
	Count   int           `json:"count"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	Identifier string `json:"identifier"`
	Index      int    `json:"index"`
	Category   string `json:"category"`
	Score      int    `json:"score"`
	Text       string `json:"text"`
}

// StatsInput is the (empty) input schema for the stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	TrackedIdentifiers int        `json:"tracked_identifiers"`
	ChunkCount         int        `json:"chunk_count"`
	InternalCount      int        `json:"internal_count"`
	ExternalCount      int        `json:"external_count"`
	State              string     `json:"state,omitempty"`
	Cycles             int        `json:"cycles"`
	LastCycleAt        *time.Time `json:"last_cycle_at,omitempty"`
	Sources            []string   `json:"sources,omitempty"`
}

// HistoryInput is the input schema for the change_history tool.
type HistoryInput struct {
	Kinds      []string `json:"kinds,omitempty" jsonschema:"only these change kinds: added, modified, deleted"`
	Source     string   `json:"source,omitempty" jsonschema:"only events from this configured source"`
	Identifier string   `json:"identifier,omitempty" jsonschema:"only events for this document identifier"`
	Since      string   `json:"since,omitempty" jsonschema:"only events newer than this Go duration, e.g. 24h"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of events (default 50)"`
}

// EventOutput is one change event.
type EventOutput struct {
	Kind       string    `json:"kind"`
	Identifier string    `json:"identifier"`
	Category   string    `json:"category"`
	Source     string    `json:"source"`
	ObservedAt time.Time `json:"observed_at"`
}

// EventsOutput is the output schema of the change_history and poll_now tools.
type EventsOutput struct {
	Events []EventOutput `json:"events"`
	Count  int           `json:"count"`
}

// PollInput is the (empty) input schema for the poll_now tool.
type PollInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the stored text chunks most relevant to a query",
	}, s.handleRetrieve)

	if s.ports.Watcher != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stats",
			Description: "Report corpus size and watcher status",
		}, s.handleStats)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "poll_now",
			Description: "Poll every source immediately and list the changes found",
		}, s.handlePoll)
	}

	if s.ports.Journal != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "change_history",
			Description: "Search recorded change events, newest first",
		}, s.handleHistory)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	opts := domain.RetrieveOptions{TopK: input.TopK}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if input.Category != "" {
		c, err := domain.ParseCategory(input.Category)
		if err != nil {
			return nil, RetrieveOutput{}, err
		}
		opts.Category = &c
	}

	hits, err := s.ports.Retrieval.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]ChunkOutput, len(hits)),
		Count:   len(hits),
	}
	for i, h := range hits {
		output.Results[i] = ChunkOutput{
			Identifier: h.Chunk.Identifier,
			Index:      h.Chunk.Index,
			Category:   h.Chunk.Category.String(),
			Score:      h.Score,
			Text:       h.Chunk.Text,
		}
	}

	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats := s.ports.Watcher.Stats()
	status := s.ports.Watcher.Status()
	out := StatsOutput{
		TrackedIdentifiers: stats.TrackedIdentifiers,
		ChunkCount:         stats.ChunkCount,
		InternalCount:      stats.InternalCount,
		ExternalCount:      stats.ExternalCount,
		State:              string(status.State),
		Cycles:             status.Cycles,
		Sources:            status.Sources,
	}
	if !status.LastCycleAt.IsZero() {
		at := status.LastCycleAt
		out.LastCycleAt = &at
	}
	return nil, out, nil
}

// handlePoll runs one poll cycle.
func (s *Server) handlePoll(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ PollInput,
) (*mcp.CallToolResult, EventsOutput, error) {
	events, err := s.ports.Watcher.PollOnce(ctx)
	if err != nil {
		return nil, EventsOutput{}, err
	}
	return nil, toEventsOutput(events), nil
}

// handleHistory queries the change journal.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, EventsOutput, error) {
	q := domain.JournalQuery{
		Source:     input.Source,
		Identifier: input.Identifier,
		Limit:      input.Limit,
	}
	if q.Limit <= 0 {
		q.Limit = recentLimit
	}
	for _, name := range input.Kinds {
		k, err := domain.ParseChangeKind(name)
		if err != nil {
			return nil, EventsOutput{}, err
		}
		q.Kinds = append(q.Kinds, k)
	}
	if input.Since != "" {
		d, err := time.ParseDuration(input.Since)
		if err != nil || d < 0 {
			return nil, EventsOutput{}, fmt.Errorf("%w: since %q", domain.ErrInvalidInput, input.Since)
		}
		q.Since = time.Now().Add(-d)
	}

	events, err := s.ports.Journal.Query(ctx, q)
	if err != nil {
		return nil, EventsOutput{}, err
	}
	return nil, toEventsOutput(events), nil
}

func toEventsOutput(events []domain.ChangeEvent) EventsOutput {
	out := EventsOutput{
		Events: make([]EventOutput, len(events)),
		Count:  len(events),
	}
	for i, ev := range events {
		out.Events[i] = EventOutput{
			Kind:       ev.Kind.String(),
			Identifier: ev.Identifier,
			Category:   ev.Category.String(),
			Source:     ev.Source,
			ObservedAt: ev.ObservedAt,
		}
	}
	return out
}
