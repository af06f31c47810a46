package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for biowatch resources.
	uriScheme = "biowatch://"

	// recentLimit caps how many events a changes resource returns.
	recentLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "changes",
		Name:        "changes",
		Description: "Most recent change events, newest first",
		MIMEType:    "application/json",
	}, s.handleChangesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "changes/{kind}",
		Name:        "changes-by-kind",
		Description: "Most recent change events of one kind: added, modified or deleted",
		MIMEType:    "application/json",
	}, s.handleChangesResource)
}

// handleChangesResource returns recent events, optionally filtered by kind.
func (s *Server) handleChangesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	filter, ok := parseChangesURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	events := []domain.ChangeEvent{}
	if s.ports.Changes != nil {
		for _, ev := range s.ports.Changes.Recent(ctx, 0) {
			if !filter.Matches(ev) {
				continue
			}
			events = append(events, ev)
			if len(events) == recentLimit {
				break
			}
		}
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling changes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// parseChangesURI accepts biowatch://changes and biowatch://changes/{kind}.
func parseChangesURI(uri string) (domain.EventFilter, bool) {
	const base = uriScheme + "changes"

	if uri == base {
		return domain.EventFilter{}, true
	}
	name, ok := strings.CutPrefix(uri, base+"/")
	if !ok {
		return domain.EventFilter{}, false
	}
	kind, err := domain.ParseChangeKind(name)
	if err != nil {
		return domain.EventFilter{}, false
	}
	return domain.EventFilter{Kinds: []domain.ChangeKind{kind}}, true
}
