package mcp

import (
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server can use.
// Tools and resources backed by a nil port are not registered.
type Ports struct {
	// Retrieval answers relevance queries.
	Retrieval driving.RetrievalService

	// Watcher reports corpus statistics and poll status.
	Watcher driving.WatcherService

	// Changes exposes recently dispatched change events.
	Changes driving.ChangeLog

	// Journal answers history queries. Optional.
	Journal driving.ChangeJournal
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
