// Package tui provides the interactive dashboard for biowatch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the dashboard.
type Ports struct {
	// Retrieval answers queries in the search view.
	Retrieval driving.RetrievalService

	// Watcher supplies status, statistics and manual polls.
	Watcher driving.WatcherService

	// Changes supplies the recent change feed. Optional.
	Changes driving.ChangeLog
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	retrieval driving.RetrievalService,
	watcher driving.WatcherService,
	changes driving.ChangeLog,
) *Ports {
	return &Ports{
		Retrieval: retrieval,
		Watcher:   watcher,
		Changes:   changes,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Watcher == nil {
		return ErrMissingWatcherService
	}
	return nil
}
