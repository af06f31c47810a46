// Package messages defines Bubbletea message types for the dashboard.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"time"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// SearchRequested is a command to run a relevance query.
type SearchRequested struct {
	Query   string
	Options domain.RetrieveOptions
}

// SearchCompleted carries retrieval results back to the model.
type SearchCompleted struct {
	Results []domain.ScoredChunk
	Err     error
}

// PollRequested asks for an immediate poll cycle.
type PollRequested struct{}

// PollCompleted carries the events of a manual poll cycle.
type PollCompleted struct {
	Events []domain.ChangeEvent
	Err    error
}

// Refreshed carries a fresh snapshot of the watcher for display.
type Refreshed struct {
	Stats  domain.Stats
	Status domain.WatcherStatus
	Events []domain.ChangeEvent
}

// Tick fires on the dashboard refresh interval.
type Tick time.Time

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChanges is the live change feed.
	ViewChanges ViewType = iota
	// ViewSearch is the query input and results view.
	ViewSearch
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChanges:
		return "changes"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
