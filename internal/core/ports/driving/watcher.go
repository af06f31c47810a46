package driving

import (
	"context"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// WatcherService owns the poll loop and change event dispatch.
type WatcherService interface {
	// Start runs one poll cycle immediately, then keeps polling at the
	// configured interval in the background until Stop is called or ctx
	// is cancelled. Either one leaves the watcher stopped.
	Start(ctx context.Context) error

	// Stop ends polling. An in-flight cycle is allowed to finish; no cycle
	// begins after Stop returns.
	Stop() error

	// PollOnce runs a single cycle synchronously.
	PollOnce(ctx context.Context) ([]domain.ChangeEvent, error)

	// Subscribe registers a handler for events matching filter and returns
	// a function that removes it. Handlers run inside the poll cycle and
	// must not call Stop or PollOnce.
	Subscribe(handler driven.EventHandler, filter domain.EventFilter) (unsubscribe func())

	// Stats returns a snapshot of the corpus.
	Stats() domain.Stats

	// Status returns the lifecycle state and cycle counters.
	Status() domain.WatcherStatus
}
