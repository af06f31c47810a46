package driven

import (
	"context"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// Poller scans one configured source and returns what it currently holds.
// Each source kind (filesystem, remote) implements this interface.
type Poller interface {
	// Name returns the configured source name.
	Name() string

	// Kind returns the source kind.
	Kind() domain.SourceKind

	// Poll enumerates the source once.
	// A failure to read one item is never returned as an error: the item is
	// listed in PollBatch.Unreadable or the batch is marked incomplete.
	// A returned error wraps domain.ErrSourceUnavailable and means the whole
	// source produced nothing usable this cycle.
	Poll(ctx context.Context) (domain.PollBatch, error)
}

// Notifier is implemented by pollers that can observe changes between cycles.
// A signal only asks the orchestrator to poll early; classification still
// happens through Poll.
type Notifier interface {
	// Notify starts observing and returns a channel that receives a value
	// whenever the source may have changed. The channel is closed when ctx
	// is cancelled or the notifier is closed.
	Notify(ctx context.Context) (<-chan struct{}, error)

	// Close releases resources.
	Close() error
}
