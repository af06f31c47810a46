package domain

import "time"

// RetrieveOptions configures a relevance query.
type RetrieveOptions struct {
	// TopK is the maximum number of results.
	TopK int

	// Category restricts results to one origin when non-nil.
	Category *Category
}

// ScoredChunk is a single retrieval hit.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the summed query-token occurrence count.
	Score int
}

// Stats is a read-only snapshot of the corpus, computed on demand.
type Stats struct {
	// TrackedIdentifiers is the number of identifiers with a TrackedEntry.
	TrackedIdentifiers int `json:"tracked_identifiers"`

	// ChunkCount is the total number of stored chunks.
	ChunkCount int `json:"chunk_count"`

	// InternalCount is the number of chunks from internal sources.
	InternalCount int `json:"internal_count"`

	// ExternalCount is the number of chunks from external sources.
	ExternalCount int `json:"external_count"`
}

// WatcherState is a position in the watcher lifecycle.
type WatcherState string

const (
	// WatcherIdle is the state before Start.
	WatcherIdle WatcherState = "idle"

	// WatcherRunning is the state between Start and Stop.
	WatcherRunning WatcherState = "running"

	// WatcherStopped is the terminal state.
	WatcherStopped WatcherState = "stopped"
)

// WatcherStatus describes the orchestrator for observability.
type WatcherStatus struct {
	// State is the lifecycle state.
	State WatcherState `json:"state"`

	// Cycles is the number of completed poll cycles.
	Cycles int `json:"cycles"`

	// LastCycleAt is when the last cycle completed.
	LastCycleAt time.Time `json:"last_cycle_at"`

	// Sources lists the configured source names in poll order.
	Sources []string `json:"sources"`
}
