package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source kind or extractor.
	ErrUnsupportedType = errors.New("unsupported type")

	// Poll Errors.

	// ErrSourceRead indicates a single item could not be read.
	// The item is skipped for the cycle and its tracked state is preserved.
	ErrSourceRead = errors.New("source read failed")

	// ErrSourceUnavailable indicates an entire source failed for a cycle.
	// The source contributes no documents and no deletions.
	ErrSourceUnavailable = errors.New("source unavailable")

	// Dispatch Errors.

	// ErrHandler indicates an event handler returned an error or panicked.
	ErrHandler = errors.New("event handler failed")

	// Configuration Errors.

	// ErrConfiguration indicates invalid engine or source configuration.
	// It is fatal at construction time.
	ErrConfiguration = errors.New("invalid configuration")

	// Lifecycle Errors.

	// ErrAlreadyRunning indicates the watcher has already been started.
	ErrAlreadyRunning = errors.New("watcher already running")

	// ErrWatcherStopped indicates the watcher has been stopped and cannot be reused.
	ErrWatcherStopped = errors.New("watcher stopped")
)
