// Package sqlite provides a SQLite-backed change journal.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The journal subscribes to the watcher like any other event
// handler and records every dispatched change event, so callers can query the
// history by kind, source, identifier or time.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// The journal path comes from configuration. The special path ":memory:"
// keeps the journal in process memory; it is then lost on exit like the rest
// of the engine state. The corpus is never restored from the journal.
//
// # Thread Safety
//
// All operations are thread-safe. File-backed journals run in WAL mode.
package sqlite
