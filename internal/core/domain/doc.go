// Package domain holds the value types shared by every layer of biowatch:
// documents seen by pollers (RawDocument, PollBatch), the fingerprint record
// kept per identifier (TrackedEntry), retrievable Chunks, ChangeEvents and
// their filters, and engine configuration (Config, SourceDescriptor).
//
// Nothing here performs I/O. The package imports only the standard library
// and no other biowatch package, so adapters and services can all depend on
// it without cycles.
package domain
