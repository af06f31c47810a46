// Package connectors provides implementations of the Poller interface for
// the supported source kinds. Each connector knows how to enumerate one
// kind of source (a local directory, a set of HTTP endpoints) and report
// what it currently holds as a PollBatch.
//
// Connectors are constructed from SourceDescriptors by the bootstrap package.
package connectors
