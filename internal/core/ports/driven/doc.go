// Package driven lists what the core services need from the outside world.
// Services hold these interfaces; connectors, extractors, normalisers and
// storage adapters satisfy them.
//
// Every engine needs a Poller per source, a Chunker, a ChunkStore and at
// least one EventHandler. The rest are optional:
//
//   - Notifier: lets a poller trigger an early cycle (the filesystem poller
//     does this with fsnotify)
//   - Fetcher and Extractor: HTTP access and response parsing for the
//     remote poller
//   - Normaliser: markup to plain text for sources that opt in
//   - EntryStore: where the change detector keeps tracked fingerprints
//   - ConfigLoader: reads engine configuration files
//
// This package imports domain and nothing else from biowatch.
package driven
