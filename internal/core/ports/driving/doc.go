// Package driving declares what the CLI, the MCP server and the dashboard may
// ask of the engine: polling and subscriptions (WatcherService), retrieval
// (RetrievalService), and the change feed (ChangeLog, ChangeJournal).
// internal/core/services and the storage adapters provide the implementations.
package driving
