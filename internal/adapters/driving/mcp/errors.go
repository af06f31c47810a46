// Package mcp provides an MCP (Model Context Protocol) server adapter for biowatch.
// It lets AI assistants query the watched corpus and read recent changes.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
