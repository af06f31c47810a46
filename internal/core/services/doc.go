// Package services implements the driving port interfaces.
// Services contain the core engine logic (change detection, corpus
// maintenance, retrieval and the watch loop) and orchestrate calls to
// driven ports (pollers, chunk store, event handlers).
//
// Services are pure Go with no external dependencies beyond the
// concurrency helpers in golang.org/x/sync.
package services
