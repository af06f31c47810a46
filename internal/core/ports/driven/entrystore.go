package driven

import "github.com/custodia-labs/biowatch/internal/core/domain"

// EntryStore persists the change detector's tracked state.
type EntryStore interface {
	// Get returns the entry for id.
	Get(id domain.SourceIdentifier) (domain.TrackedEntry, bool)

	// Put stores or overwrites the entry for its identifier.
	Put(entry domain.TrackedEntry)

	// Delete removes the entry for id.
	Delete(id domain.SourceIdentifier)

	// BySource returns the identifiers owned by the named source.
	BySource(source string) []domain.SourceIdentifier

	// Len returns the number of tracked identifiers.
	Len() int
}
