package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category tags the origin of a document for retrieval filtering.
type Category string

const (
	// CategoryInternal marks documents read from the local filesystem.
	CategoryInternal Category = "internal"

	// CategoryExternal marks documents fetched from remote sources.
	CategoryExternal Category = "external"
)

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	return c == CategoryInternal || c == CategoryExternal
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts user input into a Category.
// Matching is case-insensitive and surrounding whitespace is ignored.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
	}
	return c, nil
}

// SourceIdentifier uniquely names a trackable unit.
// Filesystem items use the absolute file path; remote items use
// RemoteIdentifier(sourceName, itemKey).
type SourceIdentifier = string

// RemoteIdentifierSeparator joins a remote source name and an item key.
const RemoteIdentifierSeparator = "::"

// RemoteIdentifier builds the identifier of an item extracted from a remote source.
func RemoteIdentifier(sourceName, itemKey string) SourceIdentifier {
	return sourceName + RemoteIdentifierSeparator + itemKey
}

// Fingerprint is a fixed-length digest of a document's content.
type Fingerprint string

// RawDocument is the plain text of one item observed during a poll cycle.
// It is produced by a poller and consumed immediately by the change detector.
type RawDocument struct {
	// Identifier is the stable key of the item.
	Identifier SourceIdentifier

	// Content is the already-extracted plain text.
	Content string

	// Category is the origin tag of the item.
	Category Category

	// ObservedAt is when the poller read the item.
	ObservedAt time.Time

	// Title is an optional human-readable title.
	Title string

	// URI is the original location (file path, URL).
	URI string
}

// PollBatch is one source's output for a single poll cycle.
type PollBatch struct {
	// Source is the configured name of the source that was polled.
	Source string

	// Documents are the items successfully read this cycle.
	Documents []RawDocument

	// Unreadable lists identifiers that were enumerated but could not be read.
	// Their tracked state is preserved.
	Unreadable []SourceIdentifier

	// Complete is true when the source enumerated successfully, so any
	// tracked identifier it did not report is confirmed absent.
	Complete bool
}

// TrackedEntry is the last-known state of an identifier.
type TrackedEntry struct {
	// Identifier is the tracked key.
	Identifier SourceIdentifier

	// Fingerprint is the digest of the last observed content.
	Fingerprint Fingerprint

	// Source is the name of the source that owns the identifier.
	Source string

	// Category is the origin tag recorded on first observation.
	Category Category

	// LastSeenAt is when the identifier was last reported by its source.
	LastSeenAt time.Time
}

// Chunk is a bounded slice of a document's text and the unit of retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Identifier links to the document the chunk was cut from.
	Identifier SourceIdentifier

	// Index is the ordinal position within the document, contiguous from 0.
	Index int

	// Text is the chunk content.
	Text string

	// Category is the origin tag inherited from the document.
	Category Category

	// IndexedAt is when the chunk was produced.
	IndexedAt time.Time
}
