package domain

import "time"

// JournalQuery selects change events from the change journal.
// Zero-valued fields do not filter.
type JournalQuery struct {
	// Kinds restricts results to these change kinds.
	Kinds []ChangeKind

	// Source restricts results to one configured source name.
	Source string

	// Identifier restricts results to a single tracked item.
	Identifier SourceIdentifier

	// Since excludes events observed before this instant.
	Since time.Time

	// Limit caps the number of results. Non-positive means no cap.
	Limit int
}
