package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// ChangeLog exposes recently dispatched change events.
type ChangeLog interface {
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) []domain.ChangeEvent
}

// ChangeJournal is a queryable record of every dispatched change event.
type ChangeJournal interface {
	ChangeLog

	// Query returns matching events, newest first.
	Query(ctx context.Context, q domain.JournalQuery) ([]domain.ChangeEvent, error)

	// Prune deletes events observed before cutoff and returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}
