package services

import (
	"sort"
	"time"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/fingerprint"
)

// Detector classifies poll batches into change events against the
// last-known state of every identifier.
// Detector is not safe for concurrent use; Corpus serialises access.
type Detector struct {
	entries driven.EntryStore
	hash    func(string) domain.Fingerprint
}

// NewDetector creates a change detector backed by entries.
func NewDetector(entries driven.EntryStore) *Detector {
	return &Detector{
		entries: entries,
		hash:    fingerprint.Of,
	}
}

// Classify compares batch with the tracked state, updates that state and
// returns one event per transition. Added and modified events follow
// document order; deletions follow, sorted by identifier.
// Deletions are only inferred when the batch is complete, and only for
// identifiers owned by batch.Source that were neither reported nor unreadable.
func (d *Detector) Classify(batch domain.PollBatch, now time.Time) []domain.ChangeEvent {
	seen := make(map[domain.SourceIdentifier]bool, len(batch.Documents)+len(batch.Unreadable))
	var events []domain.ChangeEvent

	for i := range batch.Documents {
		doc := &batch.Documents[i]
		if seen[doc.Identifier] {
			continue
		}
		seen[doc.Identifier] = true

		observed := doc.ObservedAt
		if observed.IsZero() {
			observed = now
		}

		fp := d.hash(doc.Content)
		prev, known := d.entries.Get(doc.Identifier)

		entry := domain.TrackedEntry{
			Identifier:  doc.Identifier,
			Fingerprint: fp,
			Source:      batch.Source,
			Category:    doc.Category,
			LastSeenAt:  observed,
		}
		d.entries.Put(entry)

		var kind domain.ChangeKind
		switch {
		case !known:
			kind = domain.ChangeAdded
		case prev.Fingerprint != fp:
			kind = domain.ChangeModified
		default:
			continue
		}

		events = append(events, domain.ChangeEvent{
			Kind:       kind,
			Identifier: doc.Identifier,
			Content:    doc.Content,
			Category:   doc.Category,
			Source:     batch.Source,
			ObservedAt: observed,
		})
	}

	if !batch.Complete {
		return events
	}

	for _, id := range batch.Unreadable {
		seen[id] = true
	}

	var gone []domain.SourceIdentifier
	for _, id := range d.entries.BySource(batch.Source) {
		if !seen[id] {
			gone = append(gone, id)
		}
	}
	sort.Strings(gone)

	for _, id := range gone {
		prev, _ := d.entries.Get(id)
		d.entries.Delete(id)
		events = append(events, domain.ChangeEvent{
			Kind:       domain.ChangeDeleted,
			Identifier: id,
			Category:   prev.Category,
			Source:     batch.Source,
			ObservedAt: now,
		})
	}

	return events
}

// Tracked returns the tracked entry for id.
func (d *Detector) Tracked(id domain.SourceIdentifier) (domain.TrackedEntry, bool) {
	return d.entries.Get(id)
}

// Len returns the number of tracked identifiers.
func (d *Detector) Len() int {
	return d.entries.Len()
}
