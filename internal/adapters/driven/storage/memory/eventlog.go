package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
)

// Ensure EventLog implements the interfaces.
var (
	_ driven.EventHandler = (*EventLog)(nil)
	_ driving.ChangeLog   = (*EventLog)(nil)
)

// EventLog keeps the most recent change events in a fixed-size ring.
// It is subscribed to the watcher as a handler and read by the driving adapters.
type EventLog struct {
	mu     sync.RWMutex
	events []domain.ChangeEvent
	next   int
	full   bool
}

// NewEventLog creates an event log retaining up to size events.
// A non-positive size falls back to domain.DefaultEventLogSize.
func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = domain.DefaultEventLogSize
	}
	return &EventLog{
		events: make([]domain.ChangeEvent, size),
	}
}

// HandleEvent records ev, overwriting the oldest entry when full.
func (l *EventLog) HandleEvent(_ context.Context, ev domain.ChangeEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events[l.next] = ev
	l.next = (l.next + 1) % len(l.events)
	if l.next == 0 {
		l.full = true
	}
	return nil
}

// Recent returns up to limit events, newest first.
// A non-positive limit returns everything retained.
func (l *EventLog) Recent(_ context.Context, limit int) []domain.ChangeEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := l.lenLocked()
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]domain.ChangeEvent, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (l.next - i + len(l.events)) % len(l.events)
		out = append(out, l.events[idx])
	}
	return out
}

// Len returns the number of retained events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lenLocked()
}

func (l *EventLog) lenLocked() int {
	if l.full {
		return len(l.events)
	}
	return l.next
}
