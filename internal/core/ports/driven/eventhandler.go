package driven

import (
	"context"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// EventHandler receives change events, one at a time, in emission order.
type EventHandler interface {
	// HandleEvent processes one event. A returned error is logged and
	// isolated; it never affects other handlers or later cycles.
	HandleEvent(ctx context.Context, ev domain.ChangeEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, ev domain.ChangeEvent) error

// HandleEvent calls f(ctx, ev).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, ev domain.ChangeEvent) error {
	return f(ctx, ev)
}
