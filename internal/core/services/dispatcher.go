package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/logger"
)

type subscription struct {
	id      uint64
	handler driven.EventHandler
	filter  domain.EventFilter
}

// Dispatcher fans change events out to subscribed handlers.
// Each handler is called synchronously, in subscription order, and its
// failures are contained.
type Dispatcher struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers handler for events passing filter.
// The returned function removes the subscription; calling it more than once
// is harmless.
func (d *Dispatcher) Subscribe(handler driven.EventHandler, filter domain.EventFilter) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscription{id: id, handler: handler, filter: filter})

	var once sync.Once
	return func() {
		once.Do(func() { d.unsubscribe(id) })
	}
}

func (d *Dispatcher) unsubscribe(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}

// Dispatch delivers events in order. Every failing delivery is logged and
// returned; no failure stops delivery to other handlers or later events.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.ChangeEvent) []error {
	if len(events) == 0 {
		return nil
	}

	d.mu.RLock()
	subs := make([]subscription, len(d.subs))
	copy(subs, d.subs)
	d.mu.RUnlock()

	var errs []error
	for _, ev := range events {
		for _, s := range subs {
			if !s.filter.Matches(ev) {
				continue
			}
			if err := deliver(ctx, s.handler, ev); err != nil {
				logger.Warn("Event handler failed for %s %s: %v", ev.Kind, ev.Identifier, err)
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// deliver calls the handler, converting both errors and panics to ErrHandler.
func deliver(ctx context.Context, h driven.EventHandler, ev domain.ChangeEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrHandler, r)
		}
	}()

	if herr := h.HandleEvent(ctx, ev); herr != nil {
		return fmt.Errorf("%w: %w", domain.ErrHandler, herr)
	}
	return nil
}
