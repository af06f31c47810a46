package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.WatcherService = (*Watcher)(nil)

// Watcher runs poll cycles over a fixed set of pollers, applies the results
// to the corpus and dispatches the resulting change events.
type Watcher struct {
	pollers       []driven.Poller
	corpus        *Corpus
	dispatcher    *Dispatcher
	interval      time.Duration
	sourceTimeout time.Duration
	now           func() time.Time

	mu      sync.Mutex
	state   domain.WatcherState
	stopCh  chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	cycles  int
	lastRun time.Time

	// cycleMu serialises cycles between the loop and PollOnce callers.
	cycleMu sync.Mutex

	releaseOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithPollInterval sets the time between cycles.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithSourceTimeout bounds a single source's poll.
func WithSourceTimeout(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.sourceTimeout = d
	}
}

// NewWatcher creates an idle watcher. Pollers are polled, and their batches
// applied, in the order given. Poller names must be unique.
func NewWatcher(
	corpus *Corpus,
	dispatcher *Dispatcher,
	pollers []driven.Poller,
	opts ...WatcherOption,
) (*Watcher, error) {
	w := &Watcher{
		pollers:       pollers,
		corpus:        corpus,
		dispatcher:    dispatcher,
		interval:      domain.DefaultPollInterval,
		sourceTimeout: domain.DefaultSourceTimeout,
		now:           time.Now,
		state:         domain.WatcherIdle,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.interval <= 0 {
		return nil, fmt.Errorf("%w: poll interval must be positive", domain.ErrConfiguration)
	}
	if w.sourceTimeout <= 0 {
		return nil, fmt.Errorf("%w: source timeout must be positive", domain.ErrConfiguration)
	}
	seen := make(map[string]bool, len(pollers))
	for _, p := range pollers {
		if seen[p.Name()] {
			return nil, fmt.Errorf("%w: duplicate source name %q", domain.ErrConfiguration, p.Name())
		}
		seen[p.Name()] = true
	}

	return w, nil
}

// Start runs one cycle, then keeps polling every interval in the background
// until Stop is called or ctx is cancelled. Cancelling ctx stops the watcher
// for good, exactly as Stop does. Pollers that implement driven.Notifier can
// trigger an early cycle.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	switch w.state {
	case domain.WatcherRunning:
		w.mu.Unlock()
		return domain.ErrAlreadyRunning
	case domain.WatcherStopped:
		w.mu.Unlock()
		return domain.ErrWatcherStopped
	}
	w.state = domain.WatcherRunning
	w.stopCh = make(chan struct{})
	hintCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	logger.Info("Watcher started: %d source(s), interval %s", len(w.pollers), w.interval)

	if _, err := w.cycle(ctx); err != nil && !errors.Is(err, domain.ErrWatcherStopped) {
		logger.Warn("Initial poll cycle failed: %v", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != domain.WatcherRunning {
		return nil
	}

	hints := w.watchHints(hintCtx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx, hints)
	}()

	return nil
}

// Stop ends the loop and waits for an in-flight cycle to finish.
// It is safe to call more than once. It must not be called from an event
// handler, which runs inside the cycle Stop waits for.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.state == domain.WatcherRunning {
		close(w.stopCh)
		w.cancel()
	}
	w.state = domain.WatcherStopped
	w.mu.Unlock()

	w.wg.Wait()
	return w.release()
}

// halt stops a watcher whose context ended without a call to Stop.
func (w *Watcher) halt() {
	w.mu.Lock()
	running := w.state == domain.WatcherRunning
	if running {
		w.state = domain.WatcherStopped
		w.cancel()
	}
	w.mu.Unlock()

	if !running {
		return
	}
	if err := w.release(); err != nil {
		logger.Warn("Closing change notifications: %v", err)
	}
}

// release closes every notifier once, after any cycle under way has ended.
// Only the first call reports close errors.
func (w *Watcher) release() error {
	var err error
	w.releaseOnce.Do(func() {
		w.cycleMu.Lock()
		defer w.cycleMu.Unlock()

		var errs []error
		for _, p := range w.pollers {
			if n, ok := p.(driven.Notifier); ok {
				if cerr := n.Close(); cerr != nil {
					errs = append(errs, fmt.Errorf("close %s: %w", p.Name(), cerr))
				}
			}
		}
		err = errors.Join(errs...)
		logger.Info("Watcher stopped")
	})
	return err
}

// PollOnce runs a single cycle synchronously and returns its events.
// Like Stop, it must not be called from an event handler.
func (w *Watcher) PollOnce(ctx context.Context) ([]domain.ChangeEvent, error) {
	return w.cycle(ctx)
}

// Subscribe registers handler for events passing filter. Handlers run
// synchronously inside the poll cycle with the cycle lock held, so a handler
// must not call Stop or PollOnce; doing so deadlocks. A handler that
// needs either should hand the work to another goroutine.
func (w *Watcher) Subscribe(handler driven.EventHandler, filter domain.EventFilter) func() {
	return w.dispatcher.Subscribe(handler, filter)
}

// Stats returns a snapshot of the corpus.
func (w *Watcher) Stats() domain.Stats {
	return w.corpus.Stats()
}

// Status returns the lifecycle state and cycle counters.
func (w *Watcher) Status() domain.WatcherStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	names := make([]string, len(w.pollers))
	for i, p := range w.pollers {
		names[i] = p.Name()
	}
	return domain.WatcherStatus{
		State:       w.state,
		Cycles:      w.cycles,
		LastCycleAt: w.lastRun,
		Sources:     names,
	}
}

// run is the main poll loop.
func (w *Watcher) run(ctx context.Context, hints <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.halt()
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
		case <-hints:
			logger.Debug("Change hint received, polling early")
		}

		if _, err := w.cycle(ctx); err != nil && !errors.Is(err, domain.ErrWatcherStopped) {
			logger.Warn("Poll cycle failed: %v", err)
		}
	}
}

// watchHints merges every notifier's signals into one channel.
// Signals arriving while one is pending are coalesced.
func (w *Watcher) watchHints(ctx context.Context) <-chan struct{} {
	hints := make(chan struct{}, 1)

	for _, p := range w.pollers {
		n, ok := p.(driven.Notifier)
		if !ok {
			continue
		}
		ch, err := n.Notify(ctx)
		if err != nil {
			logger.Warn("Change notifications unavailable for %s: %v", p.Name(), err)
			continue
		}

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-ch:
					if !ok {
						return
					}
					select {
					case hints <- struct{}{}:
					default:
					}
				}
			}
		}()
	}

	return hints
}

// cycle polls every source, applies the batches under the corpus write lock
// and then dispatches the events.
func (w *Watcher) cycle(ctx context.Context) ([]domain.ChangeEvent, error) {
	w.cycleMu.Lock()
	defer w.cycleMu.Unlock()

	w.mu.Lock()
	stopped := w.state == domain.WatcherStopped
	w.mu.Unlock()
	if stopped {
		return nil, domain.ErrWatcherStopped
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Section("Poll cycle")
	start := w.now()

	batches := w.pollAll(ctx)
	events := w.corpus.Apply(batches)

	w.mu.Lock()
	w.cycles++
	w.lastRun = w.now()
	w.mu.Unlock()

	logger.Info("Poll cycle: %d source(s) ok, %d event(s) in %s",
		len(batches), len(events), w.now().Sub(start).Round(time.Millisecond))

	w.dispatcher.Dispatch(ctx, events)

	return events, nil
}

// pollAll polls every source in parallel. Unavailable sources are logged and
// left out, so they contribute neither documents nor deletions.
func (w *Watcher) pollAll(ctx context.Context) []domain.PollBatch {
	results := make([]*domain.PollBatch, len(w.pollers))

	var g errgroup.Group
	for i, p := range w.pollers {
		g.Go(func() error {
			batch, err := w.pollSource(ctx, p)
			if err != nil {
				logger.Warn("Source %s unavailable: %v", p.Name(), err)
				return nil
			}
			batch.Source = p.Name()
			results[i] = &batch
			return nil
		})
	}
	_ = g.Wait()

	batches := make([]domain.PollBatch, 0, len(results))
	for _, b := range results {
		if b != nil {
			batches = append(batches, *b)
		}
	}
	return batches
}

type pollResult struct {
	batch domain.PollBatch
	err   error
}

// pollSource enforces the per-source deadline even on pollers that ignore ctx.
func (w *Watcher) pollSource(ctx context.Context, p driven.Poller) (domain.PollBatch, error) {
	pctx, cancel := context.WithTimeout(ctx, w.sourceTimeout)
	defer cancel()

	done := make(chan pollResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- pollResult{err: fmt.Errorf("%w: poller panic: %v", domain.ErrSourceUnavailable, r)}
			}
		}()
		batch, err := p.Poll(pctx)
		done <- pollResult{batch: batch, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && !errors.Is(res.err, domain.ErrSourceUnavailable) {
			res.err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, res.err)
		}
		return res.batch, res.err
	case <-pctx.Done():
		return domain.PollBatch{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, p.Name(), pctx.Err())
	}
}
