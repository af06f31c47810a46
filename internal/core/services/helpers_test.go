package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biowatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/postprocessors/chunker"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// --- Mock implementations ---

// mockPoller implements driven.Poller, returning queued batches in order.
// Once the queue is drained the last batch is repeated.
type mockPoller struct {
	name string
	kind domain.SourceKind

	mu      sync.Mutex
	batches []domain.PollBatch
	errs    []error
	calls   int
	block   chan struct{}
}

var _ driven.Poller = (*mockPoller)(nil)

func newMockPoller(name string, batches ...domain.PollBatch) *mockPoller {
	return &mockPoller{name: name, kind: domain.SourceKindFilesystem, batches: batches}
}

func (m *mockPoller) Name() string            { return m.name }
func (m *mockPoller) Kind() domain.SourceKind { return m.kind }

func (m *mockPoller) Poll(ctx context.Context) (domain.PollBatch, error) {
	m.mu.Lock()
	i := m.calls
	m.calls++
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return domain.PollBatch{}, ctx.Err()
		}
	}

	if i < len(m.errs) && m.errs[i] != nil {
		return domain.PollBatch{}, m.errs[i]
	}
	if len(m.batches) == 0 {
		return domain.PollBatch{Source: m.name, Complete: true}, nil
	}
	if i >= len(m.batches) {
		i = len(m.batches) - 1
	}
	return m.batches[i], nil
}

func (m *mockPoller) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockNotifier is a poller that can signal changes between cycles.
type mockNotifier struct {
	*mockPoller
	ch       chan struct{}
	closed   bool
	closeErr error
}

var _ driven.Notifier = (*mockNotifier)(nil)

func (m *mockNotifier) Notify(_ context.Context) (<-chan struct{}, error) {
	return m.ch, nil
}

func (m *mockNotifier) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.closeErr
}

// recordingHandler implements driven.EventHandler, keeping every event.
type recordingHandler struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	err    error
}

var _ driven.EventHandler = (*recordingHandler)(nil)

func (h *recordingHandler) HandleEvent(_ context.Context, ev domain.ChangeEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	return h.err
}

func (h *recordingHandler) Events() []domain.ChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.ChangeEvent(nil), h.events...)
}

// --- Fixtures ---

func doc(id, content string) domain.RawDocument {
	return domain.RawDocument{
		Identifier: id,
		Content:    content,
		Category:   domain.CategoryInternal,
		ObservedAt: testNow,
	}
}

func batch(source string, docs ...domain.RawDocument) domain.PollBatch {
	return domain.PollBatch{Source: source, Documents: docs, Complete: true}
}

func kinds(events []domain.ChangeEvent) []domain.ChangeKind {
	out := make([]domain.ChangeKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func identifiers(events []domain.ChangeEvent) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Identifier
	}
	return out
}

func newTestCorpus(t *testing.T, opts ...chunker.Option) *Corpus {
	t.Helper()
	c, err := chunker.New(opts...)
	require.NoError(t, err)
	corpus := NewCorpus(NewDetector(memory.NewEntryStore()), c, memory.NewChunkStore())
	corpus.now = func() time.Time { return testNow }
	return corpus
}
