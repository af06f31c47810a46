package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
)

// MockWatcherService implements driving.WatcherService for CLI tests.
type MockWatcherService struct {
	StartFunc    func(ctx context.Context) error
	PollOnceFunc func(ctx context.Context) ([]domain.ChangeEvent, error)
	StatsValue   domain.Stats
	StatusValue  domain.WatcherStatus

	handlers []driven.EventHandler
	filters  []domain.EventFilter
	started  bool
	stopped  bool
}

func (m *MockWatcherService) Start(ctx context.Context) error {
	m.started = true
	if m.StartFunc != nil {
		return m.StartFunc(ctx)
	}
	return nil
}

func (m *MockWatcherService) Stop() error {
	m.stopped = true
	return nil
}

func (m *MockWatcherService) PollOnce(ctx context.Context) ([]domain.ChangeEvent, error) {
	if m.PollOnceFunc != nil {
		return m.PollOnceFunc(ctx)
	}
	return nil, nil
}

func (m *MockWatcherService) Subscribe(h driven.EventHandler, f domain.EventFilter) func() {
	m.handlers = append(m.handlers, h)
	m.filters = append(m.filters, f)
	return func() {}
}

// emit delivers ev to every subscribed handler whose filter matches.
func (m *MockWatcherService) emit(ctx context.Context, ev domain.ChangeEvent) {
	for i, h := range m.handlers {
		if m.filters[i].Matches(ev) {
			_ = h.HandleEvent(ctx, ev)
		}
	}
}

func (m *MockWatcherService) Stats() domain.Stats          { return m.StatsValue }
func (m *MockWatcherService) Status() domain.WatcherStatus { return m.StatusValue }

// MockRetrievalService implements driving.RetrievalService for CLI tests.
type MockRetrievalService struct {
	RetrieveFunc func(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.ScoredChunk, error)
}

func (m *MockRetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.ScoredChunk, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, query, opts)
	}
	return nil, nil
}

var (
	_ driving.WatcherService   = (*MockWatcherService)(nil)
	_ driving.RetrievalService = (*MockRetrievalService)(nil)
)

// setupTestEngine swaps newEngine for one returning the given services.
func setupTestEngine(t *testing.T, eng *Engine) {
	t.Helper()
	original := newEngine
	newEngine = func(string) (*Engine, error) { return eng, nil }
	t.Cleanup(func() { newEngine = original })
}

// resetCommandState clears flag values and contexts left over from a
// previous Execute.
func resetCommandState() {
	configPath = ""
	verbose = false
	initForce = false
	pollJSON = false
	searchLimit = 5
	searchCategory = ""
	searchJSON = false
	statsJSON = false
	watchKinds = nil
	historyKinds = nil
	historySource = ""
	historyIdentifier = ""
	historySince = 0
	historyLimit = 50
	historyJSON = false
	historyOlderThan = 0
	versionJSON = false

	var walk func(*cobra.Command)
	walk = func(c *cobra.Command) {
		c.SetContext(nil) //nolint:staticcheck // cobra only inherits the parent context when nil
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	resetCommandState()
	t.Cleanup(resetCommandState)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "biowatch", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	cfg := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "c", cfg.Shorthand)

	v := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, v)
	assert.Equal(t, "v", v.Shorthand)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	want := []string{"init", "poll", "watch", "search", "stats", "mcp", "dashboard", "history", "version"}

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "missing subcommand %q", name)
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		resetCommandState()
		t.Cleanup(resetCommandState)
		t.Setenv(ConfigEnvVar, "/env/config.toml")
		configPath = "/flag/config.toml"

		path, err := resolveConfigPath()

		require.NoError(t, err)
		assert.Equal(t, "/flag/config.toml", path)
	})

	t.Run("environment", func(t *testing.T) {
		resetCommandState()
		t.Setenv(ConfigEnvVar, "/env/config.yaml")

		path, err := resolveConfigPath()

		require.NoError(t, err)
		assert.Equal(t, "/env/config.yaml", path)
	})

	t.Run("default", func(t *testing.T) {
		resetCommandState()
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv(ConfigEnvVar, "")

		path, err := resolveConfigPath()

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".biowatch", "config.toml"), path)
	})
}

func TestLoadEngine_MissingConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, err := execute(t, "--config", missing, "poll")

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "biowatch init")
}

func TestLoadEngine_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size = 10\nchunk_overlap = 20\n"), 0o600))

	_, err := execute(t, "-c", path, "stats")

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
