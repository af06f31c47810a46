// Package cli provides the biowatch command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/biowatch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/biowatch/internal/app"
	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// ConfigEnvVar overrides the default config file location.
const ConfigEnvVar = "BIOWATCH_CONFIG"

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var (
	configPath string
	verbose    bool
)

// Engine is the set of services a command works with.
type Engine struct {
	Config    domain.Config
	Watcher   driving.WatcherService
	Retrieval driving.RetrievalService
	Changes   driving.ChangeLog

	// Journal is nil unless the config enables the change journal.
	Journal driving.ChangeJournal

	closer    func() error
	closeOnce sync.Once
	closeErr  error
}

// Close stops the watcher and releases engine resources. Later calls
// return the first result.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		if e.closer != nil {
			e.closeErr = e.closer()
			return
		}
		e.closeErr = e.Watcher.Stop()
	})
	return e.closeErr
}

// closeEngine is Close for deferred use.
func closeEngine(eng *Engine) {
	if err := eng.Close(); err != nil {
		logger.Warn("Shutting down: %v", err)
	}
}

// newEngine loads the config file at path and wires the engine.
// Tests replace it.
var newEngine = func(path string) (*Engine, error) {
	cfg, err := file.NewLoader().Load(path)
	if err != nil {
		return nil, err
	}
	a, err := app.Build(cfg, app.WithEventLogging())
	if err != nil {
		return nil, err
	}
	eng := &Engine{
		Config:    a.Config,
		Watcher:   a.Watcher,
		Retrieval: a.Retriever,
		Changes:   a.Changes,
		closer:    a.Close,
	}
	if a.Journal != nil {
		eng.Journal = a.Journal
	}
	return eng, nil
}

var rootCmd = &cobra.Command{
	Use:   "biowatch",
	Short: "Watch document sources and answer relevance queries",
	Long: `biowatch polls local directories and remote endpoints, detects added,
modified and deleted documents, and keeps a chunked corpus that can be
queried from the command line, a terminal dashboard or an MCP client.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default $"+ConfigEnvVar+" or ~/.biowatch/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveConfigPath picks the flag, then the environment, then the default.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p, nil
	}
	return file.DefaultPath()
}

// loadEngine builds the engine from the resolved config file.
func loadEngine() (*Engine, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	logger.Debug("Loading config from %s", path)

	eng, err := newEngine(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (run 'biowatch init' to create one)", err)
		}
		return nil, err
	}
	return eng, nil
}
