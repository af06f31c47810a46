package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// ErrNotTerminal is returned when the dashboard is started without a terminal.
var ErrNotTerminal = errors.New("dashboard requires an interactive terminal")

// isTerminal reports whether stdout is a terminal. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive dashboard",
	Long: `Starts polling in the background and opens a terminal dashboard with
the live change feed, corpus statistics and a query box.

Controls:
  tab      - Switch between changes and search
  ↑/k, ↓/j - Navigate
  Enter    - Search / show details
  r        - Poll now
  ?        - Help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) (err error) {
	if !isTerminal() {
		return ErrNotTerminal
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("dashboard panic: %v", r)
		}
	}()

	eng, err := loadEngine()
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := eng.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// Log lines corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	ctx := cmd.Context()
	if err := eng.Watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	app, err := tui.NewApp(tui.NewPorts(eng.Retrieval, eng.Watcher, eng.Changes))
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
