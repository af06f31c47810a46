package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

var watchKinds []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll continuously and print changes until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchKinds, "kind", nil, "only print these change kinds (added, modified, deleted)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	filter, err := kindFilter(watchKinds)
	if err != nil {
		return err
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}
	defer closeEngine(eng)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unsubscribe := eng.Watcher.Subscribe(eventPrinter(cmd), filter)
	defer unsubscribe()

	if err := eng.Watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	cmd.Printf("Watching %d source(s) every %s. Press Ctrl+C to stop.\n",
		len(eng.Config.Sources), eng.Config.PollInterval)

	<-ctx.Done()
	return eng.Close()
}

func kindFilter(names []string) (domain.EventFilter, error) {
	var filter domain.EventFilter
	for _, name := range names {
		k, err := domain.ParseChangeKind(name)
		if err != nil {
			return filter, err
		}
		filter.Kinds = append(filter.Kinds, k)
	}
	return filter, nil
}

func eventPrinter(cmd *cobra.Command) driven.EventHandler {
	return driven.EventHandlerFunc(func(_ context.Context, ev domain.ChangeEvent) error {
		printEvent(cmd, ev)
		return nil
	})
}
