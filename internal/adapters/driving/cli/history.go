package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// ErrNoJournal is returned by history commands when the config has no journal.
var ErrNoJournal = errors.New("change journal is not enabled (set journal in the config file)")

var (
	historyKinds      []string
	historySource     string
	historyIdentifier string
	historySince      time.Duration
	historyLimit      int
	historyJSON       bool
	historyOlderThan  time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded changes from the change journal",
	Long: `Reads the change journal without polling. Events are listed newest
first. The journal is enabled with the journal setting in the config file.`,
	Example: `  biowatch history --since 24h
  biowatch history --source alerts --kind deleted
  biowatch history prune --older-than 720h`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old events from the change journal",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().StringSliceVar(&historyKinds, "kind", nil, "only show these change kinds (added, modified, deleted)")
	historyCmd.Flags().StringVar(&historySource, "source", "", "only show events from this source")
	historyCmd.Flags().StringVar(&historyIdentifier, "identifier", "", "only show events for this identifier")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only show events newer than this, e.g. 24h")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum number of events (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output events as JSON")

	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "delete events older than this, e.g. 720h")
	_ = historyPruneCmd.MarkFlagRequired("older-than")

	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	filter, err := kindFilter(historyKinds)
	if err != nil {
		return err
	}
	if historySince < 0 {
		return fmt.Errorf("%w: --since must not be negative", domain.ErrInvalidInput)
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}
	defer closeEngine(eng)

	if eng.Journal == nil {
		return ErrNoJournal
	}

	q := domain.JournalQuery{
		Kinds:      filter.Kinds,
		Source:     historySource,
		Identifier: historyIdentifier,
		Limit:      historyLimit,
	}
	if historySince > 0 {
		q.Since = time.Now().Add(-historySince)
	}

	events, err := eng.Journal.Query(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	if historyJSON {
		if events == nil {
			events = []domain.ChangeEvent{}
		}
		return printJSON(cmd, events)
	}
	printEvents(cmd, events)
	return nil
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	if historyOlderThan <= 0 {
		return fmt.Errorf("%w: --older-than must be positive", domain.ErrInvalidInput)
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}
	defer closeEngine(eng)

	if eng.Journal == nil {
		return ErrNoJournal
	}

	n, err := eng.Journal.Prune(cmd.Context(), time.Now().Add(-historyOlderThan))
	if err != nil {
		return err
	}
	cmd.Printf("Removed %d event(s).\n", n)
	return nil
}
