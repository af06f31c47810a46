package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Poll once and print corpus statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

// statsOutput is the JSON shape of the stats command.
type statsOutput struct {
	domain.Stats
	Sources  []string  `json:"sources"`
	Cycles   int       `json:"cycles"`
	PolledAt time.Time `json:"polled_at"`
}

func runStats(cmd *cobra.Command, _ []string) error {
	eng, err := loadEngine()
	if err != nil {
		return err
	}
	defer closeEngine(eng)

	if _, err := eng.Watcher.PollOnce(cmd.Context()); err != nil {
		return fmt.Errorf("poll failed: %w", err)
	}

	stats := eng.Watcher.Stats()
	status := eng.Watcher.Status()

	if statsJSON {
		return printJSON(cmd, statsOutput{
			Stats:    stats,
			Sources:  status.Sources,
			Cycles:   status.Cycles,
			PolledAt: status.LastCycleAt,
		})
	}

	cmd.Printf("Sources:             %d\n", len(status.Sources))
	for _, name := range status.Sources {
		cmd.Printf("  - %s\n", name)
	}
	cmd.Printf("Tracked identifiers: %d\n", stats.TrackedIdentifiers)
	cmd.Printf("Chunks:              %d\n", stats.ChunkCount)
	cmd.Printf("  internal:          %d\n", stats.InternalCount)
	cmd.Printf("  external:          %d\n", stats.ExternalCount)
	return nil
}
