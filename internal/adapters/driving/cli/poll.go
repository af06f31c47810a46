package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

var pollJSON bool

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run one poll cycle and print the changes",
	Long: `Polls every configured source once. The corpus starts empty, so every
readable document is reported as added.`,
	Args: cobra.NoArgs,
	RunE: runPoll,
}

func init() {
	pollCmd.Flags().BoolVar(&pollJSON, "json", false, "output events as JSON")
	rootCmd.AddCommand(pollCmd)
}

func runPoll(cmd *cobra.Command, _ []string) error {
	eng, err := loadEngine()
	if err != nil {
		return err
	}
	defer closeEngine(eng)

	events, err := eng.Watcher.PollOnce(cmd.Context())
	if err != nil {
		return fmt.Errorf("poll failed: %w", err)
	}

	if pollJSON {
		if events == nil {
			events = []domain.ChangeEvent{}
		}
		return printJSON(cmd, events)
	}
	printEvents(cmd, events)
	return nil
}
