package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printEvent writes one line per change, e.g.
// "14:02:11 modified  external  alerts::7".
func printEvent(cmd *cobra.Command, ev domain.ChangeEvent) {
	cmd.Printf("%s %-9s %-9s %s\n",
		ev.ObservedAt.Local().Format(time.TimeOnly), ev.Kind, ev.Category, ev.Identifier)
}

func printEvents(cmd *cobra.Command, events []domain.ChangeEvent) {
	if len(events) == 0 {
		cmd.Println("No changes.")
		return
	}
	for _, ev := range events {
		printEvent(cmd, ev)
	}
}
