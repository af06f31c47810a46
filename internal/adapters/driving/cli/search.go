package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

var (
	searchLimit    int
	searchCategory string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Query the corpus",
	Long: `Polls every source once, then scores stored chunks against the query.
Query words shorter than four characters are ignored; a chunk scores one
point per occurrence of each remaining word.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "only return internal or external chunks")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchResult is the JSON shape of one hit.
type searchResult struct {
	Identifier string          `json:"identifier"`
	Index      int             `json:"index"`
	Category   domain.Category `json:"category"`
	Score      int             `json:"score"`
	Text       string          `json:"text"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts := domain.RetrieveOptions{TopK: searchLimit}
	if searchCategory != "" {
		cat, err := domain.ParseCategory(searchCategory)
		if err != nil {
			return err
		}
		opts.Category = &cat
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}
	defer closeEngine(eng)

	if _, err := eng.Watcher.PollOnce(cmd.Context()); err != nil {
		return fmt.Errorf("poll failed: %w", err)
	}

	results, err := eng.Retrieval.Retrieve(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchTable(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredChunk) error {
	out := make([]searchResult, 0, len(results))
	for _, r := range results {
		out = append(out, searchResult{
			Identifier: r.Chunk.Identifier,
			Index:      r.Chunk.Index,
			Category:   r.Chunk.Category,
			Score:      r.Score,
			Text:       r.Chunk.Text,
		})
	}
	return printJSON(cmd, out)
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredChunk) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		// [N] identifier #index (score) category
		cmd.Printf("  [%d] %s #%d (%d) %s\n", i+1, r.Chunk.Identifier, r.Chunk.Index, r.Score, r.Chunk.Category)
		cmd.Printf("      %s\n", snippet(r.Chunk.Text, 160))
		cmd.Println()
	}
}

// snippet flattens whitespace and cuts s to n runes.
func snippet(s string, n int) string {
	runes := []rune(strings.Join(strings.Fields(s), " "))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
