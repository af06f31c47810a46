package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/biowatch/internal/core/domain"
)

// ResultList shows retrieval hits, two lines each: the chunk's location with
// its category and score, then a one-line preview of the text.
type ResultList struct {
	cursor[domain.ScoredChunk]
	styles *styles.Styles
}

// NewResultList creates an empty result list. A nil s uses the default styles.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{cursor: newCursor[domain.ScoredChunk](), styles: s}
}

// Init implements tea.Model.
func (r *ResultList) Init() tea.Cmd { return nil }

// Update handles list navigation.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	r.navigate(msg)
	return r, nil
}

// View renders the hits that fit in the current height.
func (r *ResultList) View() string {
	if r.IsEmpty() {
		return r.styles.Muted.Render("No results")
	}

	var b strings.Builder
	b.WriteString(r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", r.Count())))
	b.WriteString("\n")

	start, end := r.visible(r.height-4, 2)
	for i := start; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(r.renderHit(i == r.selected, &r.rows[i]))
	}
	return b.String()
}

func (r *ResultList) renderHit(selected bool, hit *domain.ScoredChunk) string {
	labelWidth := max(r.width-30, 10)
	label := truncate(fmt.Sprintf("%s #%d", hit.Chunk.Identifier, hit.Chunk.Index), labelWidth)
	score := fmt.Sprintf("%3d", hit.Score)
	category := fmt.Sprintf("%-8s", hit.Chunk.Category)

	var head string
	if selected {
		head = r.styles.Selected.Render(fmt.Sprintf("> %-*s  %s %s", labelWidth, label, category, score))
	} else {
		head = r.styles.Normal.Render(fmt.Sprintf("  %-*s  ", labelWidth, label)) +
			r.styles.ForCategory(hit.Chunk.Category).Render(category) + " " +
			r.styles.Muted.Render(score)
	}

	preview := truncate(singleLine(hit.Chunk.Text), max(r.width-6, 20))
	return head + "\n" + r.styles.Muted.Render("    "+preview)
}

// SetResults replaces the hits and selects the first one.
func (r *ResultList) SetResults(results []domain.ScoredChunk) {
	r.rows = results
	r.selected = 0
}

// Results returns the current hits.
func (r *ResultList) Results() []domain.ScoredChunk { return r.rows }

// SelectedResult returns the selected hit, or nil if the list is empty.
func (r *ResultList) SelectedResult() *domain.ScoredChunk { return r.current() }
