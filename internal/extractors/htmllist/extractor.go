// Package htmllist provides an Extractor for HTML listing pages, such as a
// news index, where each matching element is one item.
package htmllist

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Option keys read from the source descriptor.
const (
	OptItemSelector  = "item_selector"
	OptTitleSelector = "title_selector"
	OptDateSelector  = "date_selector"
	OptTextSelector  = "text_selector"
	OptLinkSelector  = "link_selector"
	OptLimit         = "limit"
)

// Option defaults.
const (
	DefaultItemSelector  = "article"
	DefaultTitleSelector = "h1, h2, h3"
	DefaultDateSelector  = "time"
	DefaultLinkSelector  = "a[href]"
)

// Extractor selects items from an HTML page with CSS selectors.
type Extractor struct{}

// New creates an HTML listing extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns "html".
func (e *Extractor) Name() string {
	return "html"
}

// Extract returns one item per element matching item_selector, in document
// order. The key is the item's first link resolved against the page URL,
// or its title when it has no link. Elements with neither are skipped.
func (e *Extractor) Extract(_ context.Context, resp *driven.Response, src domain.SourceDescriptor) ([]driven.Item, error) {
	if resp == nil {
		return nil, domain.ErrInvalidInput
	}

	limit, err := strconv.Atoi(src.Option(OptLimit, "0"))
	if err != nil || limit < 0 {
		return nil, fmt.Errorf("invalid %s %q", OptLimit, src.Option(OptLimit, ""))
	}

	base, err := url.Parse(resp.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	titleSel := src.Option(OptTitleSelector, DefaultTitleSelector)
	dateSel := src.Option(OptDateSelector, DefaultDateSelector)
	textSel := src.Option(OptTextSelector, "")
	linkSel := src.Option(OptLinkSelector, DefaultLinkSelector)

	var items []driven.Item
	seen := make(map[string]bool)
	doc.Find(src.Option(OptItemSelector, DefaultItemSelector)).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		title := collapse(sel.Find(titleSel).First().Text())
		date := collapse(sel.Find(dateSel).First().Text())

		var body string
		if textSel != "" {
			body = collapse(sel.Find(textSel).Text())
		} else {
			body = collapse(sel.Text())
		}

		var link string
		if href, ok := sel.Find(linkSel).First().Attr("href"); ok {
			link = resolveURL(base, href)
		}

		key := link
		if key == "" {
			key = title
		}
		if key == "" || seen[key] {
			logger.Debug("Skipping element %d of %s: no usable key", i, resp.URL)
			return true
		}
		seen[key] = true

		items = append(items, driven.Item{
			Key:   key,
			Title: title,
			Text:  joinNonEmpty(title, date, body),
			URL:   link,
		})
		return limit == 0 || len(items) < limit
	})

	return items, nil
}

// resolveURL makes href absolute. Fragments are dropped.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	u.Fragment = ""
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// joinNonEmpty joins the non-empty parts with newlines, dropping a part
// that repeats the one before it.
func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p == "" || (len(out) > 0 && out[len(out)-1] == p) {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "\n")
}
