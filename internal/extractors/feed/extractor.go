// Package feed provides an Extractor for RSS 2.0, RSS 1.0 and Atom feeds.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor turns each feed entry into one item.
type Extractor struct{}

// New creates a feed extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns "rss".
func (e *Extractor) Name() string {
	return "rss"
}

// entry is the subset of an RSS item or Atom entry that becomes an item.
type entry struct {
	id      string
	link    string
	title   string
	date    string
	summary string
}

// Extract parses the feed. Entries are keyed by guid or id, then link,
// then title; entries with none of these are skipped.
func (e *Extractor) Extract(_ context.Context, resp *driven.Response, _ domain.SourceDescriptor) ([]driven.Item, error) {
	if resp == nil {
		return nil, domain.ErrInvalidInput
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(resp.Body); err != nil {
		return nil, fmt.Errorf("parse feed XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse feed XML: no root element")
	}

	var entries []entry
	switch root.Tag {
	case "rss":
		channel := root.SelectElement("channel")
		if channel == nil {
			return nil, fmt.Errorf("rss feed has no channel")
		}
		entries = rssEntries(channel.SelectElements("item"))
	case "RDF":
		entries = rssEntries(root.SelectElements("item"))
	case "feed":
		entries = atomEntries(root.SelectElements("entry"))
	default:
		return nil, fmt.Errorf("unsupported feed root <%s>", root.Tag)
	}

	items := make([]driven.Item, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, en := range entries {
		key := firstNonEmpty(en.id, en.link, en.title)
		if key == "" || seen[key] {
			logger.Debug("Skipping feed entry %d of %s: no usable key", i, resp.URL)
			continue
		}
		seen[key] = true

		items = append(items, driven.Item{
			Key:   key,
			Title: en.title,
			Text:  joinNonEmpty(en.title, en.date, en.summary),
			URL:   en.link,
		})
	}

	return items, nil
}

func rssEntries(elems []*etree.Element) []entry {
	entries := make([]entry, 0, len(elems))
	for _, el := range elems {
		entries = append(entries, entry{
			id:      childText(el, "guid"),
			link:    childText(el, "link"),
			title:   childText(el, "title"),
			date:    firstNonEmpty(childText(el, "pubDate"), childText(el, "date")),
			summary: htmlText(firstNonEmpty(childText(el, "description"), childText(el, "encoded"))),
		})
	}
	return entries
}

func atomEntries(elems []*etree.Element) []entry {
	entries := make([]entry, 0, len(elems))
	for _, el := range elems {
		entries = append(entries, entry{
			id:      childText(el, "id"),
			link:    atomLink(el),
			title:   htmlText(childText(el, "title")),
			date:    firstNonEmpty(childText(el, "updated"), childText(el, "published")),
			summary: htmlText(firstNonEmpty(childText(el, "summary"), childText(el, "content"))),
		})
	}
	return entries
}

// atomLink prefers the alternate link, which is the default relation.
func atomLink(el *etree.Element) string {
	var fallback string
	for _, link := range el.SelectElements("link") {
		href := strings.TrimSpace(link.SelectAttrValue("href", ""))
		if href == "" {
			continue
		}
		if rel := link.SelectAttrValue("rel", "alternate"); rel == "alternate" {
			return href
		}
		if fallback == "" {
			fallback = href
		}
	}
	return fallback
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// htmlText reduces escaped HTML in feed fields to plain text.
func htmlText(s string) string {
	if !strings.Contains(s, "<") {
		return collapse(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}
	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(parts ...string) string {
	var buf bytes.Buffer
	for _, p := range parts {
		if p == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(p)
	}
	return buf.String()
}
