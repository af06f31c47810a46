package page

import (
	"context"
	"fmt"
	"html"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// OptFormat selects how HTML is rendered: "text" (default) or "markdown".
const OptFormat = "format"

// Formats accepted by OptFormat.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Extractor turns one response into one item keyed by the page URL.
type Extractor struct {
	conv *converter.Converter
}

// New creates a page extractor.
func New() *Extractor {
	return &Extractor{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Name returns "text".
func (e *Extractor) Name() string {
	return "text"
}

// Extract returns the page as a single item. A page with no text yields
// an item with empty text, which the chunker stores as nothing.
func (e *Extractor) Extract(_ context.Context, resp *driven.Response, src domain.SourceDescriptor) ([]driven.Item, error) {
	if resp == nil {
		return nil, domain.ErrInvalidInput
	}

	raw := strings.ToValidUTF8(string(resp.Body), "�")
	item := driven.Item{
		Key: resp.URL,
		URL: resp.URL,
	}

	if !isHTML(resp.ContentType, raw) {
		item.Title = titleFromURL(resp.URL)
		item.Text = strings.TrimSpace(raw)
		return []driven.Item{item}, nil
	}

	item.Title = extractTitle(raw, resp.URL)

	switch format := src.Option(OptFormat, FormatText); format {
	case FormatText:
		item.Text = stripHTML(raw)
	case FormatMarkdown:
		md, err := e.conv.ConvertString(raw)
		if err != nil {
			return nil, fmt.Errorf("convert to markdown: %w", err)
		}
		item.Text = strings.TrimSpace(md)
	default:
		return nil, fmt.Errorf("unknown %s %q", OptFormat, format)
	}

	return []driven.Item{item}, nil
}

// isHTML trusts the media type when there is one and sniffs otherwise.
func isHTML(contentType, body string) bool {
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			return mt == "text/html" || mt == "application/xhtml+xml"
		}
	}
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html")
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	breakTags         = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
)

// extractTitle returns the <title> text, or a name derived from the URL.
func extractTitle(content, rawURL string) string {
	if m := titleTag.FindStringSubmatch(content); len(m) > 1 {
		if title := strings.TrimSpace(html.UnescapeString(m[1])); title != "" {
			return title
		}
	}
	return titleFromURL(rawURL)
}

func titleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return u.Host
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// stripHTML drops non-content elements and tags, leaving one line per block.
func stripHTML(content string) string {
	for _, re := range []*regexp.Regexp{scriptTag, styleTag, noscriptTag, headTag, svgTag, htmlComments} {
		content = re.ReplaceAllString(content, "")
	}

	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = breakTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
