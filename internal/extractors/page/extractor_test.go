package page

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

const bulletin = `<!DOCTYPE html>
<html><head><title>Weekly &amp; Bulletin</title><style>p{color:red}</style></head>
<body>
<script>var tracking = true;</script>
<h1>Outbreak news</h1>
<p>Influenza   activity is <b>increasing</b>.</p>
<!-- hidden note -->
<ul><li>Region A</li><li>Region B</li></ul>
</body></html>`

func source(opts map[string]string) domain.SourceDescriptor {
	return domain.SourceDescriptor{Kind: domain.SourceKindRemote, Name: "bulletin", Options: opts}
}

func TestName(t *testing.T) {
	assert.Equal(t, "text", New().Name())
}

func TestExtract_HTMLText(t *testing.T) {
	resp := &driven.Response{URL: "https://health.test/bulletin", ContentType: "text/html; charset=utf-8", Body: []byte(bulletin)}

	items, err := New().Extract(context.Background(), resp, source(nil))
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "https://health.test/bulletin", item.Key)
	assert.Equal(t, "https://health.test/bulletin", item.URL)
	assert.Equal(t, "Weekly & Bulletin", item.Title)
	assert.Equal(t, "Outbreak news\nInfluenza activity is increasing.\nRegion A\nRegion B", item.Text)
	assert.NotContains(t, item.Text, "tracking")
	assert.NotContains(t, item.Text, "hidden note")
}

func TestExtract_HTMLMarkdown(t *testing.T) {
	resp := &driven.Response{URL: "https://health.test/bulletin", ContentType: "text/html", Body: []byte(bulletin)}

	items, err := New().Extract(context.Background(), resp, source(map[string]string{OptFormat: FormatMarkdown}))
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Contains(t, items[0].Text, "# Outbreak news")
	assert.Contains(t, items[0].Text, "**increasing**")
	assert.Contains(t, items[0].Text, "Region A")
}

func TestExtract_UnknownFormat(t *testing.T) {
	resp := &driven.Response{URL: "https://health.test/", ContentType: "text/html", Body: []byte(bulletin)}

	_, err := New().Extract(context.Background(), resp, source(map[string]string{OptFormat: "pdf"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf")
}

func TestExtract_PlainText(t *testing.T) {
	resp := &driven.Response{URL: "https://health.test/notes/daily-report.txt", ContentType: "text/plain", Body: []byte("  <b>not html</b>\n")}

	items, err := New().Extract(context.Background(), resp, source(nil))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "daily report", items[0].Title)
	assert.Equal(t, "<b>not html</b>", items[0].Text)
}

func TestExtract_SniffsHTMLWithoutContentType(t *testing.T) {
	resp := &driven.Response{URL: "https://health.test/", Body: []byte("<html><body><p>hi there</p></body></html>")}

	items, err := New().Extract(context.Background(), resp, source(nil))
	require.NoError(t, err)
	assert.Equal(t, "hi there", items[0].Text)
	assert.Equal(t, "health.test", items[0].Title)
}

func TestExtract_NilResponse(t *testing.T) {
	_, err := New().Extract(context.Background(), nil, source(nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        bool
	}{
		{"html type", "text/html", "", true},
		{"xhtml type", "application/xhtml+xml", "", true},
		{"json type wins over body", "application/json", "<html>", false},
		{"sniff doctype", "", "<!DOCTYPE html><p>", true},
		{"sniff plain", "", "hello", false},
		{"bad type falls back to sniff", ";;", "<html>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHTML(tt.contentType, tt.body))
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"entities", "<p>a &lt; b</p>", "a < b"},
		{"line breaks", "one<br/>two<hr>three", "one\ntwo\nthree"},
		{"svg dropped", "<div><svg><text>x</text></svg>kept</div>", "kept"},
		{"empty", "<div> </div>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.in))
		})
	}
}
