// Package jsonapi provides an Extractor for JSON endpoints that return a
// list of records, such as alert or advisory feeds.
package jsonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Option keys read from the source descriptor.
const (
	OptItemsPath  = "items_path"
	OptKeyField   = "key_field"
	OptTitleField = "title_field"
	OptTextFields = "text_fields"
	OptURLField   = "url_field"
)

// Option defaults.
const (
	DefaultKeyField   = "id"
	DefaultTitleField = "title"
	DefaultTextFields = "title,content"
	DefaultURLField   = "url"
)

// Extractor turns each record of a JSON array into one item.
type Extractor struct{}

// New creates a JSON extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns "json".
func (e *Extractor) Name() string {
	return "json"
}

// Extract decodes the body and maps each record to an item. The array is
// either the document root or the value at items_path, a dot-separated path
// of object keys. Records without a key are skipped.
func (e *Extractor) Extract(_ context.Context, resp *driven.Response, src domain.SourceDescriptor) ([]driven.Item, error) {
	if resp == nil {
		return nil, domain.ErrInvalidInput
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	node, err := walk(root, src.Option(OptItemsPath, ""))
	if err != nil {
		return nil, err
	}
	records, ok := node.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %s", kindOf(node))
	}

	keyField := src.Option(OptKeyField, DefaultKeyField)
	titleField := src.Option(OptTitleField, DefaultTitleField)
	urlField := src.Option(OptURLField, DefaultURLField)
	textFields := splitFields(src.Option(OptTextFields, DefaultTextFields))

	items := make([]driven.Item, 0, len(records))
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			logger.Debug("Skipping record %d of %s: not an object", i, resp.URL)
			continue
		}
		key := stringify(obj[keyField])
		if key == "" {
			logger.Debug("Skipping record %d of %s: no %q field", i, resp.URL, keyField)
			continue
		}

		var parts []string
		for _, f := range textFields {
			if v := stringify(obj[f]); v != "" {
				parts = append(parts, v)
			}
		}

		items = append(items, driven.Item{
			Key:   key,
			Title: stringify(obj[titleField]),
			Text:  strings.Join(parts, "\n"),
			URL:   stringify(obj[urlField]),
		})
	}

	return items, nil
}

// walk follows a dot-separated path of object keys.
func walk(node any, path string) (any, error) {
	if path == "" {
		return node, nil
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("items path %q: %q is not inside an object", path, key)
		}
		next, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("items path %q: key %q not found", path, key)
		}
		node = next
	}
	return node, nil
}

func splitFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// stringify renders scalar values as text. Nested values are re-encoded.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
