package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeKind_String(t *testing.T) {
	tests := []struct {
		kind     ChangeKind
		expected string
	}{
		{ChangeAdded, "added"},
		{ChangeModified, "modified"},
		{ChangeDeleted, "deleted"},
		{ChangeKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestChangeEvent_JSONUsesKindName(t *testing.T) {
	ev := ChangeEvent{
		Kind:       ChangeModified,
		Identifier: "/data/a.txt",
		Content:    "gamma delta",
		Category:   CategoryInternal,
		Source:     "docs",
		ObservedAt: time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"kind":"modified"`)
	assert.Contains(t, string(data), `"category":"internal"`)

	var decoded ChangeEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ev, decoded)
}

func TestChangeEvent_DeletedOmitsContent(t *testing.T) {
	ev := ChangeEvent{Kind: ChangeDeleted, Identifier: "/data/a.txt"}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "content")
}

func TestEventFilter_Matches(t *testing.T) {
	fileAdded := ChangeEvent{Kind: ChangeAdded, Category: CategoryInternal}
	webModified := ChangeEvent{Kind: ChangeModified, Category: CategoryExternal}
	webDeleted := ChangeEvent{Kind: ChangeDeleted, Category: CategoryExternal}

	tests := []struct {
		name   string
		filter EventFilter
		event  ChangeEvent
		want   bool
	}{
		{"zero filter matches file event", EventFilter{}, fileAdded, true},
		{"zero filter matches web event", EventFilter{}, webDeleted, true},
		{"kind filter accepts", EventFilter{Kinds: []ChangeKind{ChangeAdded, ChangeModified}}, webModified, true},
		{"kind filter rejects", EventFilter{Kinds: []ChangeKind{ChangeAdded, ChangeModified}}, webDeleted, false},
		{"category filter accepts", EventFilter{Categories: []Category{CategoryExternal}}, webDeleted, true},
		{"category filter rejects", EventFilter{Categories: []Category{CategoryExternal}}, fileAdded, false},
		{
			"both filters must match",
			EventFilter{Kinds: []ChangeKind{ChangeAdded}, Categories: []Category{CategoryExternal}},
			fileAdded,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.event))
		})
	}
}

func TestParseChangeKind(t *testing.T) {
	for _, kind := range []ChangeKind{ChangeAdded, ChangeModified, ChangeDeleted} {
		got, err := ParseChangeKind(" " + kind.String() + " ")
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	got, err := ParseChangeKind("Deleted")
	require.NoError(t, err)
	assert.Equal(t, ChangeDeleted, got)

	_, err = ParseChangeKind("renamed")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
