package domain

import (
	"fmt"
	"strings"
	"time"
)

// ChangeKind represents the type of document change.
type ChangeKind int

const (
	// ChangeAdded indicates an identifier seen for the first time.
	ChangeAdded ChangeKind = iota

	// ChangeModified indicates a tracked identifier whose content changed.
	ChangeModified

	// ChangeDeleted indicates a tracked identifier confirmed absent.
	ChangeDeleted
)

// String returns a human-readable name for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so events serialise by name.
func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ChangeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseChangeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseChangeKind converts a kind name such as "added" into a ChangeKind.
func ParseChangeKind(s string) (ChangeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "added":
		return ChangeAdded, nil
	case "modified":
		return ChangeModified, nil
	case "deleted":
		return ChangeDeleted, nil
	default:
		return 0, fmt.Errorf("%w: unknown change kind %q", ErrInvalidInput, s)
	}
}

// ChangeEvent is emitted once per observed state transition of an identifier.
type ChangeEvent struct {
	// Kind is the type of change.
	Kind ChangeKind `json:"kind"`

	// Identifier is the affected item.
	Identifier SourceIdentifier `json:"identifier"`

	// Content is the new text. Empty for deletions.
	Content string `json:"content,omitempty"`

	// Category is the origin tag of the item.
	Category Category `json:"category"`

	// Source is the configured name of the source that reported the change.
	Source string `json:"source"`

	// ObservedAt is when the change was detected.
	ObservedAt time.Time `json:"observed_at"`
}

// EventFilter selects which events a subscriber receives.
// Empty slices match everything.
type EventFilter struct {
	// Kinds restricts delivery to these change kinds.
	Kinds []ChangeKind

	// Categories restricts delivery to these categories.
	Categories []Category
}

// Matches reports whether the event passes the filter.
func (f EventFilter) Matches(ev ChangeEvent) bool {
	if len(f.Kinds) > 0 && !containsKind(f.Kinds, ev.Kind) {
		return false
	}
	if len(f.Categories) > 0 && !containsCategory(f.Categories, ev.Category) {
		return false
	}
	return true
}

func containsKind(kinds []ChangeKind, k ChangeKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func containsCategory(cats []Category, c Category) bool {
	for _, cat := range cats {
		if cat == c {
			return true
		}
	}
	return false
}
