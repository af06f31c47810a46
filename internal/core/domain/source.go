package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// SourceKind identifies the poller type of a source descriptor.
type SourceKind string

const (
	// SourceKindFilesystem polls a local directory.
	SourceKindFilesystem SourceKind = "filesystem"

	// SourceKindRemote polls one or more HTTP endpoints.
	SourceKindRemote SourceKind = "remote"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	return k == SourceKindFilesystem || k == SourceKindRemote
}

// Category returns the category assigned to documents from this kind of source.
func (k SourceKind) Category() Category {
	if k == SourceKindRemote {
		return CategoryExternal
	}
	return CategoryInternal
}

// OptionNormalise is the filesystem source option that, when "true",
// converts Markdown and HTML files to plain text before fingerprinting.
const OptionNormalise = "normalise"

// DefaultExtensions is the allow-list used when a filesystem source lists none.
var DefaultExtensions = []string{".txt"}

// SourceDescriptor configures one poll source.
type SourceDescriptor struct {
	// Kind selects the poller.
	Kind SourceKind

	// Name is the unique name of the source. Remote identifiers are prefixed with it.
	Name string

	// Path is the directory to enumerate (filesystem only).
	Path string

	// Extensions is the file extension allow-list, e.g. ".txt" (filesystem only).
	// Entries containing glob metacharacters are used as name patterns verbatim.
	Extensions []string

	// Depth limits directory recursion (filesystem only).
	// Zero means unlimited; 1 means only files directly under Path.
	Depth int

	// Endpoints are the URLs fetched each cycle (remote only).
	Endpoints []string

	// Extractor names the registered extractor that turns a response into items (remote only).
	Extractor string

	// Options holds extractor-specific settings.
	Options map[string]string
}

// Validate checks the descriptor in isolation.
// All problems are reported together, each wrapping ErrConfiguration.
func (d *SourceDescriptor) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: source %q: %s", ErrConfiguration, d.Name, fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(d.Name) == "" {
		fail("name is required")
	}
	if strings.Contains(d.Name, RemoteIdentifierSeparator) {
		fail("name must not contain %q", RemoteIdentifierSeparator)
	}

	switch d.Kind {
	case SourceKindFilesystem:
		if strings.TrimSpace(d.Path) == "" {
			fail("path is required")
		}
		for _, ext := range d.Extensions {
			if strings.TrimSpace(ext) == "" {
				fail("empty extension in allow-list")
			}
		}
		if d.Depth < 0 {
			fail("depth must not be negative")
		}
	case SourceKindRemote:
		if len(d.Endpoints) == 0 {
			fail("at least one endpoint is required")
		}
		for _, ep := range d.Endpoints {
			u, err := url.Parse(ep)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				fail("invalid endpoint %q", ep)
			}
		}
		if strings.TrimSpace(d.Extractor) == "" {
			fail("extractor is required")
		}
	default:
		fail("unknown kind %q", d.Kind)
	}

	return errors.Join(errs...)
}

// Option returns an extractor option, or def when unset.
func (d *SourceDescriptor) Option(key, def string) string {
	if v, ok := d.Options[key]; ok && v != "" {
		return v
	}
	return def
}
