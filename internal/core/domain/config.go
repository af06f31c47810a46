package domain

import (
	"errors"
	"fmt"
	"time"
)

// Defaults for engine configuration.
const (
	DefaultPollInterval    = 10 * time.Second
	DefaultIOTimeout       = 10 * time.Second
	DefaultSourceTimeout   = 30 * time.Second
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 200
	DefaultReadConcurrency = 8
	DefaultEventLogSize    = 200
)

// Config holds engine configuration.
type Config struct {
	// PollInterval is the time between poll cycles.
	PollInterval time.Duration

	// IOTimeout bounds each single I/O call (file read, HTTP fetch).
	IOTimeout time.Duration

	// SourceTimeout bounds one source's entire poll.
	SourceTimeout time.Duration

	// ChunkSize is the sliding window size in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by consecutive windows.
	ChunkOverlap int

	// ReadConcurrency bounds parallel reads within one source.
	ReadConcurrency int

	// EventLogSize is how many recent change events are retained for display.
	EventLogSize int

	// JournalPath enables the SQLite change journal when set.
	// ":memory:" keeps the journal in process memory.
	JournalPath string

	// Sources is the ordered list of poll sources.
	Sources []SourceDescriptor
}

// DefaultConfig returns a configuration with every default applied and no sources.
func DefaultConfig() Config {
	return Config{
		PollInterval:    DefaultPollInterval,
		IOTimeout:       DefaultIOTimeout,
		SourceTimeout:   DefaultSourceTimeout,
		ChunkSize:       DefaultChunkSize,
		ChunkOverlap:    DefaultChunkOverlap,
		ReadConcurrency: DefaultReadConcurrency,
		EventLogSize:    DefaultEventLogSize,
	}
}

// ApplyDefaults fills zero-valued fields with defaults.
// Negative values are left alone so Validate can reject them.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.PollInterval == 0 {
		c.PollInterval = def.PollInterval
	}
	if c.IOTimeout == 0 {
		c.IOTimeout = def.IOTimeout
	}
	if c.SourceTimeout == 0 {
		c.SourceTimeout = def.SourceTimeout
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = def.ChunkSize
	}
	if c.ReadConcurrency == 0 {
		c.ReadConcurrency = def.ReadConcurrency
	}
	if c.EventLogSize == 0 {
		c.EventLogSize = def.EventLogSize
	}
	for i := range c.Sources {
		if c.Sources[i].Kind == SourceKindFilesystem && len(c.Sources[i].Extensions) == 0 {
			c.Sources[i].Extensions = append([]string(nil), DefaultExtensions...)
		}
	}
}

// Validate checks the whole configuration, reporting every problem at once.
// The returned error wraps ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...)))
	}

	if c.PollInterval <= 0 {
		fail("poll interval must be positive")
	}
	if c.IOTimeout <= 0 {
		fail("io timeout must be positive")
	}
	if c.SourceTimeout <= 0 {
		fail("source timeout must be positive")
	}
	if c.ChunkSize <= 0 {
		fail("chunk size must be positive")
	}
	if c.ChunkOverlap < 0 {
		fail("chunk overlap must not be negative")
	}
	if c.ChunkOverlap >= c.ChunkSize {
		fail("chunk overlap (%d) must be smaller than chunk size (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.ReadConcurrency < 0 {
		fail("read concurrency must not be negative")
	}
	if c.EventLogSize < 0 {
		fail("event log size must not be negative")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		src := &c.Sources[i]
		if err := src.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[src.Name] {
			fail("duplicate source name %q", src.Name)
		}
		seen[src.Name] = true
	}

	return errors.Join(errs...)
}
