package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.ConfigLoader = (*Loader)(nil)

// DefaultFileName is the config file looked up in the default directory.
const DefaultFileName = "config.toml"

// File is the on-disk shape of the configuration. Durations are strings
// such as "10s" or "1m30s"; unset fields take engine defaults.
type File struct {
	PollInterval    string       `toml:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
	IOTimeout       string       `toml:"io_timeout,omitempty" yaml:"io_timeout,omitempty"`
	SourceTimeout   string       `toml:"source_timeout,omitempty" yaml:"source_timeout,omitempty"`
	ChunkSize       int          `toml:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
	ChunkOverlap    *int         `toml:"chunk_overlap,omitempty" yaml:"chunk_overlap,omitempty"`
	ReadConcurrency int          `toml:"read_concurrency,omitempty" yaml:"read_concurrency,omitempty"`
	EventLogSize    int          `toml:"event_log_size,omitempty" yaml:"event_log_size,omitempty"`
	Journal         string       `toml:"journal,omitempty" yaml:"journal,omitempty"`
	Sources         []SourceFile `toml:"sources" yaml:"sources"`
}

// SourceFile is one [[sources]] entry.
type SourceFile struct {
	Kind       string            `toml:"kind" yaml:"kind"`
	Name       string            `toml:"name" yaml:"name"`
	Path       string            `toml:"path,omitempty" yaml:"path,omitempty"`
	Extensions []string          `toml:"extensions,omitempty" yaml:"extensions,omitempty"`
	Depth      int               `toml:"depth,omitempty" yaml:"depth,omitempty"`
	Endpoints  []string          `toml:"endpoints,omitempty" yaml:"endpoints,omitempty"`
	Extractor  string            `toml:"extractor,omitempty" yaml:"extractor,omitempty"`
	Options    map[string]string `toml:"options,omitempty" yaml:"options,omitempty"`
}

// Loader reads and writes configuration files. The format follows the
// extension: .yaml and .yml are YAML, anything else is TOML.
type Loader struct{}

// NewLoader creates a config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// DefaultPath returns ~/.biowatch/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".biowatch", DefaultFileName), nil
}

// Load reads the file at path, applies defaults and validates the result.
func (l *Loader) Load(path string) (domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	var f File
	if isYAML(path) {
		err = yaml.Unmarshal(data, &f)
	} else {
		err = toml.Unmarshal(data, &f)
	}
	if err != nil {
		return domain.Config{}, fmt.Errorf("%w: parse %s: %w", domain.ErrConfiguration, filepath.Base(path), err)
	}

	cfg, err := f.Config()
	if err != nil {
		return domain.Config{}, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}

	// Relative paths are relative to the config file.
	dir := filepath.Dir(path)
	if cfg.JournalPath != "" && cfg.JournalPath != ":memory:" && !filepath.IsAbs(cfg.JournalPath) {
		cfg.JournalPath = filepath.Join(dir, cfg.JournalPath)
	}
	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		if src.Kind == domain.SourceKindFilesystem && !filepath.IsAbs(src.Path) {
			src.Path = filepath.Join(dir, src.Path)
		}
	}

	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func (l *Loader) Save(path string, cfg domain.Config) error {
	f := FromConfig(cfg)

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(f)
	} else {
		data, err = toml.Marshal(f)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Config converts the file into an engine configuration, starting from the
// defaults. Invalid durations wrap domain.ErrConfiguration.
func (f *File) Config() (domain.Config, error) {
	cfg := domain.DefaultConfig()

	var errs []error
	duration := func(name, value string, dst *time.Duration) {
		if value == "" {
			return
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: invalid duration %q", domain.ErrConfiguration, name, value))
			return
		}
		*dst = d
	}
	duration("poll_interval", f.PollInterval, &cfg.PollInterval)
	duration("io_timeout", f.IOTimeout, &cfg.IOTimeout)
	duration("source_timeout", f.SourceTimeout, &cfg.SourceTimeout)
	if err := errors.Join(errs...); err != nil {
		return domain.Config{}, err
	}

	if f.ChunkSize != 0 {
		cfg.ChunkSize = f.ChunkSize
	}
	if f.ChunkOverlap != nil {
		cfg.ChunkOverlap = *f.ChunkOverlap
	}
	if f.ReadConcurrency != 0 {
		cfg.ReadConcurrency = f.ReadConcurrency
	}
	if f.EventLogSize != 0 {
		cfg.EventLogSize = f.EventLogSize
	}
	cfg.JournalPath = strings.TrimSpace(f.Journal)

	for _, s := range f.Sources {
		cfg.Sources = append(cfg.Sources, domain.SourceDescriptor{
			Kind:       domain.SourceKind(strings.ToLower(strings.TrimSpace(s.Kind))),
			Name:       s.Name,
			Path:       s.Path,
			Extensions: s.Extensions,
			Depth:      s.Depth,
			Endpoints:  s.Endpoints,
			Extractor:  s.Extractor,
			Options:    s.Options,
		})
	}

	return cfg, nil
}

// FromConfig is the inverse of File.Config.
func FromConfig(cfg domain.Config) File {
	overlap := cfg.ChunkOverlap
	f := File{
		PollInterval:    cfg.PollInterval.String(),
		IOTimeout:       cfg.IOTimeout.String(),
		SourceTimeout:   cfg.SourceTimeout.String(),
		ChunkSize:       cfg.ChunkSize,
		ChunkOverlap:    &overlap,
		ReadConcurrency: cfg.ReadConcurrency,
		EventLogSize:    cfg.EventLogSize,
		Journal:         cfg.JournalPath,
	}
	for _, s := range cfg.Sources {
		f.Sources = append(f.Sources, SourceFile{
			Kind:       string(s.Kind),
			Name:       s.Name,
			Path:       s.Path,
			Extensions: s.Extensions,
			Depth:      s.Depth,
			Endpoints:  s.Endpoints,
			Extractor:  s.Extractor,
			Options:    s.Options,
		})
	}
	return f
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
