package driven

import "github.com/custodia-labs/biowatch/internal/core/domain"

// ConfigLoader reads engine configuration from storage.
// Implementations handle the file format and type conversion.
type ConfigLoader interface {
	// Load reads the configuration at path, applies defaults and validates it.
	// Validation failures wrap domain.ErrConfiguration.
	Load(path string) (domain.Config, error)
}
