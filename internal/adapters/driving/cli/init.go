package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/biowatch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/biowatch/internal/core/domain"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example config file",
	Long: `Writes an example configuration with one filesystem source and one
remote JSON source. The format follows the file extension: .yaml or .yml
writes YAML, anything else TOML.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

// exampleConfig is the starting configuration written by init.
func exampleConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Sources = []domain.SourceDescriptor{
		{
			Kind:       domain.SourceKindFilesystem,
			Name:       "hospital-docs",
			Path:       "data",
			Extensions: []string{".txt", ".md"},
			Options:    map[string]string{domain.OptionNormalise: "true"},
		},
		{
			Kind:      domain.SourceKindRemote,
			Name:      "alerts",
			Endpoints: []string{"http://localhost:5000/api/alerts"},
			Extractor: "json",
			Options: map[string]string{
				"key_field":   "id",
				"text_fields": "title,content",
			},
		},
	}
	return cfg
}

func runInit(cmd *cobra.Command, _ []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check %s: %w", path, err)
	}

	if err := file.NewLoader().Save(path, exampleConfig()); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(filepath.Dir(path), "data"), 0o700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	cmd.Printf("Wrote %s\n", path)
	return nil
}
