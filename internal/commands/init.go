package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/plume/internal/config"
	"github.com/simonhull/firebird-suite/plume/internal/input"
	"github.com/simonhull/firebird-suite/plume/internal/output"
	"github.com/simonhull/firebird-suite/plume/internal/writer"
)

const exampleSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://example.com/schemas/example.json",
  "title": "Example",
  "type": "object"
}
`

// InitCmd creates the 'init' command
func InitCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a plume.yml and an example schema",
		Long: `Writes a starter plume.yml, asking for the schema directory and the
manifest path. Both files are written together or not at all.

Example:
  plume init
  plume init myproject --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			err := runInit(dir, yes, input.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err != nil {
				output.Error(err.Error())
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept defaults without prompting")
	return cmd
}

func runInit(dir string, yes bool, p *input.Prompter) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		if yes || !p.Confirm(fmt.Sprintf("%s exists. Overwrite?", cfgPath), false) {
			return fmt.Errorf("%s already exists", cfgPath)
		}
	}

	schemaDir, out := "schemas", "dist/index.json"
	if !yes {
		schemaDir = p.Prompt("Schema directory", schemaDir)
		out = p.Prompt("Manifest path", out)
	}

	cfg := config.Default()
	cfg.Inputs = []string{schemaDir}
	cfg.Output = out
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	tx := newInitTransaction(dir, schemaDir, data)
	defer tx.Rollback()
	if err := tx.Commit(); err != nil {
		return err
	}

	output.Success(fmt.Sprintf("Created %s", cfgPath))
	output.Info("Next steps:")
	output.Step(fmt.Sprintf("add schemas with an absolute \"$id\" to %s", schemaDir))
	output.Step("plume bundle")
	return nil
}

// newInitTransaction stages plume.yml and, when the schema directory does
// not exist yet, an example schema inside it.
func newInitTransaction(dir, schemaDir string, cfgData []byte) *writer.Transaction {
	tx := writer.NewTransaction()
	tx.AddFile(filepath.Join(dir, config.FileName), cfgData, 0644)

	target := schemaDir
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, schemaDir)
	}
	if _, err := os.Stat(target); os.IsNotExist(err) {
		tx.AddFile(filepath.Join(target, "example.json"), []byte(exampleSchema), 0644)
	}
	return tx
}
