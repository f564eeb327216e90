package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/simonhull/firebird-suite/plume/internal/bundle"
	"github.com/simonhull/firebird-suite/plume/internal/inputs"
	"github.com/simonhull/firebird-suite/plume/internal/manifest"
	"github.com/simonhull/firebird-suite/plume/internal/output"
	"github.com/simonhull/firebird-suite/plume/internal/schema"
	"github.com/simonhull/firebird-suite/plume/internal/writer"
)

// BundleCmd creates the 'bundle' command
func BundleCmd(a *app) *cobra.Command {
	var (
		force, skip, diff, dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Register schemas and write the registry manifest",
		Long: `Loads every input, registers each schema under its relative identifier,
and reports what was stored, replaced, or skipped.

With --output, writes a manifest listing every registered schema's relative
identifier, canonical "$id", and source file.

Examples:
  plume bundle -i schemas/
  plume bundle -i a.json -i b.json -o dist/index.json
  plume bundle -i schemas/ -o dist/index.yaml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := writer.NewResolver(force, skip, diff)
			if err != nil {
				output.Error(err.Error())
				return err
			}

			opts, err := a.bundleOptions()
			if err != nil {
				output.Error(err.Error())
				return err
			}
			opts.Loader.Stdin = cmd.InOrStdin()
			opts.Resolver = resolver
			opts.DryRun = dryRun
			opts.Report = cmd.OutOrStdout()

			result, err := bundle.Run(cmd.Context(), opts, a.log)
			if err != nil {
				output.Error(err.Error())
				return err
			}

			reportResult(result)
			return nil
		},
	}

	addInputFlags(cmd.Flags())
	cmd.Flags().StringP("output", "o", "", "Write the registry manifest to this file")
	cmd.Flags().String("format", "", "Manifest format: json or yaml (default: from --output extension)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing manifest without prompting")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep an existing manifest without prompting")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a diff before deciding about an existing manifest")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be written without writing")

	return cmd
}

// addInputFlags registers the flags shared by commands that load schemas.
func addInputFlags(flags *pflag.FlagSet) {
	flags.StringArrayP("input", "i", nil, "Input file or directory (repeat for several, - for stdin)")
	flags.Int("workers", 0, "Parallel parsers (default: one per CPU)")
}

// bundleOptions translates the loaded config into pipeline options.
func (a *app) bundleOptions() (bundle.Options, error) {
	cfg := a.cfg
	if len(cfg.Inputs) == 0 {
		return bundle.Options{}, fmt.Errorf("no inputs given: use -i or set inputs in plume.yml")
	}

	var format manifest.Format
	if cfg.Format != "" {
		f, err := manifest.ParseFormat(cfg.Format)
		if err != nil {
			return bundle.Options{}, err
		}
		format = f
	}

	return bundle.Options{
		Inputs: cfg.Inputs,
		Loader: inputs.Options{Walk: cfg.WalkOptions(), Workers: cfg.Workers},
		Output: cfg.Output,
		Format: format,
	}, nil
}

func reportResult(result *bundle.Result) {
	for _, o := range result.Outcomes {
		switch o.Status {
		case schema.Dropped:
			output.Warn(fmt.Sprintf("Skipped %s: %v", sourceLabel(o.Source), o.Err))
		case schema.Replaced:
			output.Verbose(fmt.Sprintf("%s replaced by %s", o.Identity.Relative, sourceLabel(o.Source)))
		default:
			output.Verbose(fmt.Sprintf("%s ← %s", o.Identity.Relative, o.Identity))
		}
	}

	output.Success(fmt.Sprintf("Registered %d schemas", result.Registry.Size()))
	if n := result.Count(schema.Replaced); n > 0 {
		output.Step(fmt.Sprintf("%d replaced an earlier schema with the same relative identifier", n))
	}
	if n := result.Count(schema.Dropped); n > 0 {
		output.Step(fmt.Sprintf("%d skipped without a valid $id", n))
	}
}

func sourceLabel(source string) string {
	if source == "" || source == inputs.StdinName {
		return "stdin"
	}
	return source
}
