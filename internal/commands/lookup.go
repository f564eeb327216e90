package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/plume/internal/bundle"
	"github.com/simonhull/firebird-suite/plume/internal/output"
)

// LookupCmd creates the 'lookup' command
func LookupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [relative-id]",
		Short: "Print the schema registered under a relative identifier",
		Long: `Registers the inputs and prints the stored document for a relative
identifier, exactly as it was read ("$id" included).

Example:
  plume lookup somelocation/schema.json -i schemas/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.bundleOptions()
			if err != nil {
				output.Error(err.Error())
				return err
			}
			// lookup never writes a manifest
			opts.Output = ""
			opts.Loader.Stdin = cmd.InOrStdin()

			result, err := bundle.Run(cmd.Context(), opts, a.log)
			if err != nil {
				output.Error(err.Error())
				return err
			}

			entry, ok := result.Registry.Entry(args[0])
			if !ok {
				err := fmt.Errorf("no schema registered as %q", args[0])
				output.Error(err.Error())
				return err
			}
			output.Verbose(fmt.Sprintf("%s from %s", entry.Identity, sourceLabel(entry.Source)))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(entry.Document)
		},
	}

	addInputFlags(cmd.Flags())
	return cmd
}
