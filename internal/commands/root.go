package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	plume "github.com/simonhull/firebird-suite/plume"
	"github.com/simonhull/firebird-suite/plume/internal/config"
	"github.com/simonhull/firebird-suite/plume/internal/output"
	"github.com/simonhull/firebird-suite/plume/pkg/logger"
)

// app carries state shared by subcommands after the root pre-run.
type app struct {
	v          *viper.Viper
	configPath string
	verbose    bool

	cfg *config.Config
	log logger.Logger
}

// RootCmd creates and returns the root command for the plume CLI
func RootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "plume",
		Short: "Register and index JSON Schema documents for bundling",
		Long: `Plume reads JSON Schema documents, derives each schema's identity from
its "$id", and keeps them in a registry addressable by relative path.

Each schema root must declare an absolute "$id" URI. The relative identifier
is the URI path without its leading "/":

  https://foo.com/somelocation/schema.json  ->  somelocation/schema.json

Documents without a valid "$id" are reported and skipped.`,
		Version:       plume.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		output.Error(err.Error())
		return err
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: ./plume.yml if present)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Show detailed output")
	flags.Bool("debug", false, "Output debug information")
	_ = a.v.BindPFlag("debug", flags.Lookup("debug"))

	cmd.AddCommand(BundleCmd(a))
	cmd.AddCommand(LookupCmd(a))
	cmd.AddCommand(InitCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// flagKeys maps command flags onto config keys.
var flagKeys = map[string]string{
	"input":   "inputs",
	"output":  "output",
	"format":  "format",
	"workers": "workers",
}

// setup binds the running command's flags, loads configuration and builds
// the diagnostics logger.
func (a *app) setup(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logger.New(logger.Options{
		Level: cfg.Level(),
		Out:   os.Stderr,
		Color: term.IsTerminal(int(os.Stderr.Fd())),
	})
	logger.SetDefault(a.log)

	output.SetVerbose(a.verbose || cfg.Debug)
	a.log.Debug("Configuration loaded",
		logger.F("config", a.v.ConfigFileUsed()),
		logger.F("inputs", cfg.Inputs),
		logger.F("output", cfg.Output))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "plume v%s\n", plume.Version)
		},
	}
}
