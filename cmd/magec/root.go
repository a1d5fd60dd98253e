package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd implements spec.md §6's CLI surface directly: `magec <grammar-file>
// <template-name> --out-dir <path>`, no subcommand name required (mirroring
// the teacher's own SilenceErrors/SilenceUsage root command, grounded in
// cmd/vartan/root.go), plus a "fuzz" subcommand exposing the fuzzer's
// textual progress/seed/disagreement output (spec.md §6's "Fuzzer output"
// bullet).
var rootCmd = &cobra.Command{
	Use:           "magec <grammar-file> <template-name>",
	Short:         "Generate a recursive-descent parser from a Mage grammar",
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootFlags.noColor {
			color.NoColor = true
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(args[0], args[1], rootFlags.outDir)
	},
}

var rootFlags = struct {
	outDir  string
	verbose bool
	noColor bool
}{}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.outDir, "out-dir", "output", "directory the generated source is written into")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "emit structured progress logging")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.noColor, "no-color", false, "disable colored diagnostic output")
	rootCmd.AddCommand(fuzzCmd)
}

// Execute runs the CLI and returns a non-nil error on any diagnostic or
// filesystem failure (spec.md §6: "Exit 0 on success, non-zero on any
// diagnostic").
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func newLogger() zerolog.Logger {
	if !rootFlags.verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
