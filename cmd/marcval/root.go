package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog-hq/marcval/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "marcval",
	Short: "marcval - MARC21 record validator",
	Long: `Marcval validates MARC21 bibliographic records supplied in the
structured JSON contract.

Validation is exhaustive: every violation in a record is reported, from
leader bytes and control field positions to indicator values, subfield
repeatability, and record-level rules. Rule tables derive from the MARC21
format documentation and can be narrowed per material type or overridden
per call.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
