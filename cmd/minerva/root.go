package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "minerva",
	Short: "Minerva - governance runtime for autonomous agent actions",
	Long: `Minerva gates autonomous or semi-autonomous actions behind a governance
pipeline: validate the triggering input, evaluate the proposed action
against declarative policies, execute only if approved, and produce an
immutable audit trail.

The core is the four-phase governance cycle - Observe, Decide, Act, Log -
backed by a prompt-injection guard, a policy-as-code evaluator, and an
append-only audit logger.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
