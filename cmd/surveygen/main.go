// Surveygen is a command-line client for the survey generation service.
//
// It sends a natural-language requirement to the service, waits for the
// generated survey and prints it. A scripted stand-in for the service is
// included for local development.
//
// Usage:
//
//	surveygen [command] [flags]
//
// See 'surveygen --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/surveygen/internal/logging"
	"github.com/muurk/surveygen/internal/version"
)

// errReported marks failures that were already rendered to the user
var errReported = errors.New("error already reported")

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "surveygen",
	Short: "Survey generation client",
	Long: `A command-line client for the survey generation service.

Describe the survey you need in plain language and surveygen asks the
service to generate it, showing progress while the request is pending.

Configuration is read from the config file, a .env file in the current
directory and SURVEYGEN_* environment variables, in that order of
increasing precedence. Command-line flags override all of them.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "surveygen %s\n", version.Full())
	},
}
