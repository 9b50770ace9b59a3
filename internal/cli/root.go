// Package cli provides the Cobra command structure for diffprep.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/diffprep/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root diffprep command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "diffprep",
		Short: "Ingest and normalize files for text comparison",
		Long: `diffprep reads files through the full comparison ingestion pipeline:
encoding detection, optional external preprocessing, line-ending
normalization, and compare-view folding (comments, case, numbers).

It reports what a diff engine would actually see for each input: the
resolved encoding, the line index, and whether the data is text at all.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newIngestCommand())
	rootCmd.AddCommand(newDetectCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
