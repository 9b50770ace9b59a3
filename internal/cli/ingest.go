package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/diffprep/internal/configloader"
	"github.com/yaklabco/diffprep/internal/logging"
	"github.com/yaklabco/diffprep/pkg/config"
	"github.com/yaklabco/diffprep/pkg/reporter"
	"github.com/yaklabco/diffprep/pkg/runner"
)

// ErrIngestProblems is returned when ingestion finished but found problems.
var ErrIngestProblems = errors.New("ingest problems found")

type ingestFlags struct {
	ppCmd          string
	lmppCmd        string
	ppEncoding     string
	encoding       string
	autoDetect     bool
	ignoreComments bool
	ignoreCase     bool
	ignoreNumbers  bool
	format         string
	jobs           int
	exclude        []string
	include        []string
	extensions     []string
	followSymlinks bool
	strict         bool
	compact        bool
	noSummary      bool
}

func newIngestCommand() *cobra.Command {
	flags := &ingestFlags{}

	cmd := &cobra.Command{
		Use:   "ingest [paths...]",
		Short: "Run files through the comparison ingestion pipeline",
		Long:  ingestLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args, flags)
		},
	}

	addIngestFlags(cmd, flags)

	return cmd
}

const ingestLongDescription = `Run files through the full comparison ingestion pipeline and report the
result per file: resolved encoding, line-ending style, line count, and
whether the content is text at all.

By default, ingests every file in the current directory and
subdirectories. Specify paths to ingest specific files or directories.

Examples:
  diffprep ingest                          # Ingest current directory
  diffprep ingest src/                     # Ingest a directory
  diffprep ingest old.c new.c              # Ingest specific files
  diffprep ingest --pp-cmd 'sed s/foo/bar/' .   # With a preprocessor
  diffprep ingest --ignore-comments .      # Fold comments in compare view
  diffprep ingest --format json .          # Output as JSON for CI
  diffprep ingest --strict .               # Treat warnings as errors`

func runIngest(cmd *cobra.Command, args []string, flags *ingestFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
	})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	opts := loadResult.Options

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	// CLI flags override everything, but only when explicitly set: an
	// untouched flag must not clobber a config file value with its default.
	applyIngestFlags(cmd, flags, opts)

	logger.Debug("configuration resolved",
		"encoding", opts.Encoding,
		"auto_detect", opts.AutoDetectUnicode,
		"preprocessor", opts.PreProcessorCmd,
		"jobs", opts.Jobs,
	)

	ingestRunner := runner.New()

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     flags.extensions,
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   flags.exclude,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           opts.Jobs,
		Ingest:         opts,
	}

	logger.Debug("starting ingest run",
		"paths", runOpts.Paths,
		"working_dir", runOpts.WorkingDir,
		"jobs", runOpts.Jobs,
	)

	result, err := ingestRunner.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("ingest run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(opts.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", "error", err)
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result, flags.strict) != ExitSuccess {
		return ErrIngestProblems
	}

	return nil
}

// applyIngestFlags writes explicitly-set CLI flags onto the resolved options.
func applyIngestFlags(cmd *cobra.Command, flags *ingestFlags, opts *config.Options) {
	if cmd.Flags().Changed("pp-cmd") {
		opts.PreProcessorCmd = flags.ppCmd
	}
	if cmd.Flags().Changed("lmpp-cmd") {
		opts.LineMatchingPreProcessorCmd = flags.lmppCmd
	}
	if cmd.Flags().Changed("pp-encoding") {
		opts.PreProcessorEncoding = flags.ppEncoding
	}
	if cmd.Flags().Changed("encoding") {
		opts.Encoding = flags.encoding
	}
	if cmd.Flags().Changed("auto-detect") {
		opts.AutoDetectUnicode = flags.autoDetect
	}
	if cmd.Flags().Changed("ignore-comments") {
		opts.IgnoreComments = flags.ignoreComments
	}
	if cmd.Flags().Changed("ignore-case") {
		opts.IgnoreCase = flags.ignoreCase
	}
	if cmd.Flags().Changed("ignore-numbers") {
		opts.IgnoreNumbers = flags.ignoreNumbers
	}
	if cmd.Flags().Changed("format") {
		opts.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("jobs") {
		opts.Jobs = flags.jobs
	}
}

func addIngestFlags(cmd *cobra.Command, flags *ingestFlags) {
	cmd.Flags().StringVar(&flags.ppCmd, "pp-cmd", "", "general preprocessor command line")
	cmd.Flags().StringVar(&flags.lmppCmd, "lmpp-cmd", "", "line-matching preprocessor command line")
	cmd.Flags().StringVar(&flags.ppEncoding, "pp-encoding", "", "encoding preprocessor commands expect on stdin")
	cmd.Flags().StringVar(&flags.encoding, "encoding", "UTF-8", "fallback encoding when auto-detection finds nothing")
	cmd.Flags().BoolVar(&flags.autoDetect, "auto-detect", true, "detect encoding from BOMs and charset declarations")
	cmd.Flags().BoolVar(&flags.ignoreComments, "ignore-comments", false, "strip comments in the compare view")
	cmd.Flags().BoolVar(&flags.ignoreCase, "ignore-case", false, "fold case in the compare view")
	cmd.Flags().BoolVar(&flags.ignoreNumbers, "ignore-numbers", false, "strip digit runs in the compare view")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to skip")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns to include")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "restrict to file extensions (e.g. .c,.h)")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "traverse directory symlinks")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "hide the aggregate summary line")
}
