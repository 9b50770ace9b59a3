package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/diffprep/internal/ui/pretty"
	"github.com/yaklabco/diffprep/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to ingest."))
		}
		return 0, nil
	}

	var totalWarnings int

	for _, file := range result.Files {
		outcome := file
		outcome.Path = displayPath(file.Path, r.opts.WorkingDir)

		fmt.Fprintln(r.bw, r.styles.FormatFileLine(outcome))
		for _, warning := range file.Warnings {
			fmt.Fprintln(r.bw, r.styles.FormatWarning(warning))
			totalWarnings++
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return totalWarnings, nil
}
