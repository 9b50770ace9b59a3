package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/diffprep/pkg/runner"
	"github.com/yaklabco/diffprep/pkg/source"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "4 files ingested (1 binary), 128 lines, 2.4 kB, 2 warnings".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files to ingest.") + "\n"
	}

	fileWord := wordFiles
	if stats.FilesIngested == 1 {
		fileWord = wordFile
	}

	parts := []string{
		fmt.Sprintf("%d %s ingested", stats.FilesIngested, fileWord),
	}

	var extras []string
	if stats.FilesBinary > 0 {
		extras = append(extras, s.KindBin.Render(fmt.Sprintf("%d binary", stats.FilesBinary)))
	}
	if stats.FilesIncomplete > 0 {
		extras = append(extras, s.Warning.Render(fmt.Sprintf("%d incomplete", stats.FilesIncomplete)))
	}
	if stats.FilesErrored > 0 {
		extras = append(extras, s.Error.Render(fmt.Sprintf("%d errored", stats.FilesErrored)))
	}
	if len(extras) > 0 {
		parts[0] += fmt.Sprintf(" (%s)", strings.Join(extras, ", "))
	}

	parts = append(parts,
		fmt.Sprintf("%d lines", stats.LinesTotal),
		HumanBytes(stats.BytesTotal),
	)

	if stats.WarningsTotal > 0 {
		warningWord := "warnings"
		if stats.WarningsTotal == 1 {
			warningWord = "warning"
		}
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", stats.WarningsTotal, warningWord)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatFileLine formats one file outcome as a single report line.
// Example: "src/main.c  text  UTF-8  unix  120 lines  3.1 kB".
func (s *Styles) FormatFileLine(outcome runner.FileOutcome) string {
	if outcome.Error != nil {
		return fmt.Sprintf("%s: %s",
			s.FilePath.Render(outcome.Path),
			s.Error.Render(fmt.Sprintf("error: %v", outcome.Error)))
	}

	kind := s.KindText.Render(outcome.Kind.String())
	if outcome.Kind == source.KindBinary {
		kind = s.KindBin.Render(outcome.Kind.String())
	}

	fields := []string{
		s.FilePath.Render(outcome.Path),
		kind,
	}
	if outcome.Kind == source.KindText {
		fields = append(fields,
			s.Meta.Render(outcome.Encoding),
			s.Meta.Render(outcome.LineEndStyle.String()),
			fmt.Sprintf("%d lines", outcome.Lines),
		)
		if outcome.Language != "" {
			fields = append(fields, s.Meta.Render(outcome.Language))
		}
	}
	fields = append(fields, s.Dim.Render(HumanBytes(outcome.Bytes)))

	if outcome.IncompleteConversion {
		fields = append(fields, s.Warning.Render("incomplete conversion"))
	}

	return strings.Join(fields, "  ")
}

// FormatWarning formats one soft diagnostic, indented under its file line.
// Multi-line diagnostics keep their shape.
func (s *Styles) FormatWarning(message string) string {
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return s.Warning.Render("  warning:") + "\n" + s.Dim.Render(strings.Join(lines, "\n"))
}

// HumanBytes renders a byte count in a compact human form.
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
