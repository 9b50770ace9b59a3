package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/diffprep/pkg/runner"
	"github.com/yaklabco/diffprep/pkg/source"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string     `json:"version"`
	Files   []JSONFile `json:"files"`
	Summary JSONSummary `json:"summary"`
}

// JSONFile represents a single file's ingestion outcome.
type JSONFile struct {
	Path                 string   `json:"path"`
	Kind                 string   `json:"kind"`
	Encoding             string   `json:"encoding,omitempty"`
	LineEndStyle         string   `json:"lineEndStyle,omitempty"`
	Language             string   `json:"language,omitempty"`
	Lines                int      `json:"lines"`
	Bytes                int64    `json:"bytes"`
	IncompleteConversion bool     `json:"incompleteConversion,omitempty"`
	Warnings             []string `json:"warnings,omitempty"`
	Error                string   `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int   `json:"filesDiscovered"`
	FilesIngested   int   `json:"filesIngested"`
	FilesBinary     int   `json:"filesBinary"`
	FilesErrored    int   `json:"filesErrored"`
	FilesIncomplete int   `json:"filesIncomplete"`
	WarningsTotal   int   `json:"warningsTotal"`
	LinesTotal      int   `json:"linesTotal"`
	BytesTotal      int64 `json:"bytesTotal"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.WarningsTotal, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFile, 0),
	}

	if result == nil {
		return output
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFile, 0, len(result.Files))
	}

	for _, file := range result.Files {
		jf := JSONFile{
			Path:                 displayPath(file.Path, r.opts.WorkingDir),
			Kind:                 file.Kind.String(),
			Lines:                file.Lines,
			Bytes:                file.Bytes,
			IncompleteConversion: file.IncompleteConversion,
			Warnings:             file.Warnings,
		}
		if file.Kind == source.KindText {
			jf.Encoding = file.Encoding
			jf.LineEndStyle = file.LineEndStyle.String()
			jf.Language = file.Language
		}
		if file.Error != nil {
			jf.Error = file.Error.Error()
		}
		output.Files = append(output.Files, jf)
	}

	output.Summary = JSONSummary{
		FilesDiscovered: result.Stats.FilesDiscovered,
		FilesIngested:   result.Stats.FilesIngested,
		FilesBinary:     result.Stats.FilesBinary,
		FilesErrored:    result.Stats.FilesErrored,
		FilesIncomplete: result.Stats.FilesIncomplete,
		WarningsTotal:   result.Stats.WarningsTotal,
		LinesTotal:      result.Stats.LinesTotal,
		BytesTotal:      result.Stats.BytesTotal,
	}

	return output
}
