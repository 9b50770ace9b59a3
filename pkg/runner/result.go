package runner

import "github.com/yaklabco/diffprep/pkg/source"

// FileOutcome is the ingestion summary for a single file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Kind is the content state after ingestion (text, binary, unloaded).
	Kind source.Kind

	// Encoding is the canonical name of the codec the file decoded with.
	Encoding string

	// LineEndStyle is the detected original terminator style.
	LineEndStyle source.LineEndStyle

	// Language is the detected programming language, empty when unknown or
	// when the file is not text.
	Language string

	// Lines is the display-view line count.
	Lines int

	// Bytes is the raw size of the ingested data.
	Bytes int64

	// IncompleteConversion reports that decoding met replacement characters.
	IncompleteConversion bool

	// Warnings holds the soft diagnostics the pipeline collected, such as a
	// preprocessor falling back to unfiltered input.
	Warnings []string

	// Error is set if the file could not be processed at all.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesIngested is the number of files that produced a usable text view.
	FilesIngested int

	// FilesBinary is the number of files classified as binary.
	FilesBinary int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesIncomplete is the number of files whose decoding met replacement
	// characters.
	FilesIncomplete int

	// WarningsTotal is the total number of soft diagnostics across all files.
	WarningsTotal int

	// LinesTotal is the sum of display-view line counts.
	LinesTotal int

	// BytesTotal is the sum of raw sizes.
	BytesTotal int64
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasFailures reports whether any file could not be processed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// HasWarnings reports whether any soft diagnostics were collected.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.WarningsTotal > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	r.Stats.WarningsTotal += len(outcome.Warnings)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	switch outcome.Kind {
	case source.KindText:
		r.Stats.FilesIngested++
	case source.KindBinary:
		r.Stats.FilesBinary++
	case source.KindUnloaded:
		// Discovered but unreadable files surface through Warnings.
	}

	if outcome.IncompleteConversion {
		r.Stats.FilesIncomplete++
	}

	r.Stats.LinesTotal += outcome.Lines
	r.Stats.BytesTotal += outcome.Bytes
}
