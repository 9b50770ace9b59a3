// Package config defines core configuration types for diffprep.
// These types are pure data structures with no dependency on the loader
// that resolves them from files, environment, or flags.
package config

// OutputFormat specifies the output format for ingest reports.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// Options is the resolved configuration consumed by the ingestion pipeline.
//
// Options is shared mutable state across repeated loads of the same source:
// after a preprocessor command fails softly, the facade clears the command
// here so it is not retried for the remainder of the session.
type Options struct {
	// PreProcessorCmd is the general preprocessor command line.
	// Empty means no preprocessing stage.
	PreProcessorCmd string `yaml:"preprocessor"`

	// LineMatchingPreProcessorCmd is the line-matching preprocessor command
	// line, applied to the general preprocessor's output (or the original
	// input when no general preprocessor is configured).
	LineMatchingPreProcessorCmd string `yaml:"line_matching_preprocessor"`

	// PreProcessorEncoding names the codec the preprocessor commands expect
	// on stdin. When it differs from the working codec the staged input is
	// re-encoded before the command runs.
	PreProcessorEncoding string `yaml:"preprocessor_encoding"`

	// Encoding names the fallback codec used when auto-detection is off or
	// finds nothing.
	Encoding string `yaml:"encoding"`

	// AutoDetectUnicode enables encoding detection (BOM, XML/HTML charset
	// tags) over real files before decoding.
	AutoDetectUnicode bool `yaml:"auto_detect_unicode"`

	// IgnoreComments flags pure-comment lines and strips comment text from
	// the compare view.
	IgnoreComments bool `yaml:"ignore_comments"`

	// IgnoreCase upper-cases the compare view so the diff engine sees
	// case-folded text.
	IgnoreCase bool `yaml:"ignore_case"`

	// IgnoreNumbers strips digit runs from the compare view.
	IgnoreNumbers bool `yaml:"ignore_numbers"`

	// CLI-level options (not persisted to config files).

	// Format specifies the report output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel ingest workers.
	Jobs int `yaml:"-"`
}

// NewOptions returns Options with sensible defaults.
func NewOptions() *Options {
	return &Options{
		Encoding:             "UTF-8",
		PreProcessorEncoding: "UTF-8",
		AutoDetectUnicode:    true,
		Format:               FormatText,
		Jobs:                 0, // 0 means use GOMAXPROCS
	}
}

// NeedsCompareCopy reports whether a compare view must be synthesized even
// when no line-matching preprocessor runs. Comment stripping, case folding,
// and number stripping all mutate the compare text, so it must not alias the
// display buffer.
func (o *Options) NeedsCompareCopy() bool {
	return o.IgnoreComments || o.IgnoreCase || o.IgnoreNumbers
}
