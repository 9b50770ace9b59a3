// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldFiles  = "files"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldAlias  = "alias"

	// Pipeline fields.
	FieldCommand   = "command"
	FieldStage     = "stage"
	FieldEncoding  = "encoding"
	FieldBOMSkip   = "bom_skip"
	FieldLineEnd   = "line_end_style"
	FieldLines     = "lines"
	FieldSizeBytes = "size_bytes"
	FieldTempFile  = "temp_file"

	// Configuration fields.
	FieldAutoDetect = "auto_detect"
	FieldFormat     = "format"
	FieldJobs       = "jobs"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesIngested   = "files_ingested"
	FieldFilesBinary     = "files_binary"
	FieldWarningsTotal   = "warnings_total"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
