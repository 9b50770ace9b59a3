package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/diffprep/pkg/charset"
	"github.com/yaklabco/diffprep/pkg/config"
	"github.com/yaklabco/diffprep/pkg/procrun"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "encoding").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks the resolved options for problems that would only surface
// mid-run otherwise.
func Validate(opts *config.Options) *ValidationResult {
	result := &ValidationResult{}
	if opts == nil {
		return result
	}

	if opts.Encoding != "" {
		if _, err := charset.Resolve(opts.Encoding); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "encoding",
				Value:   opts.Encoding,
				Message: fmt.Sprintf("unknown encoding %q", opts.Encoding),
			})
		}
	}

	if opts.PreProcessorEncoding != "" {
		if _, err := charset.Resolve(opts.PreProcessorEncoding); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "preprocessor_encoding",
				Value:   opts.PreProcessorEncoding,
				Message: fmt.Sprintf("unknown encoding %q", opts.PreProcessorEncoding),
			})
		}
	}

	if opts.Format != "" && !opts.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   opts.Format,
			Message: fmt.Sprintf("unknown format %q; valid formats: text, json", opts.Format),
		})
	}

	if opts.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   opts.Jobs,
			Message: "jobs must be zero or positive",
		})
	}

	// Command lines that cannot even be tokenized would hit the soft-failure
	// path on every file; surface them once, up front.
	for field, cmd := range map[string]string{
		"preprocessor":               opts.PreProcessorCmd,
		"line_matching_preprocessor": opts.LineMatchingPreProcessorCmd,
	} {
		if cmd == "" {
			continue
		}
		if _, _, err := procrun.Split(cmd); err != nil {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field,
				Value:   cmd,
				Message: fmt.Sprintf("command line does not tokenize: %v", err),
			})
		}
	}

	return result
}
