package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/diffprep/pkg/config"
)

// envVarPrefix is the prefix for all diffprep environment variables.
const envVarPrefix = "DIFFPREP_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"PREPROCESSOR":               {field: "preprocessor", typ: envTypeString},
	"LINE_MATCHING_PREPROCESSOR": {field: "line_matching_preprocessor", typ: envTypeString},
	"PREPROCESSOR_ENCODING":      {field: "preprocessor_encoding", typ: envTypeString},
	"ENCODING":                   {field: "encoding", typ: envTypeString},
	"AUTO_DETECT_UNICODE":        {field: "auto_detect_unicode", typ: envTypeBool},
	"IGNORE_COMMENTS":            {field: "ignore_comments", typ: envTypeBool},
	"IGNORE_CASE":                {field: "ignore_case", typ: envTypeBool},
	"IGNORE_NUMBERS":             {field: "ignore_numbers", typ: envTypeBool},
	"FORMAT":                     {field: "format", typ: envTypeString},
	"JOBS":                       {field: "jobs", typ: envTypeInt},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with DIFFPREP_ (e.g., DIFFPREP_ENCODING).
func LoadFromEnv(opts *config.Options) error {
	if opts == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(opts, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(opts *config.Options, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(opts, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(opts, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(opts, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field path.
func setStringField(opts *config.Options, field, value string) error {
	switch field {
	case "preprocessor":
		opts.PreProcessorCmd = value
	case "line_matching_preprocessor":
		opts.LineMatchingPreProcessorCmd = value
	case "preprocessor_encoding":
		opts.PreProcessorEncoding = value
	case "encoding":
		opts.Encoding = value
	case "format":
		opts.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(opts *config.Options, field string, value bool) error {
	switch field {
	case "auto_detect_unicode":
		opts.AutoDetectUnicode = value
	case "ignore_comments":
		opts.IgnoreComments = value
	case "ignore_case":
		opts.IgnoreCase = value
	case "ignore_numbers":
		opts.IgnoreNumbers = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(opts *config.Options, field string, value int) error {
	switch field {
	case "jobs":
		opts.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns a list of all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"DIFFPREP_PREPROCESSOR":               "General preprocessor command line",
		"DIFFPREP_LINE_MATCHING_PREPROCESSOR": "Line-matching preprocessor command line",
		"DIFFPREP_PREPROCESSOR_ENCODING":      "Encoding preprocessor commands expect on stdin",
		"DIFFPREP_ENCODING":                   "Fallback encoding when auto-detection finds nothing",
		"DIFFPREP_AUTO_DETECT_UNICODE":        "Enable encoding auto-detection: true or false",
		"DIFFPREP_IGNORE_COMMENTS":            "Strip comments in the compare view: true or false",
		"DIFFPREP_IGNORE_CASE":                "Fold case in the compare view: true or false",
		"DIFFPREP_IGNORE_NUMBERS":             "Strip digit runs in the compare view: true or false",
		"DIFFPREP_FORMAT":                     "Output format: text or json",
		"DIFFPREP_JOBS":                       "Number of parallel workers (0 = auto)",
	}
}
