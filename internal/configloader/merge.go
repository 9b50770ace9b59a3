package configloader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/diffprep/pkg/config"
)

// overlay is one configuration layer as read from a file. Every field is a
// pointer so an absent key is distinguishable from an explicit zero value:
// `auto_detect_unicode: false` must override a lower layer's true.
type overlay struct {
	PreProcessorCmd             *string `yaml:"preprocessor"`
	LineMatchingPreProcessorCmd *string `yaml:"line_matching_preprocessor"`
	PreProcessorEncoding        *string `yaml:"preprocessor_encoding"`
	Encoding                    *string `yaml:"encoding"`
	AutoDetectUnicode           *bool   `yaml:"auto_detect_unicode"`
	IgnoreComments              *bool   `yaml:"ignore_comments"`
	IgnoreCase                  *bool   `yaml:"ignore_case"`
	IgnoreNumbers               *bool   `yaml:"ignore_numbers"`
}

// apply writes the overlay's set fields onto opts.
func (o *overlay) apply(opts *config.Options) {
	if o == nil {
		return
	}
	if o.PreProcessorCmd != nil {
		opts.PreProcessorCmd = *o.PreProcessorCmd
	}
	if o.LineMatchingPreProcessorCmd != nil {
		opts.LineMatchingPreProcessorCmd = *o.LineMatchingPreProcessorCmd
	}
	if o.PreProcessorEncoding != nil {
		opts.PreProcessorEncoding = *o.PreProcessorEncoding
	}
	if o.Encoding != nil {
		opts.Encoding = *o.Encoding
	}
	if o.AutoDetectUnicode != nil {
		opts.AutoDetectUnicode = *o.AutoDetectUnicode
	}
	if o.IgnoreComments != nil {
		opts.IgnoreComments = *o.IgnoreComments
	}
	if o.IgnoreCase != nil {
		opts.IgnoreCase = *o.IgnoreCase
	}
	if o.IgnoreNumbers != nil {
		opts.IgnoreNumbers = *o.IgnoreNumbers
	}
}

// loadConfigFile reads one configuration layer from a YAML file. Unknown keys
// are rejected so typos surface instead of being silently dropped.
func loadConfigFile(path string) (*overlay, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return &overlay{}, nil
	}

	var layer overlay
	dec := yaml.NewDecoder(strings.NewReader(string(content)))
	dec.KnownFields(true)
	if err := dec.Decode(&layer); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &layer, nil
}
