package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the options to YAML format.
func (o *Options) ToYAML() ([]byte, error) {
	if o == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(o); err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses options from YAML bytes. Unknown keys are rejected so a
// typo in a config file surfaces instead of silently doing nothing.
func FromYAML(data []byte) (*Options, error) {
	opts := NewOptions()
	if len(bytes.TrimSpace(data)) == 0 {
		return opts, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(opts); err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}

	return opts, nil
}
