// Package textdetect provides binary-content heuristics for ingested
// sources. The normalizer already degrades gracefully on binary-ish input;
// this package supplies the display-layer hint that a file is likely binary
// rather than text.
package textdetect

import "github.com/go-enry/go-enry/v2"

// sampleLimit bounds how much of a buffer the heuristic inspects. Binary
// signatures show up early; scanning whole multi-megabyte files buys nothing.
const sampleLimit = 8192

// IsBinary reports whether the content looks like binary data rather than
// text in any encoding.
//
// UTF-16 text is full of NUL bytes and would trip a naive NUL check, so the
// BOM cases are carved out before the byte-level heuristic runs.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	if hasUTF16BOM(data) {
		return false
	}

	sample := data
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}
	return enry.IsBinary(sample)
}

func hasUTF16BOM(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return (data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF)
}
