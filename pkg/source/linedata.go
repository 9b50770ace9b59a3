// Package source implements the ingestion and normalization core: it turns
// an input source (file, URL, or in-memory text) into line-indexed views
// over a single shared text buffer, ready for a line-oriented comparison
// engine.
package source

// TextBuffer owns the normalized text shared by every line record derived
// from one raw buffer. Line endings inside it are always a single '\n'
// regardless of the original style. Line records hold offsets into this
// buffer and never outlive it: consumers only ever see records bundled with
// their buffer in a LineView.
type TextBuffer struct {
	b []byte
}

// Len returns the buffer length in bytes.
func (t *TextBuffer) Len() int {
	if t == nil {
		return 0
	}
	return len(t.b)
}

// String returns the whole normalized text.
func (t *TextBuffer) String() string {
	if t == nil {
		return ""
	}
	return string(t.b)
}

func (t *TextBuffer) appendLine(line string) {
	t.b = append(t.b, line...)
	t.b = append(t.b, '\n')
}

func (t *TextBuffer) reset() {
	t.b = t.b[:0]
}

// LineRecord locates one line inside a TextBuffer.
//
// FirstNonWhite is 0 both for a line whose first non-whitespace character
// sits in column 0 and for a line with no non-whitespace character at all.
// Downstream consumers rely on this ambiguity, so it is kept.
type LineRecord struct {
	// Offset is the byte offset of the line inside the text buffer.
	Offset int

	// Length is the line length in bytes, excluding the terminator.
	Length int

	// FirstNonWhite is the byte offset within the line of the first
	// non-whitespace character, or 0.
	FirstNonWhite int

	// PureComment marks a line consisting entirely of comment text.
	PureComment bool
}

// LineView is a line index bound to the buffer that backs it. The final
// record is always a zero-length sentinel pointing at end-of-buffer; Count
// excludes it.
type LineView struct {
	buf     *TextBuffer
	records []LineRecord
}

// Count returns the number of real lines, excluding the sentinel record.
func (v *LineView) Count() int {
	if v == nil || len(v.records) == 0 {
		return 0
	}
	return len(v.records) - 1
}

// Records returns all line records including the trailing sentinel.
func (v *LineView) Records() []LineRecord {
	if v == nil {
		return nil
	}
	return v.records
}

// Record returns the i-th line record. The sentinel is addressable at
// index Count().
func (v *LineView) Record(i int) LineRecord {
	return v.records[i]
}

// Text resolves the i-th record's byte range against the shared buffer.
// Sentinel and padding records resolve to the empty string.
func (v *LineView) Text(i int) string {
	r := v.records[i]
	return string(v.buf.b[r.Offset : r.Offset+r.Length])
}

// Buffer returns the shared text buffer backing this view.
func (v *LineView) Buffer() *TextBuffer {
	if v == nil {
		return nil
	}
	return v.buf
}
