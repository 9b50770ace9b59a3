package source

import (
	"context"
	"fmt"

	"github.com/yaklabco/diffprep/pkg/charset"
	"github.com/yaklabco/diffprep/pkg/fsutil"
)

// rawPadding is how many zeroed bytes are kept past the logical end of every
// raw buffer. The downstream comparison algorithm reads a few bytes ahead of
// the end, so the padding must always be allocated and defined.
const rawPadding = 8

// LineEndStyle is the original line terminator style of an ingested file.
// It is derived from the first terminator only; a file with mixed endings
// reports whatever came first.
type LineEndStyle int

const (
	// LineEndUndefined means no terminator was seen, or a legacy-Mac '\r'.
	LineEndUndefined LineEndStyle = iota
	// LineEndUnix is "\n".
	LineEndUnix
	// LineEndDos is "\r\n".
	LineEndDos
)

func (s LineEndStyle) String() string {
	switch s {
	case LineEndUnix:
		return "unix"
	case LineEndDos:
		return "dos"
	default:
		return "undefined"
	}
}

// FileData holds one ingested version of a source: the raw bytes, the
// normalized text buffer, and the line index over it. A SourceData owns two:
// one for the display view and one for the compare view.
type FileData struct {
	raw       []byte // logical size + rawPadding zeroed bytes
	size      int64
	lineCount int

	text    *TextBuffer
	records []LineRecord

	isText       bool
	incomplete   bool
	lineEndStyle LineEndStyle
}

// Reset clears the FileData back to its empty state.
func (fd *FileData) Reset() {
	fd.raw = nil
	fd.size = 0
	fd.lineCount = 0
	fd.text = nil
	fd.records = nil
	fd.isText = false
	fd.incomplete = false
	fd.lineEndStyle = LineEndUndefined
}

// setRaw installs content as the raw buffer, adding the trailing padding.
func (fd *FileData) setRaw(content []byte) {
	buf := make([]byte, len(content)+rawPadding)
	copy(buf, content)
	fd.raw = buf
	fd.size = int64(len(content))
}

// readFile resets the FileData and loads the named file into the raw buffer.
// An empty name or a non-regular file leaves the FileData empty without
// error, mirroring how absent optional stages behave.
func (fd *FileData) readFile(ctx context.Context, path string) error {
	fd.Reset()
	if path == "" {
		return nil
	}
	if !fsutil.IsRegularFile(path) {
		return nil
	}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	fd.setRaw(content)
	return nil
}

// writeFile writes the logical raw bytes to the named file.
func (fd *FileData) writeFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	return fsutil.WriteFile(ctx, path, fd.Raw(), 0)
}

// copyBufFrom resets the FileData and copies another FileData's raw buffer,
// so the two can be normalized and mutated independently.
func (fd *FileData) copyBufFrom(src *FileData) {
	fd.Reset()
	if src.raw == nil {
		return
	}
	fd.setRaw(src.Raw())
}

// Raw returns the logical raw bytes, without the padding.
func (fd *FileData) Raw() []byte {
	if fd.raw == nil {
		return nil
	}
	return fd.raw[:fd.size]
}

// Size returns the logical raw size in bytes.
func (fd *FileData) Size() int64 {
	return fd.size
}

// LineCount returns the number of indexed lines, excluding the sentinel.
func (fd *FileData) LineCount() int {
	return fd.lineCount
}

// IsEmpty reports whether no bytes are loaded.
func (fd *FileData) IsEmpty() bool {
	return fd.size == 0
}

// IsText reports whether normalization produced a usable text index. Empty
// data counts as text.
func (fd *FileData) IsText() bool {
	return fd.isText || fd.IsEmpty()
}

// IsIncompleteConversion reports whether decoding met replacement
// characters.
func (fd *FileData) IsIncompleteConversion() bool {
	return fd.incomplete
}

// LineEndStyle returns the detected original terminator style.
func (fd *FileData) LineEndStyle() LineEndStyle {
	return fd.lineEndStyle
}

// hasData reports whether a raw buffer is present, even a zero-length one.
func (fd *FileData) hasData() bool {
	return fd.raw != nil
}

// LineView returns the line index bound to its backing buffer, or nil when
// no lines were produced.
func (fd *FileData) LineView() *LineView {
	if len(fd.records) == 0 {
		return nil
	}
	return &LineView{buf: fd.text, records: fd.records}
}

// Text returns the whole normalized text.
func (fd *FileData) Text() string {
	return fd.text.String()
}

// padLinesTo appends zero-length end-of-buffer records until the line count
// reaches want. Used to reconcile a compare view that a filter shrank.
func (fd *FileData) padLinesTo(want int) {
	end := fd.text.Len()
	for fd.lineCount < want {
		fd.records = append(fd.records, LineRecord{Offset: end})
		fd.lineCount++
	}
}

// detectBOMSkip reuses the encoding detector over the raw buffer and returns
// the BOM length to skip, but only when the detected codec matches the codec
// chosen upstream. A preprocessor may have changed the encoding; a stale BOM
// skip must not be applied to bytes it no longer describes.
func (fd *FileData) detectBOMSkip(codec *charset.Codec) int {
	det, ok := charset.Detect(fd.Raw())
	if !ok || !det.Codec.Equal(codec) {
		return 0
	}
	return det.SkipBytes
}
