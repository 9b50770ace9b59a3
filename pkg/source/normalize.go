package source

import (
	"errors"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/diffprep/pkg/charset"
	"github.com/yaklabco/diffprep/pkg/comment"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNoCodec indicates normalization was attempted without a resolved
	// codec.
	ErrNoCodec = errors.New("no codec")

	// ErrTooLarge indicates the input exceeds the line-count or offset
	// domain of the index.
	ErrTooLarge = errors.New("file too large to index")
)

// maxIndexSize bounds the decodable byte size and the line count. Offsets
// and line numbers must stay in 32-bit range for the comparison engine.
const maxIndexSize = math.MaxInt32

// crlfNulSkip is how many interleaved NUL runes a CR-LF peek tolerates.
// Some wide encodings decoded with the wrong codec leave NULs between the
// '\r' and the '\n'.
const crlfNulSkip = 4

// normalizeOptions controls the compare-view rewrites applied per line.
type normalizeOptions struct {
	// stripComments removes comment text from stored lines.
	stripComments bool
	// foldCase upper-cases stored lines.
	foldCase bool
	// stripNumbers removes digit runs from stored lines.
	stripNumbers bool
	// classifier flags pure-comment lines; nil gets a C-style default.
	classifier comment.Classifier
}

// normalize decodes the raw buffer with the given codec and builds the
// unified-line-ending text buffer plus its line index.
//
// Policy for hostile input: a replacement character flags the FileData as an
// incomplete conversion but scanning continues; a NUL or non-character code
// point truncates the scan at that point and the partial result is reported
// as success. Binary-ish content must degrade, not fail.
func (fd *FileData) normalize(codec *charset.Codec, opts normalizeOptions) error {
	if fd.raw == nil {
		return nil
	}
	if codec == nil {
		return ErrNoCodec
	}

	skip := fd.detectBOMSkip(codec)
	if fd.size-int64(skip) > maxIndexSize {
		return ErrTooLarge
	}

	decoded, err := codec.Decode(fd.Raw()[skip:])
	if err != nil {
		return err
	}

	classifier := opts.classifier
	if classifier == nil {
		classifier = comment.NewCStyleParser()
	}

	fd.text = &TextBuffer{}
	fd.records = fd.records[:0]
	fd.incomplete = false
	fd.lineEndStyle = LineEndUndefined

	runes := []rune(string(decoded))
	firstStyle := LineEndUndefined
	haveStyle := false
	lineCount := 0
	truncated := false

	var lineBuf []rune

	i := 0
	for i < len(runes) {
		if lineCount >= maxIndexSize-5 {
			return ErrTooLarge
		}

		lineBuf = lineBuf[:0]
		style := LineEndUndefined
		terminated := false

		for i < len(runes) {
			c := runes[i]

			if c == '\n' {
				style = LineEndUnix
				terminated = true
				i++
				break
			}
			if c == '\r' {
				// Peek for a following '\n', tolerating a few
				// interleaved NULs.
				j := i + 1
				for j < len(runes) && j-i-1 < crlfNulSkip && runes[j] == 0 {
					j++
				}
				if j < len(runes) && runes[j] == '\n' {
					style = LineEndDos
					i = j + 1
				} else {
					// Legacy Mac ending.
					i++
				}
				terminated = true
				break
			}

			if c == 0 || isNonCharacter(c) {
				truncated = true
				break
			}
			if c == utf8.RuneError {
				fd.incomplete = true
			}

			lineBuf = append(lineBuf, c)
			i++
		}

		if truncated {
			break
		}

		lineCount++
		if terminated && !haveStyle {
			firstStyle = style
			haveStyle = true
		}

		line := string(lineBuf)
		classifier.ProcessLine(line)

		firstNonWhite := firstNonWhiteOffset(line)
		stored := line
		if opts.stripComments {
			stored = classifier.RemoveComment(stored)
		}
		if opts.foldCase {
			stored = strings.ToUpper(stored)
		}
		if opts.stripNumbers {
			stored = stripNumbers(stored)
		}

		fd.records = append(fd.records, LineRecord{
			Offset:        fd.text.Len(),
			Length:        len(stored),
			FirstNonWhite: firstNonWhite,
			PureComment:   classifier.IsPureComment(),
		})
		fd.text.appendLine(stored)
	}

	// Zero-length sentinel bounding the last real line.
	fd.records = append(fd.records, LineRecord{Offset: fd.text.Len()})
	fd.lineCount = lineCount
	fd.lineEndStyle = firstStyle

	// A truncated scan keeps its partial index but is not marked as text:
	// that is what routes NUL-laden content to the binary path upstream.
	fd.isText = !truncated
	return nil
}

// firstNonWhiteOffset returns the byte offset of the first non-whitespace
// character, or 0 when the line is empty or all whitespace. Offset 0 is
// deliberately ambiguous between "column 0" and "not found".
func firstNonWhiteOffset(line string) int {
	for i, c := range line {
		if !unicode.IsSpace(c) {
			return i
		}
	}
	return 0
}

// stripNumbers removes decimal digit runs, along with '.' and '-' characters
// directly adjoined to a digit.
func stripNumbers(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	for i, c := range runes {
		if unicode.IsDigit(c) {
			continue
		}
		if c == '.' || c == '-' {
			prevDigit := i > 0 && unicode.IsDigit(runes[i-1])
			nextDigit := i+1 < len(runes) && unicode.IsDigit(runes[i+1])
			if prevDigit || nextDigit {
				continue
			}
		}
		out = append(out, c)
	}
	return string(out)
}

// isNonCharacter reports whether c is one of the Unicode non-character code
// points (U+FDD0..U+FDEF and the two final code points of every plane).
func isNonCharacter(c rune) bool {
	if c >= 0xFDD0 && c <= 0xFDEF {
		return true
	}
	return c&0xFFFE == 0xFFFE
}
