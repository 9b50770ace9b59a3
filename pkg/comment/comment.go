// Package comment classifies lines with respect to comment syntax. The
// normalizer feeds it one line at a time; the classifier tracks multi-line
// comment state across calls and can rewrite a line with its comment text
// stripped.
package comment

import "unicode"

// Classifier is the pluggable line classifier consumed by the normalizer.
//
// ProcessLine must be called once per line, in order. RemoveComment and
// IsPureComment refer to the line most recently processed.
type Classifier interface {
	// ProcessLine scans one line, updating multi-line comment state.
	ProcessLine(line string)

	// RemoveComment returns the processed line with comment text removed.
	RemoveComment(line string) string

	// IsPureComment reports whether the processed line consists entirely
	// of comment text and whitespace.
	IsPureComment() bool
}

// span is a half-open rune range [start, end) covering comment text.
type span struct {
	start, end int
}

// CStyleParser classifies C-family comments: // line comments and /* */
// block comments, with string and character literals shielding their
// contents from comment detection.
type CStyleParser struct {
	inBlock bool
	spans   []span
	pure    bool
	lineLen int
}

// NewCStyleParser returns a classifier for C-family comment syntax.
func NewCStyleParser() *CStyleParser {
	return &CStyleParser{}
}

// ProcessLine scans one line and records its comment spans.
func (p *CStyleParser) ProcessLine(line string) {
	runes := []rune(line)
	p.spans = p.spans[:0]
	p.lineLen = len(runes)

	blockStart := -1
	if p.inBlock {
		blockStart = 0
	}

	inString := false
	var quote rune

	i := 0
	for i < len(runes) {
		c := runes[i]

		if p.inBlock {
			if c == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				p.spans = append(p.spans, span{blockStart, i + 2})
				p.inBlock = false
				blockStart = -1
				i += 2
				continue
			}
			i++
			continue
		}

		if inString {
			if c == '\\' {
				i += 2
				continue
			}
			if c == quote {
				inString = false
			}
			i++
			continue
		}

		switch {
		case c == '"' || c == '\'':
			inString = true
			quote = c
			i++
		case c == '/' && i+1 < len(runes) && runes[i+1] == '/':
			p.spans = append(p.spans, span{i, len(runes)})
			i = len(runes)
		case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
			blockStart = i
			p.inBlock = true
			i += 2
		default:
			i++
		}
	}

	// Block comment still open at end of line covers through the end.
	if p.inBlock {
		p.spans = append(p.spans, span{blockStart, len(runes)})
	}

	p.pure = p.computePure(runes)
}

// computePure reports whether everything outside the comment spans is
// whitespace. A line with no comment on it at all is never pure, even when
// blank.
func (p *CStyleParser) computePure(runes []rune) bool {
	if len(p.spans) == 0 {
		return false
	}
	for i, c := range runes {
		if unicode.IsSpace(c) {
			continue
		}
		if !p.inSpan(i) {
			return false
		}
	}
	return true
}

func (p *CStyleParser) inSpan(i int) bool {
	for _, s := range p.spans {
		if i >= s.start && i < s.end {
			return true
		}
	}
	return false
}

// RemoveComment returns the most recently processed line with its comment
// spans cut out.
func (p *CStyleParser) RemoveComment(line string) string {
	if len(p.spans) == 0 {
		return line
	}

	runes := []rune(line)
	out := make([]rune, 0, len(runes))
	for i, c := range runes {
		if !p.inSpan(i) {
			out = append(out, c)
		}
	}
	return string(out)
}

// IsPureComment reports whether the most recently processed line is entirely
// comment text.
func (p *CStyleParser) IsPureComment() bool {
	return p.pure
}
