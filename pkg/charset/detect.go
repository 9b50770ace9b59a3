package charset

import (
	"bytes"
	"os"
)

// detectPrefixLimit bounds how far into a buffer embedded charset
// declarations are searched for. Declarations live in the header of XML and
// HTML documents, so the whole file is never needed.
const detectPrefixLimit = 5000

// filePrefixLen is how much of a file is read when detecting from disk.
// BOMs and prologs fit comfortably in the first 200 bytes.
const filePrefixLen = 200

// Detection is the result of a successful encoding detection.
type Detection struct {
	// Codec is the detected codec.
	Codec *Codec

	// SkipBytes is the length of the BOM to skip before decoding.
	// Zero when the codec was inferred from markup rather than a BOM.
	SkipBytes int
}

// Detect inspects a byte prefix and infers its encoding.
//
// BOMs win: UTF-16LE/BE (2 bytes) and UTF-8 (3 bytes) are checked first.
// Otherwise the first 5000 bytes are scanned for an XML prolog encoding
// attribute or an HTML <meta> charset attribute. The second return value is
// false when nothing matched; the caller keeps its fallback codec.
func Detect(buf []byte) (Detection, bool) {
	if len(buf) >= 2 {
		if buf[0] == 0xFF && buf[1] == 0xFE {
			return Detection{Codec: utf16LECodec, SkipBytes: 2}, true
		}
		if buf[0] == 0xFE && buf[1] == 0xFF {
			return Detection{Codec: utf16BECodec, SkipBytes: 2}, true
		}
	}
	if len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return Detection{Codec: utf8BOMCodec, SkipBytes: 3}, true
	}

	s := buf
	if len(s) > detectPrefixLimit {
		s = s[:detectPrefixLimit]
	}

	if c := detectFromMarkup(s); c != nil {
		return Detection{Codec: c}, true
	}

	return Detection{}, false
}

// DetectFromFile reads a prefix of the named file and runs Detect over it.
// The fallback codec is returned when the file cannot be read or nothing is
// detected.
func DetectFromFile(path string, fallback *Codec) *Codec {
	f, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()

	buf := make([]byte, filePrefixLen)
	n, err := f.Read(buf)
	if n <= 0 || err != nil {
		return fallback
	}

	if det, ok := Detect(buf[:n]); ok {
		return det.Codec
	}
	return fallback
}

// detectFromMarkup scans for an XML prolog encoding attribute, and failing
// that, for HTML <meta> charset attributes.
func detectFromMarkup(s []byte) *Codec {
	if xmlStart := bytes.Index(s, []byte("<?xml")); xmlStart >= 0 {
		xmlEnd := bytes.Index(s[xmlStart:], []byte("?>"))
		if xmlEnd < 0 {
			return nil
		}
		return codecFromTag(s[xmlStart:xmlStart+xmlEnd], []byte("encoding="))
	}

	// HTML: walk every <meta ...> tag until one names a resolvable charset.
	rest := s
	for {
		metaStart := bytes.Index(rest, []byte("<meta"))
		if metaStart < 0 {
			return nil
		}
		metaEnd := bytes.IndexByte(rest[metaStart:], '>')
		if metaEnd < 0 {
			return nil
		}
		if c := codecFromTag(rest[metaStart:metaStart+metaEnd], []byte("charset=")); c != nil {
			return c
		}
		rest = rest[metaStart+metaEnd:]
	}
}

// codecFromTag extracts the value of an attribute like encoding="..." or
// charset='...' from a single tag span and resolves it. Both quote styles are
// honored; whichever quote appears first after the attribute terminates the
// value. An unquoted value (charset=utf-8 inside a content attribute) runs up
// to the first quote that follows it.
func codecFromTag(tag, attr []byte) *Codec {
	attrPos := bytes.Index(tag, attr)
	if attrPos < 0 {
		return nil
	}
	after := tag[attrPos+len(attr):]

	dquote := bytes.IndexByte(after, '"')
	squote := bytes.IndexByte(after, '\'')
	quote := byte('"')
	quotePos := dquote
	if squote >= 0 && (dquote < 0 || squote < dquote) {
		quote = '\''
		quotePos = squote
	}
	if quotePos < 0 {
		return nil
	}

	end := bytes.IndexByte(after[quotePos+1:], quote)
	if end >= 0 {
		// Quoted value: encoding="ISO-8859-1" or charset='utf-8'.
		return resolveOrNil(after[quotePos+1 : quotePos+1+end])
	}

	// Unquoted value terminated by the closing quote of an enclosing
	// attribute: content="text/html; charset=utf-8".
	return resolveOrNil(after[:quotePos])
}

func resolveOrNil(name []byte) *Codec {
	c, err := Resolve(string(bytes.TrimSpace(name)))
	if err != nil {
		return nil
	}
	return c
}
