// Package charset resolves codec names to byte<->text conversion rules and
// detects the encoding of untrusted byte streams from BOMs and embedded
// XML/HTML charset declarations.
package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrUnknownCodec indicates a codec name that no index resolves.
	ErrUnknownCodec = errors.New("unknown codec")

	// ErrNilCodec indicates a nil codec where one is required.
	ErrNilCodec = errors.New("nil codec")
)

// Codec is a named byte<->text conversion rule.
//
// The name is kept alongside the encoding because two codecs that decode
// identically can still differ in how they are reported and in whether a BOM
// belongs to them (UTF-8 vs UTF-8 with BOM).
type Codec struct {
	name string
	enc  encoding.Encoding
}

// Name returns the canonical name the codec was resolved under.
func (c *Codec) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Equal reports whether two codecs name the same conversion rule.
func (c *Codec) Equal(other *Codec) bool {
	if c == nil || other == nil {
		return c == other
	}
	return strings.EqualFold(c.name, other.name)
}

// NewDecoder returns a transformer that converts bytes in this codec to UTF-8.
// The decoder never re-detects the encoding mid-stream; BOM handling is
// decided by the caller before decoding starts.
func (c *Codec) NewDecoder() *encoding.Decoder {
	return c.enc.NewDecoder()
}

// NewEncoder returns a transformer that converts UTF-8 text to this codec.
func (c *Codec) NewEncoder() *encoding.Encoder {
	return c.enc.NewEncoder()
}

// Decode converts the given bytes to UTF-8.
func (c *Codec) Decode(data []byte) ([]byte, error) {
	if c == nil {
		return nil, ErrNilCodec
	}
	out, _, err := transform.Bytes(c.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode as %s: %w", c.name, err)
	}
	return out, nil
}

// Encode converts UTF-8 text to bytes in this codec.
func (c *Codec) Encode(data []byte) ([]byte, error) {
	if c == nil {
		return nil, ErrNilCodec
	}
	out, _, err := transform.Bytes(c.NewEncoder(), data)
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", c.name, err)
	}
	return out, nil
}

// Fixed-name codecs that the name indexes do not cover precisely enough:
// BOM policy and byte order must be pinned, not left to the decoder.
var (
	utf8Codec     = &Codec{name: "UTF-8", enc: unicode.UTF8}
	utf8BOMCodec  = &Codec{name: "UTF-8-BOM", enc: unicode.UTF8}
	utf16LECodec  = &Codec{name: "UTF-16LE", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	utf16BECodec  = &Codec{name: "UTF-16BE", enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	builtinCodecs = map[string]*Codec{
		"UTF-8":     utf8Codec,
		"UTF8":      utf8Codec,
		"UTF-8-BOM": utf8BOMCodec,
		"UTF-16LE":  utf16LECodec,
		"UTF-16BE":  utf16BECodec,
	}
)

// UTF8 returns the plain UTF-8 codec.
func UTF8() *Codec { return utf8Codec }

// Resolve maps a codec name to a Codec. Names are matched case-insensitively
// against a small builtin set first, then against the IANA registry, then
// against the WHATWG HTML index (which knows the common web aliases).
func Resolve(name string) (*Codec, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownCodec)
	}

	if c, ok := builtinCodecs[strings.ToUpper(trimmed)]; ok {
		return c, nil
	}

	if enc, err := ianaindex.IANA.Encoding(trimmed); err == nil && enc != nil {
		return &Codec{name: canonicalName(enc, trimmed), enc: enc}, nil
	}

	if enc, err := htmlindex.Get(trimmed); err == nil {
		return &Codec{name: canonicalName(enc, trimmed), enc: enc}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// canonicalName prefers the registered MIME name so that aliases of the same
// encoding resolve to one reported spelling. The name as given is kept when
// no index knows a preferred name.
func canonicalName(enc encoding.Encoding, given string) string {
	if name, err := ianaindex.MIME.Name(enc); err == nil && name != "" {
		return name
	}
	if name, err := htmlindex.Name(enc); err == nil && name != "" {
		return name
	}
	return given
}
