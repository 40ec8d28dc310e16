package transcode

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/arloliu/packrec/errs"
)

// UTF8 is the name of the global default text encoding.
const UTF8 = "utf_8"

type textCodec interface {
	encode(s string) ([]byte, error)
	decode(b []byte) (string, error)
}

// Encoding is a named text encoding. Encodings are immutable and safe for
// concurrent use.
type Encoding struct {
	name  string
	codec textCodec
}

// Name returns the canonical name of the encoding.
func (e *Encoding) Name() string {
	return e.name
}

// Encode encodes s.
func (e *Encoding) Encode(s string) ([]byte, error) {
	b, err := e.codec.encode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrTextEncode, e.name, err)
	}

	return b, nil
}

// Decode decodes b.
func (e *Encoding) Decode(b []byte) (string, error) {
	s, err := e.codec.decode(b)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errs.ErrTextDecode, e.name, err)
	}

	return s, nil
}

type utf8Codec struct{}

func (utf8Codec) encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("invalid UTF-8 in string")
	}

	return []byte(s), nil
}

func (utf8Codec) decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("invalid UTF-8 sequence")
	}

	return string(b), nil
}

type asciiCodec struct{}

func (asciiCodec) encode(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return nil, fmt.Errorf("ordinal not in range(128) at position %d", i)
		}
	}

	return []byte(s), nil
}

func (asciiCodec) decode(b []byte) (string, error) {
	for i, c := range b {
		if c >= utf8.RuneSelf {
			return "", fmt.Errorf("byte 0x%02x not in range(128) at position %d", c, i)
		}
	}

	return string(b), nil
}

type xtextCodec struct {
	enc encoding.Encoding
}

func (c xtextCodec) encode(s string) ([]byte, error) {
	return c.enc.NewEncoder().Bytes([]byte(s))
}

func (c xtextCodec) decode(b []byte) (string, error) {
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

var builtins = map[string]*Encoding{
	UTF8:        {name: UTF8, codec: utf8Codec{}},
	"utf_8_sig": {name: "utf_8_sig", codec: xtextCodec{enc: unicode.UTF8BOM}},
	"ascii":     {name: "ascii", codec: asciiCodec{}},
	"latin_1":   {name: "latin_1", codec: xtextCodec{enc: charmap.ISO8859_1}},
	"cp1252":    {name: "cp1252", codec: xtextCodec{enc: charmap.Windows1252}},
	"utf_16":    {name: "utf_16", codec: xtextCodec{enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)}},
	"utf_16_le": {name: "utf_16_le", codec: xtextCodec{enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}},
	"utf_16_be": {name: "utf_16_be", codec: xtextCodec{enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}},
	"utf_32":    {name: "utf_32", codec: xtextCodec{enc: utf32.UTF32(utf32.LittleEndian, utf32.UseBOM)}},
	"utf_32_le": {name: "utf_32_le", codec: xtextCodec{enc: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)}},
	"utf_32_be": {name: "utf_32_be", codec: xtextCodec{enc: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)}},
}

var aliases = map[string]string{
	"utf8":         UTF8,
	"u8":           UTF8,
	"utf":          UTF8,
	"cp65001":      UTF8,
	"utf8_sig":     "utf_8_sig",
	"us_ascii":     "ascii",
	"646":          "ascii",
	"latin1":       "latin_1",
	"latin":        "latin_1",
	"l1":           "latin_1",
	"iso_8859_1":   "latin_1",
	"iso8859_1":    "latin_1",
	"8859":         "latin_1",
	"windows_1252": "cp1252",
	"utf16":        "utf_16",
	"u16":          "utf_16",
	"utf_16le":     "utf_16_le",
	"utf_16be":     "utf_16_be",
	"utf32":        "utf_32",
	"u32":          "utf_32",
	"utf_32le":     "utf_32_le",
	"utf_32be":     "utf_32_be",
}

// normalize folds case and separators of an encoding name.
func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ':
			return '_'
		default:
			return r
		}
	}, strings.ToLower(strings.TrimSpace(name)))
}

var lookupCache sync.Map // normalized name -> *Encoding

// Lookup returns the encoding registered under name.
//
// Returns ErrUnknownEncoding when the name is neither built in nor a
// supported IANA character set.
func Lookup(name string) (*Encoding, error) {
	key := normalize(name)
	if key == "" {
		return nil, fmt.Errorf("%w: empty name", errs.ErrUnknownEncoding)
	}

	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	if enc, ok := builtins[key]; ok {
		return enc, nil
	}
	if cached, ok := lookupCache.Load(key); ok {
		return cached.(*Encoding), nil //nolint:forcetypeassert
	}

	var xenc encoding.Encoding
	for _, candidate := range []string{strings.TrimSpace(name), key, strings.ReplaceAll(key, "_", "-")} {
		if e, err := ianaindex.IANA.Encoding(candidate); err == nil && e != nil {
			xenc = e
			break
		}
	}
	if xenc == nil {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownEncoding, name)
	}

	enc := &Encoding{name: key, codec: xtextCodec{enc: xenc}}
	actual, _ := lookupCache.LoadOrStore(key, enc)

	return actual.(*Encoding), nil //nolint:forcetypeassert
}

// MustLookup is like Lookup but panics on error.
func MustLookup(name string) *Encoding {
	enc, err := Lookup(name)
	if err != nil {
		panic(err)
	}

	return enc
}

var defaultName atomic.Pointer[string]

func init() {
	name := UTF8
	defaultName.Store(&name)
}

// DefaultEncoding returns the name of the process-wide default encoding.
func DefaultEncoding() string {
	return *defaultName.Load()
}

// SetDefaultEncoding replaces the process-wide default encoding.
//
// Record types resolve their encodings once, so the new default only applies
// to record types first used after the call.
func SetDefaultEncoding(name string) error {
	enc, err := Lookup(name)
	if err != nil {
		return err
	}

	canonical := enc.Name()
	defaultName.Store(&canonical)

	return nil
}

// Resolve picks the encoding name for a field: the field override if set,
// else the record default if set, else the process-wide default.
func Resolve(fieldOverride, recordDefault string) string {
	if fieldOverride != "" {
		return fieldOverride
	}
	if recordDefault != "" {
		return recordDefault
	}

	return DefaultEncoding()
}
