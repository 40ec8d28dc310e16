package layout

import (
	"fmt"
	"strings"

	"github.com/arloliu/packrec/endian"
	"github.com/arloliu/packrec/errs"
)

// maxItemCount bounds a single count so that a malformed token cannot request
// an absurd allocation.
const maxItemCount = 1 << 24

// Item is one run of a single type code inside a token.
type Item struct {
	// Code is the type code, e.g. 'f' or 's'.
	Code byte
	// Count is the repeat count, or the slot width for 's' and 'p'.
	Count int
	// Engine is the byte order applied to multi-byte codes.
	Engine endian.EndianEngine

	marker byte // marker in effect when the item was parsed, 0 for none
}

// Size returns the number of bytes the item occupies.
func (it Item) Size() int {
	switch it.Code {
	case 's', 'p', 'x':
		return it.Count
	default:
		return it.Count * codeSize(it.Code)
	}
}

// NumValues returns the number of values the item produces or consumes.
func (it Item) NumValues() int {
	switch it.Code {
	case 's', 'p':
		return 1
	case 'x':
		return 0
	default:
		return it.Count
	}
}

// Token is a parsed layout token.
type Token struct {
	src   string
	items []Item
	codes []byte
	size  int
}

func codeSize(code byte) int {
	switch code {
	case 'x', 'c', 'b', 'B', '?', 's', 'p':
		return 1
	case 'h', 'H', 'e':
		return 2
	case 'i', 'I', 'l', 'L', 'f':
		return 4
	case 'q', 'Q', 'd':
		return 8
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Parse parses a layout token.
//
// Parameters:
//   - src: Token source such as "<f", ">2h" or "<i 4x 8s"
//
// Returns:
//   - *Token: The parsed token, immutable and safe to share
//   - error: ErrInvalidLayoutToken for empty tokens, unknown codes, dangling
//     counts or counts that are too large
func Parse(src string) (*Token, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty token", errs.ErrInvalidLayoutToken)
	}

	t := &Token{src: src}
	engine := endian.CheckEndianness()
	var marker byte

	for i := 0; i < len(src); {
		c := src[i]
		if isSpace(c) {
			i++
			continue
		}

		if e, ok := endian.ForMarker(c); ok {
			engine, marker = e, c
			i++

			continue
		}

		count := 1
		if isDigit(c) {
			count = 0
			for i < len(src) && isDigit(src[i]) {
				count = count*10 + int(src[i]-'0')
				if count > maxItemCount {
					return nil, fmt.Errorf("%w: count too large in %q", errs.ErrInvalidLayoutToken, src)
				}
				i++
			}
			if i == len(src) {
				return nil, fmt.Errorf("%w: repeat count given without format specifier in %q", errs.ErrInvalidLayoutToken, src)
			}
			c = src[i]
		}

		if codeSize(c) == 0 {
			return nil, fmt.Errorf("%w: bad char %q in %q", errs.ErrInvalidLayoutToken, c, src)
		}
		i++

		t.items = append(t.items, Item{Code: c, Count: count, Engine: engine, marker: marker})
	}

	if len(t.items) == 0 {
		return nil, fmt.Errorf("%w: no items in %q", errs.ErrInvalidLayoutToken, src)
	}

	t.index()

	return t, nil
}

// MustParse is like Parse but panics on error. Intended for package-level tokens.
func MustParse(src string) *Token {
	t, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return t
}

// Calcsize returns the number of bytes described by a token.
func Calcsize(src string) (int, error) {
	t, err := Parse(src)
	if err != nil {
		return 0, err
	}

	return t.Size(), nil
}

// Merge concatenates tokens in order into one token.
//
// Every item keeps the byte order it had in its source token, so packing the
// merged token produces the same bytes as packing each token in turn. The
// rendered source inserts a host-order marker where a token without a marker
// follows one that ended under an explicit marker.
func Merge(tokens ...*Token) *Token {
	merged := &Token{}
	var sb strings.Builder
	var last byte

	for _, tok := range tokens {
		if tok == nil || len(tok.items) == 0 {
			continue
		}

		inserted := false
		if tok.items[0].marker == 0 && isExplicitOrder(last) {
			sb.WriteByte(endian.MarkerNative)
			inserted = true
		}
		sb.WriteString(tok.src)
		merged.items = append(merged.items, tok.items...)

		end := tok.items[len(tok.items)-1].marker
		if end == 0 && inserted {
			end = endian.MarkerNative
		}
		if end != 0 || inserted {
			last = end
		}
	}

	merged.src = sb.String()
	merged.index()

	return merged
}

func isExplicitOrder(marker byte) bool {
	return marker == endian.MarkerLittle || marker == endian.MarkerBig || marker == endian.MarkerNetwork
}

func (t *Token) index() {
	t.size = 0
	t.codes = t.codes[:0]
	for _, it := range t.items {
		t.size += it.Size()
		for range it.NumValues() {
			t.codes = append(t.codes, it.Code)
		}
	}
}

// String returns the token source.
func (t *Token) String() string {
	return t.src
}

// Size returns the number of bytes the token packs into.
func (t *Token) Size() int {
	return t.size
}

// NumValues returns the number of values the token packs.
func (t *Token) NumValues() int {
	return len(t.codes)
}

// Codes returns the type code of each value slot, in order.
func (t *Token) Codes() []byte {
	out := make([]byte, len(t.codes))
	copy(out, t.codes)

	return out
}

// Code returns the type code of value slot i.
func (t *Token) Code(i int) byte {
	return t.codes[i]
}

// Items returns a copy of the token items.
func (t *Token) Items() []Item {
	out := make([]Item, len(t.items))
	copy(out, t.items)

	return out
}

// SlotWidth returns the data width of a token that describes exactly one
// 's' or 'p' slot. For 'p' the length byte is excluded.
func (t *Token) SlotWidth() (int, bool) {
	if len(t.codes) != 1 {
		return 0, false
	}

	for _, it := range t.items {
		switch it.Code {
		case 's':
			return it.Count, true
		case 'p':
			return max(it.Count-1, 0), true
		}
	}

	return 0, false
}
