package layout

import (
	"fmt"
	"math"
	"slices"

	"github.com/x448/float16"

	"github.com/arloliu/packrec/endian"
	"github.com/arloliu/packrec/errs"
)

// Append packs values according to the token and appends the bytes to dst.
//
// The number of values must equal NumValues. Slot values shorter than their
// slot are zero padded; longer values fail with ErrEncodingSizeMismatch.
// On error no partial buffer is returned.
func (t *Token) Append(dst []byte, values ...any) ([]byte, error) {
	if len(values) != len(t.codes) {
		return nil, fmt.Errorf("%w: pack expected %d items for packing (got %d)",
			errs.ErrLayoutMismatch, len(t.codes), len(values))
	}

	dst = slices.Grow(dst, t.size)

	var err error
	vi := 0
	for _, it := range t.items {
		switch it.Code {
		case 'x':
			dst = appendZeros(dst, it.Count)
		case 's':
			dst, err = appendSlot(dst, it.Count, values[vi])
			vi++
		case 'p':
			dst, err = appendPascal(dst, it.Count, values[vi])
			vi++
		default:
			for range it.Count {
				dst, err = appendValue(dst, it, values[vi])
				if err != nil {
					break
				}
				vi++
			}
		}

		if err != nil {
			return nil, fmt.Errorf("value %d (%c): %w", vi, it.Code, err)
		}
	}

	return dst, nil
}

// Pack packs values into a new buffer.
func (t *Token) Pack(values ...any) ([]byte, error) {
	return t.Append(make([]byte, 0, t.size), values...)
}

func appendZeros(dst []byte, n int) []byte {
	for range n {
		dst = append(dst, 0)
	}

	return dst
}

func appendSlot(dst []byte, width int, v any) ([]byte, error) {
	b, err := toBytes(v)
	if err != nil {
		return dst, err
	}
	if len(b) > width {
		return dst, fmt.Errorf("%w: %d bytes into a %d-byte slot", errs.ErrEncodingSizeMismatch, len(b), width)
	}
	dst = append(dst, b...)

	return appendZeros(dst, width-len(b)), nil
}

func appendPascal(dst []byte, width int, v any) ([]byte, error) {
	b, err := toBytes(v)
	if err != nil {
		return dst, err
	}
	if width == 0 {
		if len(b) > 0 {
			return dst, fmt.Errorf("%w: %d bytes into a zero-width pascal slot", errs.ErrEncodingSizeMismatch, len(b))
		}

		return dst, nil
	}
	if len(b) > width-1 || len(b) > math.MaxUint8 {
		return dst, fmt.Errorf("%w: %d bytes into a %d-byte pascal slot", errs.ErrEncodingSizeMismatch, len(b), width)
	}
	dst = append(dst, byte(len(b)))
	dst = append(dst, b...)

	return appendZeros(dst, width-1-len(b)), nil
}

func appendValue(dst []byte, it Item, v any) ([]byte, error) {
	engine := it.Engine
	code := it.Code

	switch {
	case code == 'c':
		c, err := toChar(v)
		if err != nil {
			return dst, err
		}

		return append(dst, c), nil
	case code == '?':
		b, err := toBool(v)
		if err != nil {
			return dst, err
		}
		if b {
			return append(dst, 1), nil
		}

		return append(dst, 0), nil
	case IsSigned(code):
		n, err := toInt64(v)
		if err != nil {
			return dst, err
		}
		lo, hi := signedRange(code)
		if n < lo || n > hi {
			return dst, fmt.Errorf("%w: %d not in [%d, %d]", errs.ErrValueOutOfRange, n, lo, hi)
		}

		return appendUint(dst, engine, code, uint64(n)), nil //nolint:gosec
	case IsUnsigned(code):
		u, err := toUint64(v)
		if err != nil {
			return dst, err
		}
		if hi := unsignedMax(code); u > hi {
			return dst, fmt.Errorf("%w: %d not in [0, %d]", errs.ErrValueOutOfRange, u, hi)
		}

		return appendUint(dst, engine, code, u), nil
	case IsFloat(code):
		f, err := toFloat64(v)
		if err != nil {
			return dst, err
		}

		return appendFloat(dst, engine, code, f)
	default:
		return dst, fmt.Errorf("%w: unsupported code %q", errs.ErrInvalidLayoutToken, code)
	}
}

// appendUint writes the low codeSize(code) bytes of u.
func appendUint(dst []byte, engine endian.EndianEngine, code byte, u uint64) []byte {
	switch codeSize(code) {
	case 1:
		return append(dst, byte(u))
	case 2:
		return engine.AppendUint16(dst, uint16(u)) //nolint:gosec
	case 4:
		return engine.AppendUint32(dst, uint32(u)) //nolint:gosec
	default:
		return engine.AppendUint64(dst, u)
	}
}

func appendFloat(dst []byte, engine endian.EndianEngine, code byte, f float64) ([]byte, error) {
	switch code {
	case 'e':
		h := halfFloat(f)
		if h.IsInf(0) && !math.IsInf(f, 0) {
			return dst, fmt.Errorf("%w: float too large to pack with e format", errs.ErrValueOutOfRange)
		}

		return engine.AppendUint16(dst, h.Bits()), nil
	case 'f':
		r := float32(f)
		if math.IsInf(float64(r), 0) && !math.IsInf(f, 0) {
			return dst, fmt.Errorf("%w: float too large to pack with f format", errs.ErrValueOutOfRange)
		}

		return engine.AppendUint32(dst, math.Float32bits(r)), nil
	default:
		return engine.AppendUint64(dst, math.Float64bits(f)), nil
	}
}

// halfFloat rounds f to the nearest half float, ties to even.
//
// The float32 step rounds to odd: an inexact result is truncated toward zero
// and its lowest bit set, so the one rounding to 11 bits sees the same
// nearest/tie decision as rounding f directly.
func halfFloat(f float64) float16.Float16 {
	r := float32(f)
	if math.IsNaN(f) || float64(r) == f || math.IsInf(float64(r), 0) {
		return float16.Fromfloat32(r)
	}

	if math.Abs(float64(r)) > math.Abs(f) {
		r = math.Nextafter32(r, 0)
	}

	return float16.Fromfloat32(math.Float32frombits(math.Float32bits(r) | 1))
}

// Unpack unpacks the token from buf starting at offset.
//
// Returns ErrBufferUnderflow when fewer than Size bytes remain.
func (t *Token) Unpack(buf []byte, offset int) ([]any, error) {
	values := make([]any, len(t.codes))
	if err := t.UnpackInto(values, buf, offset); err != nil {
		return nil, err
	}

	return values, nil
}

// UnpackInto is like Unpack but stores the values into dst, which must have
// exactly NumValues elements.
func (t *Token) UnpackInto(dst []any, buf []byte, offset int) error {
	if offset < 0 {
		return fmt.Errorf("%w: %d", errs.ErrNegativeOffset, offset)
	}
	if len(dst) != len(t.codes) {
		return fmt.Errorf("%w: unpack expected %d slots (got %d)", errs.ErrLayoutMismatch, len(t.codes), len(dst))
	}
	if offset > len(buf) || len(buf)-offset < t.size {
		return fmt.Errorf("%w: unpack requires a buffer of at least %d bytes at offset %d (actual buffer size is %d)",
			errs.ErrBufferUnderflow, t.size, offset, len(buf))
	}

	p := offset
	vi := 0
	for _, it := range t.items {
		switch it.Code {
		case 'x':
			p += it.Count
		case 's':
			b := make([]byte, it.Count)
			copy(b, buf[p:p+it.Count])
			dst[vi] = b
			vi++
			p += it.Count
		case 'p':
			var b []byte
			if it.Count > 0 {
				n := min(int(buf[p]), it.Count-1)
				b = make([]byte, n)
				copy(b, buf[p+1:p+1+n])
			}
			dst[vi] = b
			vi++
			p += it.Count
		default:
			size := codeSize(it.Code)
			for range it.Count {
				dst[vi] = readValue(it, buf[p:p+size])
				vi++
				p += size
			}
		}
	}

	return nil
}

func readValue(it Item, b []byte) any {
	engine := it.Engine

	switch it.Code {
	case 'c':
		return []byte{b[0]}
	case '?':
		return b[0] != 0
	case 'b':
		return int64(int8(b[0]))
	case 'B':
		return uint64(b[0])
	case 'h':
		return int64(int16(engine.Uint16(b))) //nolint:gosec
	case 'H':
		return uint64(engine.Uint16(b))
	case 'i', 'l':
		return int64(int32(engine.Uint32(b))) //nolint:gosec
	case 'I', 'L':
		return uint64(engine.Uint32(b))
	case 'q':
		return int64(engine.Uint64(b)) //nolint:gosec
	case 'Q':
		return engine.Uint64(b)
	case 'e':
		return float64(float16.Frombits(engine.Uint16(b)).Float32())
	case 'f':
		return float64(math.Float32frombits(engine.Uint32(b)))
	default: // 'd'
		return math.Float64frombits(engine.Uint64(b))
	}
}
