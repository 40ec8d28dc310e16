package layout

import (
	"fmt"
	"math"

	"github.com/arloliu/packrec/errs"
)

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", errs.ErrValueOutOfRange, n)
		}

		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", errs.ErrValueOutOfRange, n)
		}

		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}

		return 0, nil
	default:
		return 0, fmt.Errorf("%w: required argument is not an integer: %T", errs.ErrTypeMismatch, v)
	}
}

func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case int, int8, int16, int32, int64:
		i, _ := toInt64(n)
		if i < 0 {
			return 0, fmt.Errorf("%w: %d is negative for an unsigned code", errs.ErrValueOutOfRange, i)
		}

		return uint64(i), nil
	case bool:
		if n {
			return 1, nil
		}

		return 0, nil
	default:
		return 0, fmt.Errorf("%w: required argument is not an integer: %T", errs.ErrTypeMismatch, v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int, int8, int16, int32, int64:
		i, _ := toInt64(n)
		return float64(i), nil
	case uint, uint8, uint16, uint32, uint64:
		u, _ := toUint64(n)
		return float64(u), nil
	default:
		return 0, fmt.Errorf("%w: required argument is not a float: %T", errs.ErrTypeMismatch, v)
	}
}

func toBool(v any) (bool, error) {
	switch n := v.(type) {
	case bool:
		return n, nil
	case float32:
		return n != 0, nil
	case float64:
		return n != 0, nil
	default:
		i, err := toInt64(v)
		if err == nil {
			return i != 0, nil
		}
		u, err := toUint64(v)
		if err != nil {
			return false, fmt.Errorf("%w: required argument is not a bool: %T", errs.ErrTypeMismatch, v)
		}

		return u != 0, nil
	}
}

func toBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: argument must be bytes: %T", errs.ErrTypeMismatch, v)
	}
}

func toChar(v any) (byte, error) {
	switch c := v.(type) {
	case byte:
		return c, nil
	case []byte:
		if len(c) == 1 {
			return c[0], nil
		}
	case string:
		if len(c) == 1 {
			return c[0], nil
		}
	}

	return 0, fmt.Errorf("%w: char format requires a bytes object of length 1: %T", errs.ErrTypeMismatch, v)
}

func signedRange(code byte) (int64, int64) {
	switch code {
	case 'b':
		return math.MinInt8, math.MaxInt8
	case 'h':
		return math.MinInt16, math.MaxInt16
	case 'i', 'l':
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func unsignedMax(code byte) uint64 {
	switch code {
	case 'B':
		return math.MaxUint8
	case 'H':
		return math.MaxUint16
	case 'I', 'L':
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// IsSigned reports whether code packs a signed integer.
func IsSigned(code byte) bool {
	switch code {
	case 'b', 'h', 'i', 'l', 'q':
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether code packs an unsigned integer.
func IsUnsigned(code byte) bool {
	switch code {
	case 'B', 'H', 'I', 'L', 'Q':
		return true
	default:
		return false
	}
}

// IsFloat reports whether code packs a floating point number.
func IsFloat(code byte) bool {
	return code == 'e' || code == 'f' || code == 'd'
}

// IsBytes reports whether code packs a byte sequence.
func IsBytes(code byte) bool {
	return code == 's' || code == 'p' || code == 'c'
}
