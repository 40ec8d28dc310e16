package record

import (
	"fmt"
	"math"
	"reflect"

	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/layout"
)

// extract converts a field value into the canonical value the layout
// packer expects for code.
func extract(fv reflect.Value, code byte) (any, error) {
	for fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil, fmt.Errorf("%w: nil %s for code %c", errs.ErrTypeMismatch, fv.Type(), code)
		}
		fv = fv.Elem()
	}

	switch {
	case code == 'c':
		switch fv.Kind() {
		case reflect.Uint8:
			return byte(fv.Uint()), nil
		case reflect.Int8:
			return byte(int8(fv.Int())), nil //nolint:gosec
		}
		if b, ok := bytesOf(fv); ok {
			return b, nil
		}
	case layout.IsBytes(code):
		if b, ok := bytesOf(fv); ok {
			return b, nil
		}
		if fv.Kind() == reflect.String {
			return []byte(fv.String()), nil
		}

		return nil, fmt.Errorf("%w: cannot pack %s with code %c", errs.ErrTypeMismatch, fv.Type(), code)
	}

	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return fv.Float(), nil
	case reflect.Bool:
		return fv.Bool(), nil
	case reflect.String:
		return fv.String(), nil
	default:
		return nil, fmt.Errorf("%w: cannot pack %s with code %c", errs.ErrTypeMismatch, fv.Type(), code)
	}
}

// bytesOf returns the contents of a byte slice or byte array.
func bytesOf(fv reflect.Value) ([]byte, bool) {
	if !isByteSeq(fv.Type()) {
		return nil, false
	}
	if fv.Kind() == reflect.Slice {
		return fv.Bytes(), true
	}

	out := make([]byte, fv.Len())
	for i := range out {
		out[i] = byte(fv.Index(i).Uint())
	}

	return out, true
}

// assign stores an unpacked canonical value into fv.
func assign(fv reflect.Value, val any) error {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		fv = fv.Elem()
	}
	if fv.Kind() == reflect.Interface && fv.NumMethod() == 0 {
		fv.Set(reflect.ValueOf(val))
		return nil
	}

	var err error
	switch v := val.(type) {
	case int64:
		err = assignInt(fv, v)
	case uint64:
		err = assignUint(fv, v)
	case float64:
		err = assignFloat(fv, v)
	case bool:
		err = assignBool(fv, v)
	case []byte:
		err = assignBytes(fv, v)
	default:
		err = mismatch(fv, val)
	}

	return err
}

func mismatch(fv reflect.Value, val any) error {
	return fmt.Errorf("%w: cannot assign %T to %s", errs.ErrTypeMismatch, val, fv.Type())
}

func outOfRange(fv reflect.Value, val any) error {
	return fmt.Errorf("%w: %v does not fit %s", errs.ErrValueOutOfRange, val, fv.Type())
}

func assignInt(fv reflect.Value, v int64) error {
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fv.OverflowInt(v) {
			return outOfRange(fv, v)
		}
		fv.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v < 0 || fv.OverflowUint(uint64(v)) {
			return outOfRange(fv, v)
		}
		fv.SetUint(uint64(v))
	case reflect.Float32, reflect.Float64:
		fv.SetFloat(float64(v))
	case reflect.Bool:
		fv.SetBool(v != 0)
	default:
		return mismatch(fv, v)
	}

	return nil
}

func assignUint(fv reflect.Value, v uint64) error {
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v > math.MaxInt64 || fv.OverflowInt(int64(v)) {
			return outOfRange(fv, v)
		}
		fv.SetInt(int64(v))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if fv.OverflowUint(v) {
			return outOfRange(fv, v)
		}
		fv.SetUint(v)
	case reflect.Float32, reflect.Float64:
		fv.SetFloat(float64(v))
	case reflect.Bool:
		fv.SetBool(v != 0)
	default:
		return mismatch(fv, v)
	}

	return nil
}

func assignFloat(fv reflect.Value, v float64) error {
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		if fv.OverflowFloat(v) {
			return outOfRange(fv, v)
		}
		fv.SetFloat(v)
	default:
		return mismatch(fv, v)
	}

	return nil
}

func assignBool(fv reflect.Value, v bool) error {
	var n uint64
	if v {
		n = 1
	}

	switch fv.Kind() {
	case reflect.Bool:
		fv.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fv.SetInt(int64(n)) //nolint:gosec
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		fv.SetUint(n)
	default:
		return mismatch(fv, v)
	}

	return nil
}

func assignBytes(fv reflect.Value, v []byte) error {
	switch {
	case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Uint8:
		fv.SetBytes(v)
	case fv.Kind() == reflect.Array && fv.Type().Elem().Kind() == reflect.Uint8:
		for i := range fv.Len() {
			var b byte
			if i < len(v) {
				b = v[i]
			}
			fv.Index(i).SetUint(uint64(b))
		}
	case fv.Kind() == reflect.String:
		fv.SetString(string(v))
	case fv.Kind() == reflect.Uint8 && len(v) == 1:
		fv.SetUint(uint64(v[0]))
	case fv.Kind() == reflect.Int8 && len(v) == 1:
		fv.SetInt(int64(int8(v[0]))) //nolint:gosec
	default:
		return mismatch(fv, v)
	}

	return nil
}
