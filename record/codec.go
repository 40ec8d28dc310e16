package record

import (
	"fmt"
	"reflect"

	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/internal/pool"
)

// Codec encodes and decodes records of type T.
//
// A Codec is immutable and safe for concurrent use. The record values
// passed to it are not synchronized.
type Codec[T any] struct {
	schema *Schema
}

// New returns the codec of T, which must be a struct type.
//
// Options register T (see Register); without options T is resolved with
// its current registration or the defaults.
//
// Parameters:
//   - opts: Registration options (WithEncoding, WithCompiled, WithFieldLayout, ...)
//
// Returns:
//   - *Codec[T]: The codec, sharing the process-wide schema of T
//   - error: ErrNotStruct for non-struct T, ErrAlreadyRegistered when opts
//     conflict with an earlier registration, or a field resolution error
func New[T any](opts ...Option) (*Codec[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotStruct, typ)
	}

	if len(opts) > 0 {
		if err := Register(typ, opts...); err != nil {
			return nil, err
		}
	}

	s, err := SchemaFor(typ)
	if err != nil {
		return nil, err
	}

	return &Codec[T]{schema: s}, nil
}

// MustNew is like New but panics on error.
func MustNew[T any](opts ...Option) *Codec[T] {
	c, err := New[T](opts...)
	if err != nil {
		panic(err)
	}

	return c
}

// Schema returns the resolved schema of T.
func (c *Codec[T]) Schema() *Schema {
	return c.schema
}

// Encode encodes rec into a new buffer.
func (c *Codec[T]) Encode(rec *T) ([]byte, error) {
	if rec == nil {
		return nil, errs.ErrNilRecord
	}

	bb := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(bb)

	out, err := c.schema.appendValue(bb.B, reflect.ValueOf(rec).Elem())
	if err != nil {
		return nil, err
	}
	bb.B = out

	return bb.Clone(), nil
}

// Append encodes rec and appends it to dst. On error dst is returned
// unchanged.
func (c *Codec[T]) Append(dst []byte, rec *T) ([]byte, error) {
	if rec == nil {
		return dst, errs.ErrNilRecord
	}

	out, err := c.schema.appendValue(dst, reflect.ValueOf(rec).Elem())
	if err != nil {
		return dst, err
	}

	return out, nil
}

// DecodeInto decodes buf starting at offset into rec and returns the offset
// just past the consumed bytes.
//
// Lists of nested records are decoded into the elements already present in
// rec; an empty list consumes nothing. On error rec may be partially
// updated.
//
// Parameters:
//   - rec: Destination record, must not be nil
//   - buf: Encoded bytes, never modified
//   - offset: Position of the record's first byte in buf
//
// Returns:
//   - int: Offset just past the record, the start of the next one
//   - error: ErrBufferUnderflow, ErrTypeMismatch, ErrValueOutOfRange or a
//     text decode error, prefixed with the failing field path
func (c *Codec[T]) DecodeInto(rec *T, buf []byte, offset int) (int, error) {
	if rec == nil {
		return 0, errs.ErrNilRecord
	}
	if offset < 0 {
		return 0, fmt.Errorf("%w: %d", errs.ErrNegativeOffset, offset)
	}

	return c.schema.decodeValue(reflect.ValueOf(rec).Elem(), buf, offset)
}

// Construct decodes a new record from buf starting at offset.
//
// The record starts as the zero value of T, so lists of nested records
// decode nothing unless T has fixed-length arrays.
func (c *Codec[T]) Construct(buf []byte, offset int) (*T, int, error) {
	rec := new(T)

	next, err := c.DecodeInto(rec, buf, offset)
	if err != nil {
		return nil, 0, err
	}

	return rec, next, nil
}

// Size returns the encoded width of rec.
func (c *Codec[T]) Size(rec *T) int {
	if rec == nil {
		return 0
	}

	return c.schema.size(reflect.ValueOf(rec).Elem())
}

// FixedSize returns the encoded width shared by every value of T, or false
// when the width depends on slice lengths.
func (c *Codec[T]) FixedSize() (int, bool) {
	return c.schema.FixedSize()
}

func (s *Schema) value(v reflect.Value, settable bool) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, errs.ErrNilRecord
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, errs.ErrNilRecord
		}
		v = v.Elem()
	}
	if v.Type() != s.typ {
		return reflect.Value{}, fmt.Errorf("%w: schema of %s used with %s", errs.ErrTypeMismatch, s.typ, v.Type())
	}
	if settable && !v.CanSet() {
		return reflect.Value{}, fmt.Errorf("%w: %s is not addressable, pass a pointer", errs.ErrTypeMismatch, v.Type())
	}

	return v, nil
}

// Append encodes v, a value of or pointer to the record type, and appends
// it to dst.
func (s *Schema) Append(dst []byte, v reflect.Value) ([]byte, error) {
	v, err := s.value(v, false)
	if err != nil {
		return dst, err
	}

	out, err := s.appendValue(dst, v)
	if err != nil {
		return dst, err
	}

	return out, nil
}

// Decode decodes buf starting at offset into v, a pointer to the record
// type, and returns the offset just past the consumed bytes.
func (s *Schema) Decode(v reflect.Value, buf []byte, offset int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("%w: %d", errs.ErrNegativeOffset, offset)
	}

	v, err := s.value(v, true)
	if err != nil {
		return 0, err
	}

	return s.decodeValue(v, buf, offset)
}

// Size returns the encoded width of v, a value of or pointer to the record
// type.
func (s *Schema) Size(v reflect.Value) int {
	v, err := s.value(v, false)
	if err != nil {
		return 0
	}

	return s.size(v)
}
