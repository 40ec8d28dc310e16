// Package packrec maps Go structs onto fixed binary layouts described with
// compact layout tokens such as "<f", ">2h" or "16s".
//
// Each field of a record type carries a layout token in its `pack` struct
// tag. Fields without a token are nested records (a struct, a pointer to a
// struct, or a slice or array of them); other untagged fields are skipped.
//
// # Core Features
//
//   - Layout codes x c b B ? h H i I l L q Q e f d s p with
//     byte order markers @ = < > !
//   - Strings in fixed slots transcoded through golang.org/x/text encodings
//   - Nested records and lists of nested records, depth-first
//   - Optional compiled mode that packs all flat fields with one merged token
//   - Record blocks: many records of one type behind a checksummed header,
//     optionally compressed with zstd, S2 or LZ4
//
// # Basic Usage
//
//	type Reading struct {
//	    Sensor string    `pack:"8s,encoding=ascii"`
//	    Value  float32   `pack:"<f"`
//	    Window [3]uint16 `pack:"<HHH"`
//	}
//
//	buf, _ := packrec.Marshal(&Reading{Sensor: "t1", Value: 21.5})
//
//	var r Reading
//	_ = packrec.Unmarshal(buf, &r)
//
// Typed codecs avoid the per-call type lookup:
//
//	codec, _ := packrec.New[Reading]()
//	buf, _ = codec.Encode(&r)
//
// # Package Structure
//
// This package provides top-level wrappers around the record and block
// packages for the most common use cases. Use those packages directly for
// schema introspection and finer control.
package packrec

import (
	"reflect"

	"github.com/arloliu/packrec/block"
	"github.com/arloliu/packrec/layout"
	"github.com/arloliu/packrec/record"
	"github.com/arloliu/packrec/transcode"
)

// Marshal encodes v, a record or a pointer to one.
//
// The record type is resolved on first use with default options unless it
// was registered with Register.
func Marshal(v any) ([]byte, error) {
	return Append(nil, v)
}

// Append encodes v and appends it to dst. On error dst is returned unchanged.
func Append(dst []byte, v any) ([]byte, error) {
	schema, err := record.SchemaFor(reflect.TypeOf(v))
	if err != nil {
		return dst, err
	}

	return schema.Append(dst, reflect.ValueOf(v))
}

// Unmarshal decodes the record at the start of buf into v, which must be a
// pointer to a record.
//
// Trailing bytes after the record are ignored; use UnmarshalAt to continue
// with the next record.
func Unmarshal(buf []byte, v any) error {
	_, err := UnmarshalAt(buf, 0, v)
	return err
}

// UnmarshalAt decodes the record starting at offset into v and returns the
// offset just past it.
//
// Parameters:
//   - buf: Encoded bytes
//   - offset: Position of the record's first byte in buf
//   - v: Pointer to the destination record
//
// Returns:
//   - int: Offset just past the decoded record
//   - error: ErrNotStruct or ErrTypeMismatch for unsupported v, or a decode error
//
// Example:
//
//	offset := 0
//	for offset < len(buf) {
//	    var r Reading
//	    if offset, err = packrec.UnmarshalAt(buf, offset, &r); err != nil {
//	        return err
//	    }
//	    readings = append(readings, r)
//	}
func UnmarshalAt(buf []byte, offset int, v any) (int, error) {
	schema, err := record.SchemaFor(reflect.TypeOf(v))
	if err != nil {
		return 0, err
	}

	return schema.Decode(reflect.ValueOf(v), buf, offset)
}

// Size returns the encoded width of v.
func Size(v any) (int, error) {
	schema, err := record.SchemaFor(reflect.TypeOf(v))
	if err != nil {
		return 0, err
	}

	return schema.Size(reflect.ValueOf(v)), nil
}

// Register resolves the schema of T with opts. Call it before the first
// Marshal or Unmarshal of T; see record.Register.
//
// Available options:
//   - record.WithEncoding(name)
//   - record.WithCompiled() / record.WithDirect()
//   - record.WithFieldLayout(field, token) / record.WithFieldEncoding(field, name)
//   - record.WithEmptyListPolicy(policy)
//   - record.WithLogger(logger)
func Register[T any](opts ...record.Option) error {
	return record.Register(reflect.TypeFor[T](), opts...)
}

// New returns a typed codec for T.
func New[T any](opts ...record.Option) (*record.Codec[T], error) {
	return record.New[T](opts...)
}

// NewBlockEncoder returns a block encoder for records of T using the
// default codec of T.
//
// Available options:
//   - block.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - block.WithLittleEndian() / block.WithBigEndian()
//   - block.WithChecksum(true|false)
//   - block.WithLogger(logger)
func NewBlockEncoder[T any](opts ...block.EncoderOption) (*block.Encoder[T], error) {
	codec, err := record.New[T]()
	if err != nil {
		return nil, err
	}

	return block.NewEncoder(codec, opts...)
}

// NewBlockDecoder returns a decoder for a block of T records.
func NewBlockDecoder[T any](data []byte) (*block.Decoder[T], error) {
	codec, err := record.New[T]()
	if err != nil {
		return nil, err
	}

	return block.NewDecoder(codec, data)
}

// Calcsize returns the byte size of a layout token.
func Calcsize(token string) (int, error) {
	return layout.Calcsize(token)
}

// SetDefaultEncoding sets the text encoding used by record types without
// an explicit encoding. It affects only types resolved after the call.
func SetDefaultEncoding(name string) error {
	return transcode.SetDefaultEncoding(name)
}
