package record

import (
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/format"
	"github.com/arloliu/packrec/layout"
	"github.com/arloliu/packrec/transcode"
)

const tagName = "pack"

// FieldDescriptor describes one wire field of a record type.
type FieldDescriptor struct {
	Name             string
	Kind             format.FieldKind
	LayoutToken      string // empty for nested records
	EncodingOverride string // empty when the record or global default applies
}

// field is the resolved form of a FieldDescriptor.
type field struct {
	FieldDescriptor

	index int
	typ   reflect.Type
	owner reflect.Type
	token *layout.Token

	// enc is set for Text fields and string lists.
	enc  *transcode.Encoding
	slot int // -1 when the token is not a single slot

	// elem is the struct type of nested records; ptr reports whether
	// the field (or list element) holds it by pointer.
	elem  reflect.Type
	ptr   bool
	child atomic.Pointer[Schema]
}

func (f *field) wrap(err error) error {
	return fmt.Errorf("field %q: %w", f.Name, err)
}

// childSchema returns the schema of a nested record field, resolving it on
// first use.
func (f *field) childSchema() (*Schema, error) {
	if s := f.child.Load(); s != nil {
		return s, nil
	}

	s, err := SchemaFor(f.elem)
	if err != nil {
		return nil, err
	}
	if f.inline() && s.embeds(f.owner, make(map[reflect.Type]bool)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrRecursiveRecord, f.owner)
	}
	f.child.Store(s)

	return s, nil
}

// inline reports whether every encoded value of the owner holds at least one
// encoded child, regardless of the field's current value.
func (f *field) inline() bool {
	switch f.Kind {
	case format.KindNestedRecord:
		return true
	case format.KindListOfNestedRecord:
		return f.typ.Kind() == reflect.Array && f.typ.Len() > 0
	default:
		return false
	}
}

type fieldTag struct {
	token    string
	encoding string
	skip     bool
}

func parseTag(sf reflect.StructField) (fieldTag, error) {
	raw, ok := sf.Tag.Lookup(tagName)
	if !ok {
		return fieldTag{}, nil
	}
	if raw == "-" {
		return fieldTag{skip: true}, nil
	}

	parts := strings.Split(raw, ",")
	tag := fieldTag{token: strings.TrimSpace(parts[0])}
	for _, opt := range parts[1:] {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "encoding":
			tag.encoding = value
		case "":
		default:
			return fieldTag{}, fmt.Errorf("%w: unknown pack tag option %q", errs.ErrInvalidLayoutToken, key)
		}
	}

	return tag, nil
}

// structElem reports whether t is a struct or a pointer to a struct.
func structElem(t reflect.Type) (reflect.Type, bool, bool) {
	switch {
	case t.Kind() == reflect.Struct:
		return t, false, true
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return t.Elem(), true, true
	default:
		return nil, false, false
	}
}

func isByteSeq(t reflect.Type) bool {
	return (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() == reflect.Uint8
}

func isSeq(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

// resolveFields walks the struct fields of typ in declaration order and
// returns its wire fields.
func resolveFields(typ reflect.Type, cfg *Config) ([]*field, error) {
	known := make(map[string]bool, typ.NumField())
	fields := make([]*field, 0, typ.NumField())

	for i := range typ.NumField() {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		known[sf.Name] = true

		tag, err := parseTag(sf)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", sf.Name, err)
		}
		if tag.skip {
			continue
		}
		if tok, ok := cfg.fieldLayouts[sf.Name]; ok {
			tag.token = tok
		}
		if name, ok := cfg.fieldEncodings[sf.Name]; ok {
			tag.encoding = name
		}

		f, err := resolveField(typ, sf, i, tag, cfg)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", sf.Name, err)
		}
		if f != nil {
			fields = append(fields, f)
		}
	}

	if err := checkFieldNames(cfg, known); err != nil {
		return nil, err
	}

	return fields, nil
}

func resolveField(owner reflect.Type, sf reflect.StructField, index int, tag fieldTag, cfg *Config) (*field, error) {
	f := &field{
		FieldDescriptor: FieldDescriptor{
			Name:             sf.Name,
			LayoutToken:      tag.token,
			EncodingOverride: tag.encoding,
		},
		index: index,
		typ:   sf.Type,
		owner: owner,
	}
	t := sf.Type

	if tag.token == "" {
		if elem, ptr, ok := structElem(t); ok {
			f.Kind = format.KindNestedRecord
			f.elem, f.ptr = elem, ptr

			return f, nil
		}
		if isSeq(t) {
			if elem, ptr, ok := structElem(t.Elem()); ok {
				f.Kind = format.KindListOfNestedRecord
				f.elem, f.ptr = elem, ptr

				return f, nil
			}
		}

		return nil, nil
	}

	tok, err := layout.Parse(tag.token)
	if err != nil {
		return nil, err
	}
	f.token = tok

	switch {
	case t.Kind() == reflect.String:
		f.Kind = format.KindText
		f.slot = -1
		if w, ok := tok.SlotWidth(); ok {
			f.slot = w
		}
	case isByteSeq(t) && tok.NumValues() == 1 && layout.IsBytes(tok.Code(0)):
		f.Kind = format.KindBytes
	case isSeq(t):
		f.Kind = format.KindListOfScalar
	default:
		f.Kind = format.KindScalar
	}

	if f.Kind == format.KindText || (f.Kind == format.KindListOfScalar && t.Elem().Kind() == reflect.String) {
		enc, err := transcode.Lookup(transcode.Resolve(tag.encoding, cfg.encoding))
		if err != nil {
			return nil, err
		}
		f.enc = enc
	}

	return f, nil
}
