package record

import (
	"fmt"
	"reflect"

	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/format"
	"github.com/arloliu/packrec/internal/pool"
	"github.com/arloliu/packrec/transcode"
)

func (s *Schema) appendValue(dst []byte, v reflect.Value) ([]byte, error) {
	if s.compiled != nil {
		return s.appendCompiled(dst, v)
	}

	return s.appendDirect(dst, v)
}

func (s *Schema) decodeValue(v reflect.Value, buf []byte, offset int) (int, error) {
	if s.compiled != nil {
		return s.decodeCompiled(v, buf, offset)
	}

	return s.decodeDirect(v, buf, offset)
}

func (s *Schema) appendDirect(dst []byte, v reflect.Value) ([]byte, error) {
	var err error
	for _, f := range s.fields {
		fv := v.Field(f.index)

		switch f.Kind {
		case format.KindScalar, format.KindText, format.KindBytes:
			var val any
			if val, err = f.packValue(fv); err == nil {
				dst, err = f.token.Append(dst, val)
			}
		case format.KindListOfScalar:
			dst, err = f.appendList(dst, fv)
		case format.KindNestedRecord:
			dst, err = f.appendNested(dst, fv)
		case format.KindListOfNestedRecord:
			dst, err = f.appendNestedList(dst, fv)
		}

		if err != nil {
			return nil, f.wrap(err)
		}
	}

	return dst, nil
}

func (s *Schema) decodeDirect(v reflect.Value, buf []byte, offset int) (int, error) {
	var err error
	for _, f := range s.fields {
		fv := v.Field(f.index)

		switch f.Kind {
		case format.KindScalar, format.KindText, format.KindBytes:
			var one [1]any
			if err = f.token.UnpackInto(one[:], buf, offset); err == nil {
				err = f.assignValue(fv, one[0])
				offset += f.token.Size()
			}
		case format.KindListOfScalar:
			offset, err = f.decodeList(fv, buf, offset)
		case format.KindNestedRecord:
			offset, err = f.decodeNested(fv, buf, offset)
		case format.KindListOfNestedRecord:
			offset, err = s.decodeNestedList(f, fv, buf, offset)
		}

		if err != nil {
			return 0, f.wrap(err)
		}
	}

	return offset, nil
}

// packValue converts a Scalar, Text or Bytes field into its single packed value.
func (f *field) packValue(fv reflect.Value) (any, error) {
	if n := f.token.NumValues(); n != 1 {
		return nil, fmt.Errorf("%w: %s field needs a single-value layout, %q holds %d values",
			errs.ErrLayoutMismatch, f.Kind, f.LayoutToken, n)
	}
	if f.Kind == format.KindText {
		return f.encodeText(fv.String())
	}

	return extract(fv, f.token.Code(0))
}

func (f *field) encodeText(s string) ([]byte, error) {
	if f.slot < 0 {
		return f.enc.Encode(s)
	}

	return transcode.EncodeText(s, f.enc, f.slot)
}

func (f *field) assignValue(fv reflect.Value, val any) error {
	if f.enc != nil {
		if raw, ok := val.([]byte); ok {
			s, err := transcode.DecodeText(raw, f.enc)
			if err != nil {
				return err
			}
			fv.SetString(s)

			return nil
		}
	}

	return assign(fv, val)
}

func (f *field) appendList(dst []byte, fv reflect.Value) ([]byte, error) {
	n := f.token.NumValues()
	if fv.Len() != n {
		return nil, fmt.Errorf("%w: pack expected %d items for packing (got %d)", errs.ErrLayoutMismatch, n, fv.Len())
	}

	values, cleanup := pool.GetValueSlice(n)
	defer cleanup()

	for i := range n {
		ev := fv.Index(i)

		var err error
		if f.enc != nil {
			values[i], err = f.enc.Encode(ev.String())
		} else {
			values[i], err = extract(ev, f.token.Code(i))
		}
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}

	return f.token.Append(dst, values...)
}

func (f *field) decodeList(fv reflect.Value, buf []byte, offset int) (int, error) {
	n := f.token.NumValues()
	if fv.Kind() == reflect.Array && fv.Len() != n {
		return 0, fmt.Errorf("%w: array of %d elements for a layout of %d values", errs.ErrLayoutMismatch, fv.Len(), n)
	}

	values, cleanup := pool.GetValueSlice(n)
	defer cleanup()

	if err := f.token.UnpackInto(values, buf, offset); err != nil {
		return 0, err
	}

	target := fv
	if fv.Kind() == reflect.Slice {
		target = reflect.MakeSlice(fv.Type(), n, n)
	}
	for i := range n {
		if err := f.assignValue(target.Index(i), values[i]); err != nil {
			return 0, fmt.Errorf("element %d: %w", i, err)
		}
	}
	if fv.Kind() == reflect.Slice {
		fv.Set(target)
	}

	return offset + f.token.Size(), nil
}

// nestedValue returns the struct value held by a nested field or list
// element. A nil pointer reads as the zero value.
func (f *field) nestedValue(fv reflect.Value) reflect.Value {
	if !f.ptr {
		return fv
	}
	if fv.IsNil() {
		return reflect.Zero(f.elem)
	}

	return fv.Elem()
}

// nestedTarget returns the settable struct value of a nested field or list
// element, allocating nil pointers.
func (f *field) nestedTarget(fv reflect.Value) reflect.Value {
	if !f.ptr {
		return fv
	}
	if fv.IsNil() {
		fv.Set(reflect.New(f.elem))
	}

	return fv.Elem()
}

func (f *field) appendNested(dst []byte, fv reflect.Value) ([]byte, error) {
	child, err := f.childSchema()
	if err != nil {
		return nil, err
	}

	return child.appendValue(dst, f.nestedValue(fv))
}

func (f *field) decodeNested(fv reflect.Value, buf []byte, offset int) (int, error) {
	child, err := f.childSchema()
	if err != nil {
		return 0, err
	}

	return child.decodeValue(f.nestedTarget(fv), buf, offset)
}

func (f *field) appendNestedList(dst []byte, fv reflect.Value) ([]byte, error) {
	child, err := f.childSchema()
	if err != nil {
		return nil, err
	}

	for i := range fv.Len() {
		if dst, err = child.appendValue(dst, f.nestedValue(fv.Index(i))); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}

	return dst, nil
}

// decodeNestedList decodes into the elements already present in the list.
// An empty slice consumes nothing and is reported according to the
// empty list policy of the owning schema.
func (s *Schema) decodeNestedList(f *field, fv reflect.Value, buf []byte, offset int) (int, error) {
	child, err := f.childSchema()
	if err != nil {
		return 0, err
	}

	if fv.Len() == 0 {
		return offset, s.emptyList(f, child, len(buf)-offset)
	}

	for i := range fv.Len() {
		if offset, err = child.decodeValue(f.nestedTarget(fv.Index(i)), buf, offset); err != nil {
			return 0, fmt.Errorf("element %d: %w", i, err)
		}
	}

	return offset, nil
}

func (s *Schema) emptyList(f *field, child *Schema, remaining int) error {
	switch s.policy {
	case format.EmptyListIgnore:
		return nil
	case format.EmptyListError:
		return fmt.Errorf("%w: %s holds no %s to decode into", errs.ErrEmptyRecordList, f.typ, f.elem)
	default:
		if len(child.wireFields()) > 0 {
			s.logger.Warn("empty nested record list consumed no bytes, pre-size it to decode elements",
				"record", s.typ.String(), "field", f.Name, "element", f.elem.String(), "remaining", remaining)
		}

		return nil
	}
}

func (s *Schema) size(v reflect.Value) int {
	if n, ok := s.FixedSize(); ok {
		return n
	}

	total := 0
	for _, f := range s.fields {
		if f.Kind.HasLayout() {
			total += f.token.Size()
			continue
		}

		switch f.Kind {
		case format.KindNestedRecord:
			if child, err := f.childSchema(); err == nil {
				total += child.size(f.nestedValue(v.Field(f.index)))
			}
		case format.KindListOfNestedRecord:
			child, err := f.childSchema()
			if err != nil {
				continue
			}
			fv := v.Field(f.index)
			for i := range fv.Len() {
				total += child.size(f.nestedValue(fv.Index(i)))
			}
		}
	}

	return total
}
