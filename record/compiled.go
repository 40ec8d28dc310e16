package record

import (
	"fmt"
	"reflect"

	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/internal/pool"
)

func (s *Schema) appendCompiled(dst []byte, v reflect.Value) ([]byte, error) {
	values, cleanup := pool.GetValueSlice(len(s.compiledFields))
	defer cleanup()

	for i, f := range s.compiledFields {
		val, err := f.packValue(v.Field(f.index))
		if err != nil {
			return nil, f.wrap(err)
		}
		values[i] = val
	}

	return s.compiled.Append(dst, values...)
}

func (s *Schema) decodeCompiled(v reflect.Value, buf []byte, offset int) (int, error) {
	for _, f := range s.compiledFields {
		if n := f.token.NumValues(); n != 1 {
			return 0, f.wrap(fmt.Errorf("%w: %s field needs a single-value layout, %q holds %d values",
				errs.ErrLayoutMismatch, f.Kind, f.LayoutToken, n))
		}
	}

	values, cleanup := pool.GetValueSlice(len(s.compiledFields))
	defer cleanup()

	if err := s.compiled.UnpackInto(values, buf, offset); err != nil {
		return 0, err
	}
	for i, f := range s.compiledFields {
		if err := f.assignValue(v.Field(f.index), values[i]); err != nil {
			return 0, f.wrap(err)
		}
	}

	return offset + s.compiled.Size(), nil
}
