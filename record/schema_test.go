package record

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/format"
)

type kindsModel struct {
	Scalar   uint16  `pack:">H"`
	Text     string  `pack:"8s,encoding=latin-1"`
	Raw      []byte  `pack:"4s"`
	Pascal   string  `pack:"6p"`
	Values   []int64 `pack:"<2q"`
	Child    simpleModel
	Children []simpleModel
	Skipped  int32 `pack:"-"`
	Ignored  float64
	hidden   int32 `pack:"<i"` //nolint:unused
}

func TestSchemaFor_FieldKinds(t *testing.T) {
	s, err := SchemaFor(reflect.TypeFor[kindsModel]())
	require.NoError(t, err)

	want := []FieldDescriptor{
		{Name: "Scalar", Kind: format.KindScalar, LayoutToken: ">H"},
		{Name: "Text", Kind: format.KindText, LayoutToken: "8s", EncodingOverride: "latin-1"},
		{Name: "Raw", Kind: format.KindBytes, LayoutToken: "4s"},
		{Name: "Pascal", Kind: format.KindText, LayoutToken: "6p"},
		{Name: "Values", Kind: format.KindListOfScalar, LayoutToken: "<2q"},
		{Name: "Child", Kind: format.KindNestedRecord},
		{Name: "Children", Kind: format.KindListOfNestedRecord},
	}
	require.Equal(t, want, s.Fields())
	require.Equal(t, reflect.TypeFor[kindsModel](), s.Type())
	require.Equal(t, format.ModeDirect, s.Mode())

	_, ok := s.CompiledLayout()
	require.False(t, ok)
	require.False(t, s.CompiledCovers())

	ptr, err := SchemaFor(reflect.TypeFor[*kindsModel]())
	require.NoError(t, err)
	require.Same(t, s, ptr)
}

func TestSchemaFor_NotStruct(t *testing.T) {
	_, err := SchemaFor(reflect.TypeFor[int]())
	require.ErrorIs(t, err, errs.ErrNotStruct)

	_, err = SchemaFor(nil)
	require.ErrorIs(t, err, errs.ErrNotStruct)

	_, err = New[*simpleModel]()
	require.ErrorIs(t, err, errs.ErrNotStruct)
}

type badTokenModel struct {
	A int32 `pack:"<z"`
}

type badTagOptionModel struct {
	A int32 `pack:"<i,order=big"`
}

func TestSchemaFor_InvalidTags(t *testing.T) {
	_, err := SchemaFor(reflect.TypeFor[badTokenModel]())
	require.ErrorIs(t, err, errs.ErrInvalidLayoutToken)
	require.ErrorContains(t, err, `field "A"`)

	_, err = SchemaFor(reflect.TypeFor[badTagOptionModel]())
	require.ErrorIs(t, err, errs.ErrInvalidLayoutToken)
}

type registeredModel struct {
	A int32
	B string `pack:"8s"`
}

type conflictModel struct {
	A int32 `pack:"<i"`
}

type unknownFieldModel struct {
	A int32 `pack:"<i"`
}

type retryModel struct {
	A int32
}

func TestRegister(t *testing.T) {
	t.Run("field options override tags", func(t *testing.T) {
		typ := reflect.TypeFor[registeredModel]()
		opts := []Option{WithFieldLayout("A", ">i"), WithFieldEncoding("B", "utf-16-be")}

		require.NoError(t, Register(typ, opts...))
		require.NoError(t, Register(typ, opts...), "equal options are idempotent")

		codec := MustNew[registeredModel]()
		buf, err := codec.Encode(&registeredModel{A: 1, B: "ab"})
		require.NoError(t, err)
		require.Equal(t, []byte{0, 0, 0, 1, 0, 'a', 0, 'b', 0, 0, 0, 0}, buf)

		fields := codec.Schema().Fields()
		require.Equal(t, "utf_16_be", fields[1].EncodingOverride)
	})

	t.Run("conflicting options", func(t *testing.T) {
		typ := reflect.TypeFor[conflictModel]()
		_, err := SchemaFor(typ)
		require.NoError(t, err)

		err = Register(typ, WithCompiled())
		require.ErrorIs(t, err, errs.ErrAlreadyRegistered)

		_, err = New[conflictModel](WithEncoding("ascii"))
		require.ErrorIs(t, err, errs.ErrAlreadyRegistered)
	})

	t.Run("unknown field", func(t *testing.T) {
		err := Register(reflect.TypeFor[unknownFieldModel](), WithFieldLayout("Missing", "<i"))
		require.ErrorIs(t, err, errs.ErrUnknownField)
	})

	t.Run("invalid options", func(t *testing.T) {
		typ := reflect.TypeFor[retryModel]()
		require.ErrorIs(t, Register(typ, WithFieldLayout("A", "<y")), errs.ErrInvalidLayoutToken)
		require.ErrorIs(t, Register(typ, WithEncoding("no-such-codec")), errs.ErrUnknownEncoding)
		require.ErrorIs(t, Register(typ, WithFieldLayout("Nope", "<i")), errs.ErrUnknownField)

		// failed registrations leave the type free to register
		require.NoError(t, Register(typ, WithFieldLayout("A", "<i")))
		fields := MustNew[retryModel]().Schema().Fields()
		require.Len(t, fields, 1)
		require.Equal(t, "<i", fields[0].LayoutToken)
	})
}

type concurrentModel struct {
	A int32   `pack:"<i"`
	B float64 `pack:"<d"`
}

func TestSchemaFor_ConcurrentFirstUse(t *testing.T) {
	const workers = 32

	schemas := make([]*Schema, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := SchemaFor(reflect.TypeFor[concurrentModel]())
			assert.NoError(t, err)
			schemas[i] = s
		}()
	}
	wg.Wait()

	for _, s := range schemas {
		require.Same(t, schemas[0], s)
	}
}

type fingerprintA struct {
	X int32  `pack:"<i"`
	Y string `pack:"8s"`
}

type fingerprintB struct {
	X int32  `pack:"<i"`
	Y string `pack:"8s"`
}

type fingerprintC struct {
	X int32  `pack:">i"`
	Y string `pack:"8s"`
}

type fingerprintParent struct {
	Inner fingerprintA
}

type fingerprintOther struct {
	Inner fingerprintC
}

func TestSchema_Fingerprint(t *testing.T) {
	fp := func(typ reflect.Type) uint64 {
		s, err := SchemaFor(typ)
		require.NoError(t, err)

		return s.Fingerprint()
	}

	a := fp(reflect.TypeFor[fingerprintA]())
	require.Equal(t, a, fp(reflect.TypeFor[fingerprintB]()))
	require.NotEqual(t, a, fp(reflect.TypeFor[fingerprintC]()))
	require.NotEqual(t, fp(reflect.TypeFor[fingerprintParent]()), fp(reflect.TypeFor[fingerprintOther]()))
	require.NotZero(t, fp(reflect.TypeFor[treeModel]()))
}

type valueSchemaModel struct {
	A uint8 `pack:"B"`
}

func TestSchema_ReflectAccess(t *testing.T) {
	s, err := SchemaFor(reflect.TypeFor[valueSchemaModel]())
	require.NoError(t, err)

	buf, err := s.Append(nil, reflect.ValueOf(valueSchemaModel{A: 7}))
	require.NoError(t, err)
	require.Equal(t, []byte{7}, buf)
	require.Equal(t, 1, s.Size(reflect.ValueOf(&valueSchemaModel{})))

	var rec valueSchemaModel
	next, err := s.Decode(reflect.ValueOf(&rec), buf, 0)
	require.NoError(t, err)
	require.Equal(t, 1, next)
	require.Equal(t, uint8(7), rec.A)

	_, err = s.Decode(reflect.ValueOf(rec), buf, 0)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = s.Append(nil, reflect.ValueOf(simpleModel{}))
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = s.Decode(reflect.ValueOf((*valueSchemaModel)(nil)), buf, 0)
	require.ErrorIs(t, err, errs.ErrNilRecord)
}
