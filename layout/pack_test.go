package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/packrec/endian"
	"github.com/arloliu/packrec/errs"
)

func TestPack_KnownVectors(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		values []any
		want   []byte
	}{
		{"float and int", "<fi", []any{3.14, 42}, []byte{0xc3, 0xf5, 0x48, 0x40, 0x2a, 0x00, 0x00, 0x00}},
		{"reassigned int", "<fi", []any{3.14, 96}, []byte{0xc3, 0xf5, 0x48, 0x40, 0x60, 0x00, 0x00, 0x00}},
		{"float list", "<fff", []any{1.1, 1.0, 7.6}, []byte{
			0xcd, 0xcc, 0x8c, 0x3f, 0x00, 0x00, 0x80, 0x3f, 0x33, 0x33, 0xf3, 0x40,
		}},
		{"int list", "<iiii", []any{1, 2, 3, 4}, []byte{
			1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0,
		}},
		{"big endian", ">hI", []any{-2, uint32(0xdeadbeef)}, []byte{0xff, 0xfe, 0xde, 0xad, 0xbe, 0xef}},
		{"slot padding", "8s", []any{[]byte("abc")}, []byte{'a', 'b', 'c', 0, 0, 0, 0, 0}},
		{"string slot", "4s", []any{"abcd"}, []byte("abcd")},
		{"pascal", "6p", []any{"hi"}, []byte{2, 'h', 'i', 0, 0, 0}},
		{"pad bytes", "<B2xB", []any{1, 2}, []byte{1, 0, 0, 2}},
		{"char and bool", "c??", []any{"z", true, 0}, []byte{'z', 1, 0}},
		{"half float", "<e", []any{1.5}, []byte{0x00, 0x3e}},
		{"double", ">d", []any{1.0}, []byte{0x3f, 0xf0, 0, 0, 0, 0, 0, 0}},
		{"int64 extremes", "<qQ", []any{int64(math.MinInt64), uint64(math.MaxUint64)}, []byte{
			0, 0, 0, 0, 0, 0, 0, 0x80, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := MustParse(tt.token)
			got, err := tok.Pack(tt.values...)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Len(t, got, tok.Size())
		})
	}
}

func TestPack_HostOrder(t *testing.T) {
	got, err := MustParse("i").Pack(42)
	require.NoError(t, err)
	require.Equal(t, endian.CheckEndianness().AppendUint32(nil, 42), got)
}

func TestPack_Errors(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		values []any
		target error
	}{
		{"too many values", "<fff", []any{1.1, 1.0, 7.6, 7.7}, errs.ErrLayoutMismatch},
		{"too few values", "<fff", []any{1.1, 1.0}, errs.ErrLayoutMismatch},
		{"slot overflow", "4s", []any{"abcde"}, errs.ErrEncodingSizeMismatch},
		{"pascal overflow", "4p", []any{"abcd"}, errs.ErrEncodingSizeMismatch},
		{"int8 overflow", "b", []any{128}, errs.ErrValueOutOfRange},
		{"uint16 negative", "H", []any{-1}, errs.ErrValueOutOfRange},
		{"uint32 overflow", "I", []any{uint64(1) << 32}, errs.ErrValueOutOfRange},
		{"int64 from huge uint", "q", []any{uint64(math.MaxUint64)}, errs.ErrValueOutOfRange},
		{"float32 overflow", "f", []any{1e300}, errs.ErrValueOutOfRange},
		{"float16 overflow", "e", []any{1e6}, errs.ErrValueOutOfRange},
		{"float16 rounds to overflow", "e", []any{65520.0}, errs.ErrValueOutOfRange},
		{"float into int", "i", []any{1.5}, errs.ErrTypeMismatch},
		{"string into float", "f", []any{"1.5"}, errs.ErrTypeMismatch},
		{"int into slot", "4s", []any{7}, errs.ErrTypeMismatch},
		{"long char", "c", []any{"ab"}, errs.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MustParse(tt.token).Pack(tt.values...)
			require.ErrorIs(t, err, tt.target)
			require.Nil(t, got)
		})
	}
}

func TestPack_HalfFloatRounding(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  []byte
	}{
		{"max", 65504, []byte{0xff, 0x7b}},
		{"rounds down to max", 65510, []byte{0xff, 0x7b}},
		{"just below overflow tie", 65519.99, []byte{0xff, 0x7b}},
		{"negative rounds down to max", -65510, []byte{0xff, 0xfb}},
		{"infinity", math.Inf(1), []byte{0x00, 0x7c}},
		{"tie to even", 1 + math.Ldexp(1, -11), []byte{0x00, 0x3c}},
		{"above tie", 1 + math.Ldexp(1, -11) + math.Ldexp(1, -40), []byte{0x01, 0x3c}},
		{"below tie", 1 + math.Ldexp(1, -11) - math.Ldexp(1, -40), []byte{0x00, 0x3c}},
		{"smallest subnormal", math.Ldexp(1, -24), []byte{0x01, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MustParse("<e").Pack(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPack_FloatRoundsBeforeOverflowCheck(t *testing.T) {
	// just above MaxFloat32 but below the midpoint to the next power of two
	got, err := MustParse("<f").Pack(math.MaxFloat32 * (1 + 1e-9))
	require.NoError(t, err)
	require.Equal(t, endian.GetLittleEndianEngine().AppendUint32(nil, math.Float32bits(math.MaxFloat32)), got)
}

func TestPack_AppendContinuesBuffer(t *testing.T) {
	prefix := []byte{0xaa, 0xbb}
	got, err := MustParse("<h").Append(prefix, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa, 0xbb, 0x01, 0x00}, got)
}

func TestUnpack(t *testing.T) {
	t.Run("canonical types", func(t *testing.T) {
		tok := MustParse("<cbB?hHiIqQefd4s4p2x")
		buf, err := tok.Pack("a", -1, 255, true, -2, 65535, -3, uint32(4000000000), -4, uint64(5), 0.5, 3.14, 2.5, "ab", "xy")
		require.NoError(t, err)

		values, err := tok.Unpack(buf, 0)
		require.NoError(t, err)
		require.Equal(t, []byte("a"), values[0])
		require.Equal(t, int64(-1), values[1])
		require.Equal(t, uint64(255), values[2])
		require.Equal(t, true, values[3])
		require.Equal(t, int64(-2), values[4])
		require.Equal(t, uint64(65535), values[5])
		require.Equal(t, int64(-3), values[6])
		require.Equal(t, uint64(4000000000), values[7])
		require.Equal(t, int64(-4), values[8])
		require.Equal(t, uint64(5), values[9])
		require.Equal(t, 0.5, values[10])
		require.InDelta(t, 3.14, values[11], 1e-6)
		require.Equal(t, 2.5, values[12])
		require.Equal(t, []byte{'a', 'b', 0, 0}, values[13])
		require.Equal(t, []byte("xy"), values[14])
	})

	t.Run("offset", func(t *testing.T) {
		buf := []byte{0xff, 0xff, 0x2a, 0x00, 0x00, 0x00}
		values, err := MustParse("<i").Unpack(buf, 2)
		require.NoError(t, err)
		require.Equal(t, []any{int64(42)}, values)
	})

	t.Run("underflow", func(t *testing.T) {
		_, err := MustParse("<ii").Unpack([]byte{1, 0, 0, 0, 2, 0, 0}, 0)
		require.ErrorIs(t, err, errs.ErrBufferUnderflow)

		_, err = MustParse("<i").Unpack([]byte{1, 0, 0, 0}, 8)
		require.ErrorIs(t, err, errs.ErrBufferUnderflow)
	})

	t.Run("negative offset", func(t *testing.T) {
		_, err := MustParse("<i").Unpack([]byte{1, 0, 0, 0}, -1)
		require.ErrorIs(t, err, errs.ErrNegativeOffset)
	})

	t.Run("slot count mismatch", func(t *testing.T) {
		err := MustParse("<ii").UnpackInto(make([]any, 1), make([]byte, 8), 0)
		require.ErrorIs(t, err, errs.ErrLayoutMismatch)
	})

	t.Run("pascal length clamps to slot", func(t *testing.T) {
		values, err := MustParse("3p").Unpack([]byte{9, 'a', 'b'}, 0)
		require.NoError(t, err)
		require.Equal(t, []byte("ab"), values[0])
	})
}

func TestMergedTokenMatchesSeparatePacks(t *testing.T) {
	a, b, c := MustParse("<f"), MustParse(">H"), MustParse("8s")
	merged := Merge(a, b, c)

	want, err := a.Pack(3.14)
	require.NoError(t, err)
	want, err = b.Append(want, 513)
	require.NoError(t, err)
	want, err = c.Append(want, "name")
	require.NoError(t, err)

	got, err := merged.Pack(3.14, 513, "name")
	require.NoError(t, err)
	require.Equal(t, want, got)

	values, err := merged.Unpack(got, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(513), values[1])
}
