package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(t, binary.BigEndian, CheckEndianness())
	case 0x02:
		require.Equal(t, binary.LittleEndian, CheckEndianness())
	default:
		require.Failf(t, "unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestForMarker(t *testing.T) {
	tests := []struct {
		marker byte
		want   EndianEngine
	}{
		{'<', binary.LittleEndian},
		{'>', binary.BigEndian},
		{'!', binary.BigEndian},
		{'=', CheckEndianness()},
		{'@', CheckEndianness()},
	}

	for _, tt := range tests {
		t.Run(string(tt.marker), func(t *testing.T) {
			engine, ok := ForMarker(tt.marker)
			require.True(t, ok)
			require.Equal(t, tt.want, engine)
		})
	}

	t.Run("not a marker", func(t *testing.T) {
		engine, ok := ForMarker('f')
		require.False(t, ok)
		require.Nil(t, engine)
	})
}

func TestEngines(t *testing.T) {
	little := GetLittleEndianEngine()
	big := GetBigEndianEngine()

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, little.AppendUint32(nil, 0x01020304))
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, big.AppendUint32(nil, 0x01020304))
	require.Equal(t, uint16(0x0102), big.Uint16([]byte{0x01, 0x02}))
	require.Equal(t, uint16(0x0201), little.Uint16([]byte{0x01, 0x02}))
}
