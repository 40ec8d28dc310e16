// Package endian resolves byte orders for layout tokens.
//
// A layout token may start any run of items with an order marker. This
// package maps those markers onto engines that combine the ByteOrder and
// AppendByteOrder interfaces of encoding/binary, so the layout package can
// both read values in place and append them to a growing buffer:
//
//	engine, ok := endian.ForMarker('<')
//	buf = engine.AppendUint32(buf, 42)
//
// Markers follow the usual struct-format conventions:
//
//	'<'       little-endian
//	'>', '!'  big-endian (network order)
//	'=', '@'  host order
//
// A token without a marker uses host order.
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"sync"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Order markers recognized by ForMarker.
const (
	MarkerLittle  byte = '<'
	MarkerBig     byte = '>'
	MarkerNetwork byte = '!'
	MarkerNative  byte = '='
	MarkerHost    byte = '@'
)

var nativeOrder = sync.OnceValue(func() EndianEngine {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
})

// CheckEndianness returns the host's byte order.
func CheckEndianness() EndianEngine {
	return nativeOrder()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ForMarker returns the engine selected by an order marker.
//
// Returns false when c is not a marker.
func ForMarker(c byte) (EndianEngine, bool) {
	switch c {
	case MarkerLittle:
		return binary.LittleEndian, true
	case MarkerBig, MarkerNetwork:
		return binary.BigEndian, true
	case MarkerNative, MarkerHost:
		return CheckEndianness(), true
	default:
		return nil, false
	}
}
