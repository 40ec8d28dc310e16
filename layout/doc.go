// Package layout implements layout tokens: compact format strings that describe
// the exact binary encoding of one or more fixed-width values.
//
// A token is a sequence of items. Each item is an optional byte order marker,
// an optional decimal count and a type code:
//
//	"<f"         one little-endian float32
//	">2h"        two big-endian int16 values
//	"<fff"       three little-endian float32 values (same as "<3f")
//	"16s"        one 16-byte slot, zero padded
//	"<i 4x 8s"   an int32, four pad bytes and an 8-byte slot
//
// Supported codes and their standard sizes:
//
//	x  pad byte (no value)        1
//	c  single byte ([]byte len 1) 1
//	b  int8       B  uint8        1
//	?  bool                       1
//	h  int16      H  uint16       2
//	i  int32      I  uint32       4
//	l  int32      L  uint32       4
//	q  int64      Q  uint64       8
//	e  float16 (IEEE-754 half)    2
//	f  float32                    4
//	d  float64                    8
//	s  fixed N-byte slot          N
//	p  Pascal string, N bytes     N
//
// Markers may appear before any item and apply until the next marker:
// '<' little-endian, '>' or '!' big-endian, '=' or '@' host order. Items
// before the first marker use host order. Standard sizes are used for every
// marker and no alignment padding is inserted.
//
// Unpacked values use a small set of canonical Go types: int64 for signed
// codes, uint64 for unsigned codes, float64 for e/f/d, bool for '?' and
// []byte for c/s/p. Append accepts any Go integer, float, bool, []byte or
// string that converts losslessly to the item's code.
//
// Tokens are immutable after Parse or Merge and safe for concurrent use.
package layout
