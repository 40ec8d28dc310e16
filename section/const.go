package section

import "math"

const (
	ChecksumMask     = 0x0001 // Mask for checksum bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	MagicBlockV1Opt = 0xEC10 // MagicBlockV1Opt is the version 1 magic number of record blocks.
)

const (
	HeaderSize    = 32             // fixed header size in bytes
	PayloadOffset = HeaderSize     // byte offset where the payload starts
	MaxCount      = math.MaxUint32 // maximum record count of one block
	MaxSize       = math.MaxUint32 // maximum payload size of one block
)
