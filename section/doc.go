// Package section defines the fixed binary header of a record block.
//
// A record block is a 32-byte header followed by the payload: the encoded
// records back to back, optionally compressed as a whole.
//
//	┌──────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                         │
//	├──────────────────────────────────────────────────┤
//	│ Payload (PayloadSize bytes)                      │
//	│  - RecordCount × RecordWidth bytes when raw      │
//	└──────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field             | Type   | Description
//	-------|-------------------|--------|--------------------------------------
//	0-1    | Options           | uint16 | flags and magic number, little-endian
//	2      | CompressionType   | uint8  | format.CompressionType of the payload
//	3      | Reserved          | uint8  | must be zero
//	4-11   | SchemaFingerprint | uint64 | record.Schema fingerprint
//	12-15  | RecordCount       | uint32 | number of records
//	16-19  | RecordWidth       | uint32 | encoded width of every record
//	20-23  | PayloadSize       | uint32 | stored payload size
//	24-27  | RawSize           | uint32 | payload size before compression
//	28-31  | Checksum          | uint32 | xxHash64 of the stored payload, folded
//
// Options bits:
//
//	Bit 0     checksum present
//	Bit 1     header byte order, 0 little-endian, 1 big-endian
//	Bits 2-3  reserved, must be zero
//	Bits 4-15 magic number, 0xEC10 for version 1
//
// The byte order bit applies to bytes 4-31; record contents always follow
// their own layout tokens.
package section
