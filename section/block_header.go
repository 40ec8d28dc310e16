package section

import (
	"github.com/arloliu/packrec/errs"
)

// BlockHeader is the fixed-size header at the start of a record block.
type BlockHeader struct {
	// SchemaFingerprint identifies the record layout of the payload.
	SchemaFingerprint uint64 // byte offset 4-11
	// RecordCount is the number of records in the payload.
	RecordCount uint32 // byte offset 12-15
	// RecordWidth is the encoded width shared by every record.
	RecordWidth uint32 // byte offset 16-19
	// PayloadSize is the size of the stored, possibly compressed, payload.
	PayloadSize uint32 // byte offset 20-23
	// RawSize is RecordCount × RecordWidth.
	RawSize uint32 // byte offset 24-27
	// Checksum is hash.Checksum32 of the stored payload when the checksum
	// flag is set, else zero.
	Checksum uint32 // byte offset 28-31

	Flag BlockFlag // byte offset 0-3
}

// NewBlockHeader returns a header for records with the given fingerprint
// and width. Counts and sizes are set when the encoder finishes.
func NewBlockHeader(fingerprint uint64, width uint32) *BlockHeader {
	return &BlockHeader{
		SchemaFingerprint: fingerprint,
		RecordWidth:       width,
		Flag:              NewBlockFlag(),
	}
}

// Parse parses the header from exactly HeaderSize bytes.
func (h *BlockHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options is always little-endian; it carries the order of the rest
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.CompressionType = data[2]
	if err := h.Flag.Validate(); err != nil {
		return err
	}
	if data[3] != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	engine := h.Flag.GetEndianEngine()
	h.SchemaFingerprint = engine.Uint64(data[4:12])
	h.RecordCount = engine.Uint32(data[12:16])
	h.RecordWidth = engine.Uint32(data[16:20])
	h.PayloadSize = engine.Uint32(data[20:24])
	h.RawSize = engine.Uint32(data[24:28])
	h.Checksum = engine.Uint32(data[28:32])

	if uint64(h.RecordCount)*uint64(h.RecordWidth) != uint64(h.RawSize) {
		return errs.ErrRecordCountMismatch
	}

	return nil
}

// Bytes serializes the header.
func (h *BlockHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.CompressionType
	engine.PutUint64(b[4:12], h.SchemaFingerprint)
	engine.PutUint32(b[12:16], h.RecordCount)
	engine.PutUint32(b[16:20], h.RecordWidth)
	engine.PutUint32(b[20:24], h.PayloadSize)
	engine.PutUint32(b[24:28], h.RawSize)
	engine.PutUint32(b[28:32], h.Checksum)

	return b
}

// ParseBlockHeader parses a header from the start of data.
func ParseBlockHeader(data []byte) (BlockHeader, error) {
	if len(data) < HeaderSize {
		return BlockHeader{}, errs.ErrInvalidHeaderSize
	}

	h := BlockHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return BlockHeader{}, err
	}

	return h, nil
}
