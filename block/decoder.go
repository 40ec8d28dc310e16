package block

import (
	"fmt"
	"iter"

	"github.com/arloliu/packrec/compress"
	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/internal/hash"
	"github.com/arloliu/packrec/record"
	"github.com/arloliu/packrec/section"
)

// Decoder gives random access to the records of a block.
//
// A Decoder is read-only after construction and safe for concurrent use as
// long as each goroutine decodes into its own records.
type Decoder[T any] struct {
	codec   *record.Codec[T]
	header  section.BlockHeader
	payload []byte
	width   int
}

// NewDecoder validates the block header, checksum and schema fingerprint
// and decompresses the payload.
//
// Parameters:
//   - codec: Record codec of T, must match the encoder's schema
//   - data: The encoded block (from Encoder.Finish or storage)
//
// Returns:
//   - *Decoder[T]: The created decoder
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber, ErrSchemaMismatch,
//     ErrBufferUnderflow, ErrChecksumMismatch or a decompression error
func NewDecoder[T any](codec *record.Codec[T], data []byte) (*Decoder[T], error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: nil codec", errs.ErrNilRecord)
	}

	header, err := section.ParseBlockHeader(data)
	if err != nil {
		return nil, err
	}

	schema := codec.Schema()
	if header.SchemaFingerprint != schema.Fingerprint() {
		return nil, fmt.Errorf("%w: block %016x, %s %016x",
			errs.ErrSchemaMismatch, header.SchemaFingerprint, schema.Type(), schema.Fingerprint())
	}
	if fixed, ok := schema.FixedSize(); ok && header.RecordCount > 0 && uint32(fixed) != header.RecordWidth { //nolint:gosec
		return nil, fmt.Errorf("%w: block width %d, %s width %d",
			errs.ErrSchemaMismatch, header.RecordWidth, schema.Type(), fixed)
	}

	end := section.PayloadOffset + int(header.PayloadSize)
	if len(data) < end {
		return nil, fmt.Errorf("%w: block payload needs %d bytes, have %d",
			errs.ErrBufferUnderflow, header.PayloadSize, len(data)-section.PayloadOffset)
	}
	stored := data[section.PayloadOffset:end]

	if header.Flag.HasChecksum() && hash.Checksum32(stored) != header.Checksum {
		return nil, errs.ErrChecksumMismatch
	}

	payloadCodec, err := compress.GetCodec(header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	payload, err := compress.Decompress(payloadCodec, stored, int(header.RawSize))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}
	if len(payload) != int(header.RawSize) {
		return nil, fmt.Errorf("%w: payload holds %d bytes, header says %d",
			errs.ErrRecordCountMismatch, len(payload), header.RawSize)
	}

	return &Decoder[T]{
		codec:   codec,
		header:  header,
		payload: payload,
		width:   int(header.RecordWidth),
	}, nil
}

// Header returns the parsed block header.
func (d *Decoder[T]) Header() section.BlockHeader {
	return d.header
}

// Len returns the number of records in the block.
func (d *Decoder[T]) Len() int {
	return int(d.header.RecordCount)
}

// DecodeAt decodes record i into rec.
func (d *Decoder[T]) DecodeAt(i int, rec *T) error {
	if i < 0 || i >= d.Len() {
		return fmt.Errorf("%w: %d of %d", errs.ErrIndexOutOfRange, i, d.Len())
	}

	start := i * d.width
	next, err := d.codec.DecodeInto(rec, d.payload[:start+d.width], start)
	if err != nil {
		return fmt.Errorf("record %d: %w", i, err)
	}
	if next-start != d.width {
		return fmt.Errorf("%w: record %d decoded %d bytes, block width is %d",
			errs.ErrVariableWidth, i, next-start, d.width)
	}

	return nil
}

// At decodes record i into a new record.
func (d *Decoder[T]) At(i int) (*T, error) {
	rec := new(T)
	if err := d.DecodeAt(i, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// All iterates over the records in order. Iteration stops at the first
// record that fails to decode; use At to get its error.
func (d *Decoder[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range d.Len() {
			rec, err := d.At(i)
			if err != nil {
				return
			}
			if !yield(i, rec) {
				return
			}
		}
	}
}
