package block

import (
	"fmt"

	"github.com/arloliu/packrec/compress"
	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/internal/hash"
	"github.com/arloliu/packrec/internal/options"
	"github.com/arloliu/packrec/internal/pool"
	"github.com/arloliu/packrec/record"
	"github.com/arloliu/packrec/section"
)

// Encoder collects records of type T into a block.
//
// Note: an Encoder is NOT thread-safe and NOT reusable. After Finish, create
// a new encoder.
type Encoder[T any] struct {
	*EncoderConfig

	codec    *record.Codec[T]
	buf      *pool.ByteBuffer
	count    int
	width    int // -1 until the first record of a variable-width type
	finished bool
	stats    compress.Stats
}

// NewEncoder returns an encoder for records encoded with codec.
//
// Parameters:
//   - codec: Record codec of T; its schema fingerprint is stored in the header
//   - opts: Optional configuration functions (see EncoderOption)
//
// Returns:
//   - *Encoder[T]: The created encoder
//   - error: An error if codec is nil or an option is invalid
//
// Available options:
//   - WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - WithLittleEndian() / WithBigEndian()
//   - WithChecksum(true|false)
//   - WithLogger(logger)
func NewEncoder[T any](codec *record.Codec[T], opts ...EncoderOption) (*Encoder[T], error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: nil codec", errs.ErrNilRecord)
	}

	config := newEncoderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}
	if err := config.setCodec(); err != nil {
		return nil, err
	}

	schema := codec.Schema()
	config.header.SchemaFingerprint = schema.Fingerprint()

	width := -1
	if fixed, ok := schema.FixedSize(); ok {
		width = fixed
	}

	return &Encoder[T]{
		EncoderConfig: config,
		codec:         codec,
		buf:           pool.GetBlockBuffer(),
		width:         width,
	}, nil
}

// Add appends one record. A record whose encoded width differs from the
// first record fails with errs.ErrVariableWidth and is not added.
func (e *Encoder[T]) Add(rec *T) error {
	if e.finished {
		return errs.ErrBlockFinished
	}
	if e.count >= section.MaxCount {
		return fmt.Errorf("%w: block holds at most %d records", errs.ErrRecordCountMismatch, section.MaxCount)
	}

	start := len(e.buf.B)
	out, err := e.codec.Append(e.buf.B, rec)
	if err != nil {
		return err
	}

	width := len(out) - start
	if e.width < 0 {
		e.width = width
	} else if width != e.width {
		return fmt.Errorf("%w: record encodes to %d bytes, block width is %d", errs.ErrVariableWidth, width, e.width)
	}

	e.buf.B = out
	e.count++

	return nil
}

// AddSlice appends every record of recs, stopping at the first failure.
func (e *Encoder[T]) AddSlice(recs []T) error {
	for i := range recs {
		if err := e.Add(&recs[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	return nil
}

// Len returns the number of records added so far.
func (e *Encoder[T]) Len() int {
	return e.count
}

// Stats returns the compression outcome of Finish.
func (e *Encoder[T]) Stats() compress.Stats {
	return e.stats
}

// Finish compresses the payload and returns the encoded block.
func (e *Encoder[T]) Finish() ([]byte, error) {
	if e.finished {
		return nil, errs.ErrBlockFinished
	}
	e.finished = true

	defer func() {
		pool.PutBlockBuffer(e.buf)
		e.buf = nil
	}()

	raw := e.buf.Bytes()
	if len(raw) > section.MaxSize {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds %d", errs.ErrRecordCountMismatch, len(raw), section.MaxSize)
	}

	stored, err := e.payload.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}

	header := *e.header
	header.RecordCount = uint32(e.count)         //nolint:gosec
	header.RecordWidth = uint32(max(e.width, 0)) //nolint:gosec
	header.RawSize = uint32(len(raw))            //nolint:gosec
	header.PayloadSize = uint32(len(stored))     //nolint:gosec
	if header.Flag.HasChecksum() {
		header.Checksum = hash.Checksum32(stored)
	}

	out := pool.GetBlockBuffer()
	defer pool.PutBlockBuffer(out)

	out.Grow(section.HeaderSize + len(stored))
	out.MustWrite(header.Bytes())
	out.MustWrite(stored)
	data := out.Clone()

	e.stats = compress.Stats{
		Algorithm:      header.Flag.Compression(),
		OriginalSize:   int64(len(raw)),
		CompressedSize: int64(len(stored)),
	}
	e.logger.Debug("record block finished",
		"records", e.count,
		"width", header.RecordWidth,
		"compression", e.stats.Algorithm.String(),
		"raw", len(raw),
		"stored", len(stored))

	return data, nil
}
