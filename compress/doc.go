// Package compress provides the payload codecs of record blocks.
//
// A record block stores many fixed-width records back to back; the payload
// is compressed as a whole with one of:
//
//   - format.CompressionNone: payload stored as is
//   - format.CompressionZstd: best ratio, pooled klauspost zstd coders
//     (or valyala/gozstd when built with the gozstd tag and cgo)
//   - format.CompressionS2: fast, moderate ratio
//   - format.CompressionLZ4: fastest decompression
//
// Fixed-width records repeat their padding and field layout on every row,
// so zstd usually wins on size while s2 and lz4 win on speed.
//
// Codecs are stateless values and safe for concurrent use. GetCodec returns
// the shared built-in codec of a compression type.
package compress
