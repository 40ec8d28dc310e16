package compress

// ZstdCompressor compresses payloads with Zstandard.
//
// The default build uses pooled klauspost/compress coders; building with
// the gozstd tag and cgo switches to valyala/gozstd.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor returns a Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
