package block

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/packrec/compress"
	"github.com/arloliu/packrec/format"
	"github.com/arloliu/packrec/internal/options"
	"github.com/arloliu/packrec/section"
)

// EncoderConfig holds the header flags and payload codec of an Encoder.
type EncoderConfig struct {
	header  *section.BlockHeader
	payload compress.Codec
	logger  *slog.Logger
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		header: section.NewBlockHeader(0, 0),
		logger: slog.Default(),
	}
}

func (c *EncoderConfig) setCompression(comp format.CompressionType) error {
	switch comp {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		c.header.Flag.SetCompression(comp)
		return nil
	default:
		return fmt.Errorf("invalid payload compression: %v", comp)
	}
}

func (c *EncoderConfig) setCodec() error {
	var err error
	c.payload, err = compress.CreateCodec(c.header.Flag.Compression(), "payload")
	if err != nil {
		return fmt.Errorf("failed to create payload codec: %w", err)
	}

	return nil
}

// WithCompression selects the payload compression. Default is
// format.CompressionNone.
func WithCompression(comp format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setCompression(comp)
	})
}

// WithLittleEndian writes header numbers little-endian. This is the default.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.header.Flag.WithLittleEndian()
	})
}

// WithBigEndian writes header numbers big-endian. Record contents keep the
// byte order of their layout tokens.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.header.Flag.WithBigEndian()
	})
}

// WithChecksum enables or disables the payload checksum. Default is enabled.
func WithChecksum(enabled bool) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.header.Flag.SetChecksum(enabled)
	})
}

// WithLogger sets the logger that receives block summaries at debug level.
func WithLogger(logger *slog.Logger) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}
