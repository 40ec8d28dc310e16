package record

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/format"
	"github.com/arloliu/packrec/internal/options"
	"github.com/arloliu/packrec/layout"
	"github.com/arloliu/packrec/transcode"
)

// Config holds the registration-time settings of a record type.
type Config struct {
	encoding       string
	mode           format.Mode
	emptyList      format.EmptyListPolicy
	logger         *slog.Logger
	fieldLayouts   map[string]string
	fieldEncodings map[string]string
}

// Option configures a record type at registration.
type Option = options.Option[*Config]

func newConfig() *Config {
	return &Config{
		mode:      format.ModeDirect,
		emptyList: format.EmptyListWarn,
	}
}

func (c *Config) equal(o *Config) bool {
	return c.encoding == o.encoding &&
		c.mode == o.mode &&
		c.emptyList == o.emptyList &&
		c.logger == o.logger &&
		maps.Equal(c.fieldLayouts, o.fieldLayouts) &&
		maps.Equal(c.fieldEncodings, o.fieldEncodings)
}

func (c *Config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}

	return slog.Default()
}

// WithEncoding sets the default text encoding of the record type.
// Field overrides still take precedence.
func WithEncoding(name string) Option {
	return options.New(func(c *Config) error {
		enc, err := transcode.Lookup(name)
		if err != nil {
			return err
		}
		c.encoding = enc.Name()

		return nil
	})
}

// WithCompiled enables the compiled layout: every Scalar, Text and Bytes
// field is packed and unpacked with one merged layout token.
//
// Nested records and lists are not covered by the compiled layout and are
// skipped by both encode and decode. Only enable it for record types whose
// wire fields are all scalar; see Schema.CompiledCovers.
func WithCompiled() Option {
	return options.NoError(func(c *Config) {
		c.mode = format.ModeCompiled
	})
}

// WithDirect selects the field-by-field codec. This is the default.
func WithDirect() Option {
	return options.NoError(func(c *Config) {
		c.mode = format.ModeDirect
	})
}

// WithFieldLayout sets the layout token of a field, replacing its pack tag.
func WithFieldLayout(field, token string) Option {
	return options.New(func(c *Config) error {
		if _, err := layout.Parse(token); err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
		if c.fieldLayouts == nil {
			c.fieldLayouts = make(map[string]string)
		}
		c.fieldLayouts[field] = token

		return nil
	})
}

// WithFieldEncoding sets the text encoding of a field, replacing the
// encoding given in its pack tag.
func WithFieldEncoding(field, name string) Option {
	return options.New(func(c *Config) error {
		enc, err := transcode.Lookup(name)
		if err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
		if c.fieldEncodings == nil {
			c.fieldEncodings = make(map[string]string)
		}
		c.fieldEncodings[field] = enc.Name()

		return nil
	})
}

// WithField sets the layout token and, when encoding is not empty, the text
// encoding of a field.
func WithField(field, token, encoding string) Option {
	if encoding == "" {
		return WithFieldLayout(field, token)
	}

	return options.Group(WithFieldLayout(field, token), WithFieldEncoding(field, encoding))
}

// WithEmptyListPolicy selects what decoding does when a nested record list
// holds no elements. The default is format.EmptyListWarn.
func WithEmptyListPolicy(policy format.EmptyListPolicy) Option {
	return options.New(func(c *Config) error {
		switch policy {
		case format.EmptyListWarn, format.EmptyListIgnore, format.EmptyListError:
			c.emptyList = policy
			return nil
		default:
			return fmt.Errorf("invalid empty list policy: %v", policy)
		}
	})
}

// WithLogger sets the logger used for schema and decode warnings.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logger
	})
}

func checkFieldNames(c *Config, known map[string]bool) error {
	for name := range c.fieldLayouts {
		if !known[name] {
			return fmt.Errorf("%w: %q", errs.ErrUnknownField, name)
		}
	}
	for name := range c.fieldEncodings {
		if !known[name] {
			return fmt.Errorf("%w: %q", errs.ErrUnknownField, name)
		}
	}

	return nil
}
