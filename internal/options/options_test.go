package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	encoding string
	compiled bool
	layouts  map[string]string
	calls    []string
}

func withEncoding(name string) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if name == "" {
			return errors.New("encoding name cannot be empty")
		}
		c.encoding = name
		c.calls = append(c.calls, "encoding")

		return nil
	})
}

func withCompiled() Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.compiled = true
		c.calls = append(c.calls, "compiled")
	})
}

func withLayout(field, token string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		if c.layouts == nil {
			c.layouts = map[string]string{}
		}
		c.layouts[field] = token
		c.calls = append(c.calls, "layout:"+field)
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withEncoding("ascii"), withCompiled(), withLayout("Num", "<i"))
		require.NoError(t, err)
		require.Equal(t, "ascii", cfg.encoding)
		require.True(t, cfg.compiled)
		require.Equal(t, "<i", cfg.layouts["Num"])
		require.Equal(t, []string{"encoding", "compiled", "layout:Num"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withCompiled(), withEncoding(""), withLayout("Num", "<i"))
		require.EqualError(t, err, "encoding name cannot be empty")
		require.True(t, cfg.compiled)
		require.Nil(t, cfg.layouts)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg, nil, withCompiled(), nil))
		require.True(t, cfg.compiled)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg))
		require.Empty(t, cfg.calls)
	})
}

func TestGroup(t *testing.T) {
	cfg := &testConfig{}
	field := Group(withLayout("Name", "16s"), withLayout("Flt", "<f"))

	require.NoError(t, Apply[*testConfig](cfg, field, withCompiled()))
	require.Equal(t, []string{"layout:Name", "layout:Flt", "compiled"}, cfg.calls)

	failing := Group(withLayout("Name", "16s"), withEncoding(""))
	require.Error(t, Apply[*testConfig](&testConfig{}, failing))
}
