package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sessionConfig struct {
	order  int
	strict bool
	calls  []string
}

func (c *sessionConfig) Validate() error {
	if c.order > 9 {
		return errors.New("order too high")
	}

	return nil
}

func withOrder(m int) Option[*sessionConfig] {
	return New(func(c *sessionConfig) error {
		if m < 0 {
			return errors.New("negative order")
		}
		c.order = m
		c.calls = append(c.calls, "order")

		return nil
	})
}

func withStrict(b bool) Option[*sessionConfig] {
	return NoError(func(c *sessionConfig) {
		c.strict = b
		c.calls = append(c.calls, "strict")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &sessionConfig{}
		err := Apply(cfg, withOrder(3), nil, withStrict(true), withOrder(4))
		require.NoError(t, err)
		require.Equal(t, 4, cfg.order)
		require.True(t, cfg.strict)
		require.Equal(t, []string{"order", "strict", "order"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &sessionConfig{}
		err := Apply(cfg, withOrder(-1), withStrict(true))
		require.EqualError(t, err, "negative order")
		require.False(t, cfg.strict)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &sessionConfig{order: 2}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 2, cfg.order)
	})
}

func TestBuild(t *testing.T) {
	cfg, err := Build(&sessionConfig{}, withOrder(5))
	require.NoError(t, err)
	require.Equal(t, 5, cfg.order)

	_, err = Build(&sessionConfig{}, withOrder(12))
	require.EqualError(t, err, "order too high")

	_, err = Build(&sessionConfig{}, withOrder(-3))
	require.EqualError(t, err, "negative order")
}
