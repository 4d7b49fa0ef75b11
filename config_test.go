package crinex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/crinex/diff"
	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	require.Equal(t, diff.DefaultOrder, cfg.Order)
	require.Equal(t, diff.MaxOrder, cfg.MaxOrder)
	require.Equal(t, format.RevisionAuto, cfg.Revision)
	require.Equal(t, DefaultProgram, cfg.Program)
	require.False(t, cfg.Strict)
	require.NotNil(t, cfg.Now)
}

func TestNewConfig_Options(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	cfg, err := NewConfig(
		WithOrder(2),
		WithMaxOrder(5),
		WithStrict(true),
		WithRevision(format.RevisionModern),
		WithProgram("rnx2crx"),
		WithNow(func() time.Time { return now }),
	)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Order)
	require.Equal(t, 5, cfg.MaxOrder)
	require.True(t, cfg.Strict)
	require.Equal(t, format.RevisionModern, cfg.Revision)
	require.Equal(t, "rnx2crx", cfg.Program)
	require.Equal(t, now, cfg.Now())
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{"negative order", WithOrder(-1), errs.ErrInvalidOrder},
		{"order too high", WithOrder(10), errs.ErrInvalidOrder},
		{"max order too high", WithMaxOrder(12), errs.ErrInvalidOrder},
		{"revision", WithRevision(format.Revision(7)), errs.ErrInvalidRevision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opt)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewConfig_NilNow(t *testing.T) {
	cfg, err := NewConfig(WithNow(nil))
	require.NoError(t, err)
	require.NotNil(t, cfg.Now)
}
