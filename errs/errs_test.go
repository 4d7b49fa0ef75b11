package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtEpoch(t *testing.T) {
	require.NoError(t, AtEpoch(nil, 3, "G01/0"))

	err := AtEpoch(ErrHistoryUnderflow, 3, "G01/0")
	require.ErrorIs(t, err, ErrHistoryUnderflow)

	var se *StreamError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 3, se.Epoch)
	require.Equal(t, "G01/0", se.Slot)
	require.Equal(t, "crinex epoch 3 slot G01/0: history underflow", err.Error())
}

func TestAtEpoch_KeepsInnerPosition(t *testing.T) {
	inner := AtEpoch(ErrColumnOverflow, 1, "R10/2")
	outer := AtEpoch(fmt.Errorf("write: %w", inner), 7, "descriptor")

	var se *StreamError
	require.ErrorAs(t, outer, &se)
	require.Equal(t, 1, se.Epoch)
	require.Equal(t, "R10/2", se.Slot)
	require.ErrorIs(t, outer, ErrColumnOverflow)
}

func TestAtLine(t *testing.T) {
	require.NoError(t, AtLine(nil, 10))

	err := AtLine(ErrTruncatedStream, 42)
	var se *StreamError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 42, se.Line)
	require.Equal(t, -1, se.Epoch)
	require.Equal(t, "crinex line 42: truncated stream", err.Error())

	err = AtLine(AtEpoch(ErrMalformedDifference, 2, "clock"), 9)
	require.ErrorAs(t, err, &se)
	require.Equal(t, 9, se.Line)
	require.Equal(t, 2, se.Epoch)
	require.True(t, errors.Is(err, ErrMalformedDifference))
}
