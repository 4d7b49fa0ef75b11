package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRevision(t *testing.T) {
	tests := []struct {
		in   string
		want Revision
	}{
		{"", RevisionAuto},
		{"auto", RevisionAuto},
		{"legacy", RevisionLegacy},
		{"2", RevisionLegacy},
		{"Modern", RevisionModern},
		{"4", RevisionModern},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRevision(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseRevision("5")
	require.Error(t, err)
}

func TestRevision_CrinexVersion(t *testing.T) {
	require.Equal(t, "1.0", RevisionLegacy.CrinexVersion())
	require.Equal(t, "3.0", RevisionModern.CrinexVersion())
}

func TestParseFraming(t *testing.T) {
	f, err := ParseFraming("gz")
	require.NoError(t, err)
	require.Equal(t, FramingGzip, f)
	require.Equal(t, ".gz", f.Extension())

	f, err = ParseFraming("none")
	require.NoError(t, err)
	require.Equal(t, FramingNone, f)
	require.Equal(t, "", f.Extension())

	_, err = ParseFraming("bzip2")
	require.Error(t, err)
}

func TestEpochFlag_IsEvent(t *testing.T) {
	require.False(t, FlagOK.IsEvent())
	require.False(t, FlagPowerFailure.IsEvent())
	for _, f := range []EpochFlag{FlagMoving, FlagOccupation, FlagHeader, FlagExternal, FlagCycleSlip} {
		require.True(t, f.IsEvent(), string(f))
	}
	require.False(t, EpochFlag('7').IsValid())
	require.False(t, EpochFlag(' ').IsEvent())
}
