package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/crinex/format"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		in      string
		dir     Direction
		framing format.Framing
		want    string
	}{
		{"abmf3650.24o", ToCrinex, format.FramingNone, "abmf3650.24d"},
		{"ABMF3650.24O", ToCrinex, format.FramingNone, "ABMF3650.24D"},
		{"abmf3650.24d", ToRinex, format.FramingNone, "abmf3650.24o"},
		{"ABMF3650.24D.gz", ToRinex, format.FramingNone, "ABMF3650.24O"},
		{"abmf3650.24o.Z.gz", ToCrinex, format.FramingGzip, ""},
		{"ABMF00GLP_R_20241230000_01D_30S_MO.rnx", ToCrinex, format.FramingNone, "ABMF00GLP_R_20241230000_01D_30S_MO.crx"},
		{"ABMF00GLP_R_20241230000_01D_30S_MO.crx.gz", ToRinex, format.FramingGzip, "ABMF00GLP_R_20241230000_01D_30S_MO.rnx.gz"},
		{"STATION.RNX", ToCrinex, format.FramingZstd, "STATION.CRX.zst"},
		{"station.crx.lz4", ToRinex, format.FramingS2, "station.rnx.s2"},
		{"abmf3650.24n", ToCrinex, format.FramingNone, ""},
		{"abmf3650.24o", ToRinex, format.FramingNone, ""},
		{"station.crx", ToCrinex, format.FramingNone, ""},
		{"noext", ToCrinex, format.FramingNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := OutputName(tt.in, tt.dir, tt.framing)
			if tt.want == "" {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSplitFraming(t *testing.T) {
	name, f := SplitFraming("a.24d.GZ")
	require.Equal(t, "a.24d", name)
	require.Equal(t, format.FramingGzip, f)

	name, f = SplitFraming("a.crx.zst")
	require.Equal(t, "a.crx", name)
	require.Equal(t, format.FramingZstd, f)

	name, f = SplitFraming("a.crx")
	require.Equal(t, "a.crx", name)
	require.Equal(t, format.FramingNone, f)

	name, f = SplitFraming(".gz")
	require.Equal(t, ".gz", name)
	require.Equal(t, format.FramingNone, f)
}

func TestDirection_String(t *testing.T) {
	require.Equal(t, "rnx2crx", ToCrinex.String())
	require.Equal(t, "crx2rnx", ToRinex.String())
	require.Equal(t, "Direction(9)", Direction(9).String())
}
