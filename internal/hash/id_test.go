package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSatList(t *testing.T) {
	require.Equal(t, uint64(0xef46db3751d8e999), SatList(""))
	require.Equal(t, uint64(0x4fdcca5ddb678139), SatList("test"))
	require.Equal(t, SatList("G01G03R10"), SatList("G01G03R10"))
	require.NotEqual(t, SatList("G01G03R10"), SatList("G01R10G03"))
}

func TestStream(t *testing.T) {
	sum, err := Stream(strings.NewReader("test"))
	require.NoError(t, err)
	require.Equal(t, SatList("test"), sum)

	w := Writer()
	_, err = w.WriteString("te")
	require.NoError(t, err)
	_, err = w.WriteString("st")
	require.NoError(t, err)
	require.Equal(t, sum, w.Sum64())
}
