package diff

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextDiff_Compress(t *testing.T) {
	tests := []struct {
		name string
		prev string
		next string
		want string
	}{
		{"new flags", "", "   8               8", "&&&8&&&&&&&&&&&&&&&8"},
		{"unchanged", "   8    ", "   8    ", ""},
		{"changed column", "   8       ", "   7       ", "   7"},
		{"column blanked", "1  8", "1   ", "   &"},
		{"shorter", "abc", "a", " &&"},
		{"longer", "ab", "ab  c", "  &&c"},
		{"timestamp", " 17  1  1  0  0  0.0000000", " 17  1  1  0  0 30.0000000", "                3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := NewTextDiff(tt.prev)
			require.Equal(t, tt.want, td.Compress(tt.next))

			dec := NewTextDiff(tt.prev)
			got := dec.Decompress(tt.want)
			require.Equal(t, strings.TrimRight(tt.next, " "), strings.TrimRight(got, " "))
			require.Equal(t, td.Text(), dec.Text())
		})
	}
}

func TestTextDiff_AppendCompressKeepsWidth(t *testing.T) {
	td := NewTextDiff("  0 22")
	got := td.AppendCompress([]byte(">"), "  0 22")
	require.Equal(t, ">      ", string(got))
	require.Equal(t, 6, td.Len())
}

func TestTextDiff_Peek(t *testing.T) {
	td := NewTextDiff("G01G03")
	require.Equal(t, "G01G05", td.Peek("     5"))
	require.Equal(t, "G01G03", td.Text())
	require.Equal(t, "G01G05R02", td.Peek("     5R02"))
	require.Equal(t, "G01G05R02", td.Decompress("     5R02"))
	require.Equal(t, "G01G05R02", td.Text())
}

func TestTextDiff_NeverShrinks(t *testing.T) {
	td := NewTextDiff("G01G03G05")
	require.Equal(t, "   &&&&&&", td.Compress("G01"))
	require.Equal(t, "G01      ", td.Text())

	dec := NewTextDiff("G01G03G05")
	require.Equal(t, "G01      ", dec.Decompress("   &&&&&&"))
}

func TestTextDiff_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	alphabet := "ab 12 "

	enc := NewTextDiff("")
	dec := NewTextDiff("")
	for i := 0; i < 500; i++ {
		n := rng.IntN(12)
		var sb strings.Builder
		for j := 0; j < n; j++ {
			sb.WriteByte(alphabet[rng.IntN(len(alphabet))])
		}
		next := sb.String()

		got := dec.Decompress(enc.Compress(next))
		require.Equal(t, strings.TrimRight(next, " "), strings.TrimRight(got, " "), "iteration %d", i)
		require.Equal(t, enc.Text(), dec.Text(), "iteration %d", i)
	}
}
