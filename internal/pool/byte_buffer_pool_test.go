package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer(t *testing.T) {
	bb := NewByteBuffer(8)

	_, err := bb.WriteString("G01")
	require.NoError(t, err)
	require.NoError(t, bb.WriteByte(' '))
	_, err = bb.Write([]byte("3&0"))
	require.NoError(t, err)
	bb.WriteLine("")
	require.Equal(t, "G01 3&0\n", string(bb.Bytes()))
	require.Equal(t, 8, bb.Len())

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(8), n)
	require.Equal(t, "G01 3&0\n", out.String())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	bb.WriteLine("line")
	p.Put(bb)
	p.Put(nil)

	again := p.Get()
	require.Equal(t, 0, again.Len(), "pooled buffers come back empty")

	big := NewByteBuffer(128)
	p.Put(big)
}

func TestLinePool(t *testing.T) {
	bb := GetLineBuffer()
	require.GreaterOrEqual(t, cap(bb.B), 0)
	bb.WriteLine("x")
	PutLineBuffer(bb)
}
