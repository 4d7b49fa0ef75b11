package compress

import (
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/crinex/format"
)

// S2Codec uses the s2 stream format. Snappy framed input is accepted too.
type S2Codec struct{}

var _ Codec = (*S2Codec)(nil)

// NewS2Codec creates a new S2 codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// Framing implements Codec.
func (c S2Codec) Framing() format.Framing { return format.FramingS2 }

// Compress implements Codec.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	return compressStream(c, data)
}

// Decompress implements Codec.
func (c S2Codec) Decompress(data []byte) ([]byte, error) {
	return decompressStream(c, data)
}

// NewWriter implements Codec.
func (c S2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w, s2.WriterConcurrency(1)), nil
}

// NewReader implements Codec.
func (c S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}
