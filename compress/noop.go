package compress

import (
	"io"

	"github.com/arloliu/crinex/format"
)

// NoOpCodec passes plain text through unchanged.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a codec for unframed files.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Framing implements Codec.
func (c NoOpCodec) Framing() format.Framing { return format.FramingNone }

// Compress returns data unchanged.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// NewWriter returns w with a Close that does nothing.
func (c NoOpCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopCloser{w}, nil
}

// NewReader returns r with a Close that does nothing.
func (c NoOpCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}
