package compress

import (
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/crinex/format"
)

// lz4WriterPool pools frame writers; Reset rebinds them to a new destination.
var lz4WriterPool = sync.Pool{
	New: func() any {
		return lz4.NewWriter(nil)
	},
}

// LZ4Codec uses the LZ4 frame format.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 codec.
//
// Returns:
//   - LZ4Codec: New LZ4 codec instance
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Framing implements Codec.
func (c LZ4Codec) Framing() format.Framing { return format.FramingLZ4 }

// Compress implements Codec.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	return compressStream(c, data)
}

// Decompress implements Codec.
func (c LZ4Codec) Decompress(data []byte) ([]byte, error) {
	return decompressStream(c, data)
}

// NewWriter implements Codec. The writer returns to the pool on Close.
func (c LZ4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	lw, _ := lz4WriterPool.Get().(*lz4.Writer)
	lw.Reset(w)

	return &lz4Writer{Writer: lw}, nil
}

// NewReader implements Codec.
func (c LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

type lz4Writer struct {
	*lz4.Writer
}

func (w *lz4Writer) Close() error {
	if w.Writer == nil {
		return nil
	}
	err := w.Writer.Close()
	lz4WriterPool.Put(w.Writer)
	w.Writer = nil

	return err
}
