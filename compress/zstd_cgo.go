//go:build gozstd && cgo

package compress

import (
	"io"

	"github.com/valyala/gozstd"

	"github.com/arloliu/crinex/format"
)

// zstdLevel matches the default level of the pure Go build.
const zstdLevel = 3

// ZstdCodec reads and writes Zstandard frames through the reference C library.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// Framing implements Codec.
func (c ZstdCodec) Framing() format.Framing { return format.FramingZstd }

// Compress implements Codec.
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

// Decompress implements Codec.
func (c ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}

// NewWriter implements Codec. Close flushes the frame and releases the
// native context.
func (c ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return &gozstdWriter{zw: gozstd.NewWriterLevel(w, zstdLevel)}, nil
}

// NewReader implements Codec.
func (c ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReader{zr: gozstd.NewReader(r)}, nil
}

type gozstdWriter struct {
	zw *gozstd.Writer
}

func (w *gozstdWriter) Write(p []byte) (int, error) {
	return w.zw.Write(p)
}

func (w *gozstdWriter) Close() error {
	if w.zw == nil {
		return nil
	}
	err := w.zw.Close()
	w.zw.Release()
	w.zw = nil

	return err
}

type gozstdReader struct {
	zr *gozstd.Reader
}

func (r *gozstdReader) Read(p []byte) (int, error) {
	return r.zr.Read(p)
}

func (r *gozstdReader) Close() error {
	if r.zr != nil {
		r.zr.Release()
		r.zr = nil
	}

	return nil
}
