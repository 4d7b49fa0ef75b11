package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/arloliu/crinex/format"
)

// GzipCodec reads and writes gzip members, the framing of most archived
// CRINEX files (".crx.gz").
type GzipCodec struct {
	level int
}

var _ Codec = (*GzipCodec)(nil)

// NewGzipCodec creates a gzip codec with the default level.
func NewGzipCodec() GzipCodec {
	return GzipCodec{level: gzip.DefaultCompression}
}

// NewGzipCodecLevel creates a gzip codec with an explicit level in
// [gzip.HuffmanOnly, gzip.BestCompression].
func NewGzipCodecLevel(level int) GzipCodec {
	return GzipCodec{level: level}
}

// Framing implements Codec.
func (c GzipCodec) Framing() format.Framing { return format.FramingGzip }

// Compress implements Codec.
func (c GzipCodec) Compress(data []byte) ([]byte, error) {
	return compressStream(c, data)
}

// Decompress implements Codec. Concatenated members are read as one stream.
func (c GzipCodec) Decompress(data []byte) ([]byte, error) {
	return decompressStream(c, data)
}

// NewWriter implements Codec.
func (c GzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, c.level)
}

// NewReader implements Codec.
func (c GzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}
