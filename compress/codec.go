package compress

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
)

// Codec compresses and decompresses one framing, either whole buffers or
// streams.
type Codec interface {
	// Framing identifies the codec.
	Framing() format.Framing

	// Compress returns data wrapped in a complete frame.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller, except
	//     for FramingNone which returns data itself
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)

	// Decompress unwraps a complete frame.
	Decompress(data []byte) ([]byte, error)

	// NewWriter returns a writer compressing into w. Close flushes the frame
	// and does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)

	// NewReader returns a reader decompressing from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Stats describes the effect of the framing on one stream.
type Stats struct {
	// Framing identifies the codec used.
	Framing format.Framing

	// OriginalSize is the number of bytes before framing.
	OriginalSize int64

	// CompressedSize is the number of bytes after framing.
	CompressedSize int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.Framing]Codec{
	format.FramingNone: NewNoOpCodec(),
	format.FramingGzip: NewGzipCodec(),
	format.FramingZstd: NewZstdCodec(),
	format.FramingS2:   NewS2Codec(),
	format.FramingLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec of a framing.
//
// Returns:
//   - Codec: shared codec, safe for concurrent use
//   - error: ErrUnsupportedFraming for an unknown framing
func GetCodec(framing format.Framing) (Codec, error) {
	if codec, ok := builtinCodecs[framing]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedFraming, framing)
}

// Frame magics.
var (
	gzipMagic   = []byte{0x1f, 0x8b}
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic    = []byte{0x04, 0x22, 0x4d, 0x18}
	s2Magic     = []byte("\xff\x06\x00\x00S2sTwO")
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

// sniffLen is the number of bytes Detect needs to tell every framing apart.
const sniffLen = 10

// Detect returns the framing whose magic prefixes head, or FramingNone.
func Detect(head []byte) format.Framing {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return format.FramingGzip
	case bytes.HasPrefix(head, zstdMagic):
		return format.FramingZstd
	case bytes.HasPrefix(head, lz4Magic):
		return format.FramingLZ4
	case bytes.HasPrefix(head, s2Magic), bytes.HasPrefix(head, snappyMagic):
		return format.FramingS2
	default:
		return format.FramingNone
	}
}

// NewReader detects the framing of r and returns a decompressing reader.
//
// Parameters:
//   - r: stream starting with a frame magic or with plain text
//
// Returns:
//   - io.ReadCloser: decompressed stream; Close does not close r
//   - format.Framing: detected framing
//   - error: read error while sniffing or codec setup error
func NewReader(r io.Reader) (io.ReadCloser, format.Framing, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, format.FramingNone, err
	}

	framing := Detect(head)
	codec, err := GetCodec(framing)
	if err != nil {
		return nil, framing, err
	}

	rc, err := codec.NewReader(br)
	if err != nil {
		return nil, framing, fmt.Errorf("%s reader: %w", framing, err)
	}

	return rc, framing, nil
}

// NewWriter returns a writer compressing into w with the given framing.
func NewWriter(w io.Writer, framing format.Framing) (io.WriteCloser, error) {
	codec, err := GetCodec(framing)
	if err != nil {
		return nil, err
	}

	return codec.NewWriter(w)
}

// CountingWriter counts the bytes written through it.
type CountingWriter struct {
	W io.Writer
	N int64
}

// Write implements io.Writer.
func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.W.Write(p)
	c.N += int64(n)

	return n, err
}

// compressStream runs data through a streaming writer.
func compressStream(codec Codec, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decompressStream runs data through a streaming reader.
func decompressStream(codec Codec, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := codec.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
