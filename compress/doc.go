// Package compress provides the outer framings a RINEX or CRINEX file may be
// wrapped in: gzip, zstd, s2, lz4 or none.
//
// CRINEX removes the redundancy between epochs; a general purpose compressor
// applied on top removes what is left inside each line. Archives usually ship
// ".crx.gz" or ".??d.Z" files, and the codecs here read and write those frames
// as streams so a file never has to be held in memory.
//
// # Codecs
//
// Every framing implements Codec:
//
//	type Codec interface {
//	    Framing() format.Framing
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte) ([]byte, error)
//	    NewWriter(w io.Writer) (io.WriteCloser, error)
//	    NewReader(r io.Reader) (io.ReadCloser, error)
//	}
//
// Closing a writer flushes the frame but leaves the underlying writer open.
//
// # Detection
//
// NewReader sniffs the first bytes of a stream and picks the codec from the
// frame magic:
//
//	gzip  1f 8b
//	zstd  28 b5 2f fd
//	lz4   04 22 4d 18
//	s2    ff 06 00 00 "S2sTwO" (also snappy framed "sNaPpY")
//
// Anything else is read as plain text.
//
// # Zstandard backends
//
// The default build uses the pure Go github.com/klauspost/compress/zstd.
// Building with the "gozstd" tag and cgo enabled switches to
// github.com/valyala/gozstd, which wraps the reference C library.
package compress
