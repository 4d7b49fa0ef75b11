// Package crinex converts GNSS observation files between RINEX and Compact
// RINEX (the Hatanaka format).
//
// Compression differences every observable, the receiver clock offset and the
// epoch line against the previous epochs of the same stream, which shrinks
// RINEX text by a factor of three to four before any general purpose
// compression. Decompression restores the original values exactly.
//
// # Revisions
//
//   - RINEX 2.x is compressed to CRINEX 1.0
//   - RINEX 3.x and 4.x are compressed to CRINEX 3.0
//
// # Basic Usage
//
// Whole streams:
//
//	stats, err := crinex.Compress(dst, src, crinex.WithOrder(3))
//
//	stats, err := crinex.Decompress(dst, src, crinex.WithStrict(true))
//
// Record by record:
//
//	dec, _ := crinex.NewDecompressor(f)
//	hdr, _ := dec.Header()
//	for rec, err := range dec.All() {
//	    if err != nil {
//	        return err
//	    }
//	    if ep, ok := rec.(*rinex.Epoch); ok {
//	        fmt.Println(ep.Time, len(ep.Sats))
//	    }
//	}
//
// # Package Structure
//
// The root package drives the epoch state machine and owns one Session per
// stream. The diff package holds the numeric and text differencing primitives,
// engine the per-stream difference engine, textcodec the CRINEX line formats
// and rinexio the RINEX reader and writer. compress adds the outer gzip,
// zstd, s2 and lz4 framing used for distribution.
package crinex

import (
	"errors"
	"io"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/rinexio"
)

// Compress converts the RINEX observation stream read from src into CRINEX
// written to dst.
//
// Parameters:
//   - dst: destination of the CRINEX text
//   - src: RINEX observation text
//   - opts: see NewCompressor
//
// Returns:
//   - Stats: counters of the converted stream
//   - error: the first read, compression or write error
func Compress(dst io.Writer, src io.Reader, opts ...Option) (Stats, error) {
	c, err := NewCompressor(dst, opts...)
	if err != nil {
		return Stats{}, err
	}

	r := rinexio.NewReader(src)
	h, err := r.Header()
	if err != nil {
		return c.Stats(), err
	}
	if err := c.WriteHeader(h); err != nil {
		return c.Stats(), err
	}

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c.Stats(), err
		}
		if err := c.WriteRecord(rec); err != nil {
			return c.Stats(), errs.AtLine(err, r.Line())
		}
	}

	if err := c.Close(); err != nil {
		return c.Stats(), err
	}

	return c.Stats(), nil
}

// Decompress converts the CRINEX stream read from src into RINEX written to
// dst.
//
// Parameters:
//   - dst: destination of the RINEX text
//   - src: CRINEX text
//   - opts: see NewDecompressor
//
// Returns:
//   - Stats: counters of the converted stream
//   - error: the first read, decompression or write error
func Decompress(dst io.Writer, src io.Reader, opts ...Option) (Stats, error) {
	d, err := NewDecompressor(src, opts...)
	if err != nil {
		return Stats{}, err
	}

	h, err := d.Header()
	if err != nil {
		return d.Stats(), err
	}

	w := rinexio.NewWriter(dst, h.Rinex.Revision, d.cfg.Strict)
	if err := w.WriteHeader(h.Rinex); err != nil {
		return d.Stats(), err
	}

	for rec, err := range d.All() {
		if err != nil {
			return d.Stats(), err
		}
		if err := w.WriteRecord(rec); err != nil {
			return d.Stats(), err
		}
	}

	if err := w.Flush(); err != nil {
		return d.Stats(), err
	}

	return d.Stats(), nil
}
