package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arloliu/crinex"
	"github.com/arloliu/crinex/compress"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/internal/hash"
	"github.com/arloliu/crinex/internal/metrics"
	"github.com/arloliu/crinex/rinexio"
)

var (
	// ErrVerify reports a round trip whose digest differs from the input.
	ErrVerify = errors.New("verification failed")
	// ErrOutputExists is returned when the output file exists and -f is not set.
	ErrOutputExists = errors.New("output exists")
)

// Job is one file conversion.
type Job struct {
	Input  string
	Output string
	// Framing is the outer compression written to Output.
	Framing format.Framing
}

// Converter converts files in one direction. It is safe for concurrent use;
// every call builds its own codec session.
type Converter struct {
	Dir      Direction
	Settings Settings
	Log      *Logger
	Metrics  *metrics.Recorder
}

// Plan resolves the output paths of inputs.
func (c *Converter) Plan(inputs []string) ([]Job, error) {
	jobs := make([]Job, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		_, inFraming := SplitFraming(in)
		framing := c.Settings.Framing
		if c.Settings.KeepFraming {
			framing = inFraming
		}

		name, err := OutputName(filepath.Base(in), c.Dir, framing)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(in)
		if c.Settings.OutputDir != "" {
			dir = c.Settings.OutputDir
		}
		out := filepath.Join(dir, name)

		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s both convert to %s", prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, Job{Input: in, Output: out, Framing: framing})
	}

	return jobs, nil
}

// ConvertFile runs one job. The output is written to a temporary file next to
// its destination and renamed on success; on failure nothing is left behind.
func (c *Converter) ConvertFile(ctx context.Context, job Job) (err error) {
	start := time.Now()
	fs := metrics.FileStats{}
	defer func() {
		if c.Metrics != nil {
			fs.Duration, fs.Err = time.Since(start), err
			c.Metrics.Observe(fs)
		}
	}()

	if !c.Settings.Force {
		if _, err := os.Stat(job.Output); err == nil {
			return fmt.Errorf("%w: %s (use -f to overwrite)", ErrOutputExists, job.Output)
		}
	}

	in, err := os.Open(job.Input)
	if err != nil {
		return err
	}
	defer in.Close()
	if fi, err := in.Stat(); err == nil {
		fs.BytesIn = fi.Size()
	}

	tmp, err := os.CreateTemp(filepath.Dir(job.Output), "."+filepath.Base(job.Output)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	cw := &compress.CountingWriter{W: tmp}
	st, err := c.convertFramed(ctx, cw, in, job.Framing, false)
	fs.Epochs, fs.Events, fs.Comments = st.Epochs, st.Events, st.Comments
	fs.SlotsCreated, fs.SlotsRetired = st.SlotsCreated, st.SlotsRetired
	if err != nil {
		return err
	}
	fs.BytesOut = cw.N

	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), job.Output); err != nil {
		return err
	}

	if c.Settings.DeleteInput {
		if err := os.Remove(job.Input); err != nil {
			c.Log.Warnf("keeping %s: %v", job.Input, err)
		}
	}

	c.Log.Infof("finished %s -> %s (%d epochs, %d events, %d -> %d bytes, %s)",
		job.Input, job.Output, st.Epochs, st.Events, fs.BytesIn, fs.BytesOut, time.Since(start).Round(time.Millisecond))

	return nil
}

// ConvertStream converts src to dst, as the tools do when given no files.
func (c *Converter) ConvertStream(ctx context.Context, dst io.Writer, src io.Reader) (crinex.Stats, error) {
	return c.convertFramed(ctx, dst, src, c.Settings.Framing, c.Settings.KeepFraming)
}

// convertFramed strips the outer framing of src, converts, and frames dst.
func (c *Converter) convertFramed(ctx context.Context, dst io.Writer, src io.Reader, framing format.Framing, keep bool) (crinex.Stats, error) {
	rc, inFraming, err := compress.NewReader(src)
	if err != nil {
		return crinex.Stats{}, err
	}
	defer rc.Close()

	if keep {
		framing = inFraming
	}
	wc, err := c.newFrameWriter(dst, framing)
	if err != nil {
		return crinex.Stats{}, err
	}

	st, err := c.convert(ctx, wc, &ctxReader{ctx: ctx, r: rc})
	if cerr := wc.Close(); err == nil {
		err = cerr
	}

	return st, err
}

func (c *Converter) newFrameWriter(w io.Writer, framing format.Framing) (io.WriteCloser, error) {
	if framing == format.FramingGzip && c.Settings.Level != 0 {
		return compress.NewGzipCodecLevel(c.Settings.Level).NewWriter(w)
	}

	return compress.NewWriter(w, framing)
}

// convert runs the codec on plain text. With Verify set both sides are kept
// in memory and checked once the conversion succeeds.
func (c *Converter) convert(ctx context.Context, dst io.Writer, src io.Reader) (crinex.Stats, error) {
	var in, out bytes.Buffer
	if c.Settings.Verify {
		src = io.TeeReader(src, &in)
		dst = io.MultiWriter(dst, &out)
	}

	opts := c.Settings.codecOptions(c.Dir.String())
	var (
		st  crinex.Stats
		err error
	)
	if c.Dir == ToCrinex {
		st, err = crinex.Compress(dst, src, opts...)
	} else {
		st, err = crinex.Decompress(dst, src, opts...)
	}
	if err != nil {
		return st, err
	}
	if err := ctx.Err(); err != nil {
		return st, err
	}

	if c.Settings.Verify {
		if err := c.verify(in.Bytes(), out.Bytes()); err != nil {
			return st, err
		}
	}

	return st, nil
}

// verify checks that the RINEX side of a conversion survives a round trip.
// RINEX input is compared in its canonical rendering, the form the
// decompressor reproduces.
func (c *Converter) verify(in, out []byte) error {
	crx, rnx := out, in
	if c.Dir == ToRinex {
		var buf bytes.Buffer
		if _, err := crinex.Compress(&buf, bytes.NewReader(out), c.Settings.codecOptions("")...); err != nil {
			return fmt.Errorf("%w: recompress: %v", ErrVerify, err)
		}
		crx, rnx = buf.Bytes(), out
	}

	want, err := canonicalDigest(rnx, c.Settings.Strict)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerify, err)
	}

	d := hash.Writer()
	if _, err := crinex.Decompress(d, bytes.NewReader(crx), c.Settings.codecOptions("")...); err != nil {
		return fmt.Errorf("%w: decompress: %v", ErrVerify, err)
	}
	if got := d.Sum64(); got != want {
		return fmt.Errorf("%w: digest %016x, want %016x", ErrVerify, got, want)
	}

	return nil
}

// canonicalDigest fingerprints RINEX text as the writer renders it.
func canonicalDigest(rnx []byte, strict bool) (uint64, error) {
	r := rinexio.NewReader(bytes.NewReader(rnx))
	h, err := r.Header()
	if err != nil {
		return 0, err
	}

	d := hash.Writer()
	w := rinexio.NewWriter(d, h.Revision, strict)
	if err := w.WriteHeader(h); err != nil {
		return 0, err
	}
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if err := w.WriteRecord(rec); err != nil {
			return 0, err
		}
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}

	return d.Sum64(), nil
}

// ctxReader stops a conversion once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	return r.r.Read(p)
}
