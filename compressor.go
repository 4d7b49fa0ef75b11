package crinex

import (
	"bufio"
	"fmt"
	"io"

	"github.com/arloliu/crinex/engine"
	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/internal/pool"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/section"
	"github.com/arloliu/crinex/textcodec"
)

// Compressor writes a CRINEX stream from RINEX records.
//
// Records must be written in file order after the header. A Compressor is not
// safe for concurrent use.
type Compressor struct {
	w       *bufio.Writer
	cfg     *Config
	sess    *Session
	scratch []byte
	lines   int
	closed  bool
}

// NewCompressor creates a Compressor writing to w.
//
// Parameters:
//   - w: destination of the CRINEX text
//   - opts: WithOrder, WithRevision, WithProgram, WithNow
//
// Returns:
//   - *Compressor: compressor expecting WriteHeader first
//   - error: a configuration error
func NewCompressor(w io.Writer, opts ...Option) (*Compressor, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Compressor{w: bufio.NewWriter(w), cfg: cfg}, nil
}

// Session returns the stream session, nil before WriteHeader.
func (c *Compressor) Session() *Session {
	return c.sess
}

// WriteHeader writes the CRINEX header section built around h and starts the
// session.
func (c *Compressor) WriteHeader(h *rinex.Header) error {
	if c.closed {
		return errs.ErrClosed
	}
	if c.sess != nil {
		return errs.ErrHeaderWritten
	}

	sess, err := newSession(c.cfg, h, c.cfg.Order)
	if err != nil {
		return err
	}

	crx, err := section.NewCrinexHeader(h.Revision, c.cfg.Program, c.cfg.Now())
	if err != nil {
		return err
	}
	hdr, err := section.Wrap(h, crx)
	if err != nil {
		return err
	}

	for _, line := range hdr.Lines() {
		if err := c.writeLine(line); err != nil {
			return err
		}
	}
	c.sess = sess

	return nil
}

// WriteRecord compresses one record.
//
// Observation epochs go through the difference engine. Event epochs and
// comments are copied verbatim and leave the engine untouched.
func (c *Compressor) WriteRecord(rec rinex.Record) error {
	if c.closed {
		return errs.ErrClosed
	}
	if c.sess == nil {
		return errs.ErrHeaderNotWritten
	}

	switch rec := rec.(type) {
	case *rinex.Comment:
		c.sess.sm.OnComment()
		defer c.sess.sm.Resume()

		return c.writeLine(rec.Text)
	case *rinex.Event:
		return c.writeEvent(rec)
	case *rinex.Epoch:
		return c.writeEpoch(rec)
	default:
		return fmt.Errorf("unsupported record %T", rec)
	}
}

func (c *Compressor) writeEpoch(ep *rinex.Epoch) error {
	eng := c.sess.engine
	route, err := c.sess.sm.OnEpoch(ep.Flag)
	if err != nil {
		return errs.AtEpoch(err, eng.Epochs(), engine.SlotDescriptor)
	}
	if route != RouteEngine {
		return errs.AtEpoch(fmt.Errorf("%w: event flag %q on an observation epoch",
			errs.ErrMalformedEpoch, byte(ep.Flag)), eng.Epochs(), engine.SlotDescriptor)
	}

	block, err := eng.CompressEpoch(ep)
	if err != nil {
		return err
	}

	bb := pool.GetLineBuffer()
	defer pool.PutLineBuffer(bb)

	bb.WriteLine(block.Descriptor)
	c.scratch = textcodec.AppendClockLine(c.scratch[:0], block.Clock)
	_, _ = bb.Write(c.scratch)
	_ = bb.WriteByte('\n')
	for _, rec := range block.Sats {
		c.scratch = textcodec.AppendDataLine(c.scratch[:0], rec)
		_, _ = bb.Write(c.scratch)
		_ = bb.WriteByte('\n')
	}

	if _, err := bb.WriteTo(c.w); err != nil {
		return err
	}
	c.lines += 2 + len(block.Sats)

	return nil
}

func (c *Compressor) writeEvent(ev *rinex.Event) error {
	layout := c.sess.layout
	if flag := layout.EpochLineFlag(ev.Line); flag != ev.Flag {
		return fmt.Errorf("%w: line carries flag %q, record %q", errs.ErrUnexpectedEventPayload, byte(flag), byte(ev.Flag))
	}

	route, err := c.sess.sm.OnEpoch(ev.Flag)
	if err != nil {
		return err
	}
	if route != RoutePassthrough {
		return fmt.Errorf("%w: flag %q is not an event", errs.ErrUnexpectedEventPayload, byte(ev.Flag))
	}

	count, err := layout.EventCount(ev.Line)
	if err != nil {
		return err
	}
	if want := layout.EventPayloadLines(ev.Flag, count, c.sess.legacyTypes()); want != len(ev.Payload) {
		return fmt.Errorf("%w: %d payload lines, epoch line announces %d", errs.ErrUnexpectedEventPayload, len(ev.Payload), want)
	}

	if err := c.writeLine(layout.CrinexEventLine(ev.Line)); err != nil {
		return err
	}
	for _, line := range ev.Payload {
		if err := c.writeLine(line); err != nil {
			return err
		}
	}

	return c.sess.applyEvent(ev)
}

func (c *Compressor) writeLine(line string) error {
	if _, err := c.w.WriteString(line); err != nil {
		return err
	}
	if err := c.w.WriteByte('\n'); err != nil {
		return err
	}
	c.lines++

	return nil
}

// Close flushes buffered output. It does not close the underlying writer.
func (c *Compressor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if c.sess != nil {
		if err := c.sess.sm.Finish(0); err != nil {
			return err
		}
	}

	return c.w.Flush()
}

// Stats returns the counters of the stream so far.
func (c *Compressor) Stats() Stats {
	return c.sess.stats(c.lines)
}
