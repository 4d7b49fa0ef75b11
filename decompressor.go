package crinex

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/arloliu/crinex/engine"
	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/rinexio"
	"github.com/arloliu/crinex/section"
	"github.com/arloliu/crinex/textcodec"
)

// escapeMarker starts a CRINEX 3 body line that decoders skip.
const escapeMarker = '&'

// Decompressor reads RINEX records from a CRINEX stream.
//
// The first error is sticky: differencing state cannot be trusted after it,
// so every later call returns the same error.
type Decompressor struct {
	lr   *rinexio.LineReader
	cfg  *Config
	hdr  *section.Header
	sess *Session
	err  error
}

// NewDecompressor creates a Decompressor reading from r. The header is read
// on first use.
//
// Parameters:
//   - r: CRINEX text, without outer framing
//   - opts: WithMaxOrder, WithRevision, WithStrict
//
// Returns:
//   - *Decompressor: decompressor positioned before the header
//   - error: a configuration error
func NewDecompressor(r io.Reader, opts ...Option) (*Decompressor, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Decompressor{lr: rinexio.NewLineReader(r), cfg: cfg}, nil
}

// Header reads the header section if needed and returns it.
func (d *Decompressor) Header() (*section.Header, error) {
	if d.hdr != nil {
		return d.hdr, nil
	}
	if d.err != nil {
		return nil, d.err
	}

	lines, err := d.lr.ReadHeader()
	if err != nil {
		d.err = err
		return nil, err
	}

	hdr, err := section.ParseHeader(lines)
	if err != nil {
		d.err = errs.AtLine(err, d.lr.Line())
		return nil, d.err
	}

	sess, err := newSession(d.cfg, hdr.Rinex, d.cfg.MaxOrder)
	if err != nil {
		d.err = err
		return nil, err
	}
	d.hdr, d.sess = hdr, sess

	return hdr, nil
}

// Session returns the stream session, nil before the header is read.
func (d *Decompressor) Session() *Session {
	return d.sess
}

// Next returns the next record, or io.EOF after the last one.
//
// Returns:
//   - rinex.Record: *rinex.Epoch, *rinex.Event or *rinex.Comment
//   - error: io.EOF at the end, otherwise a *errs.StreamError with line and epoch
func (d *Decompressor) Next() (rinex.Record, error) {
	if _, err := d.Header(); err != nil {
		return nil, err
	}
	if d.err != nil {
		return nil, d.err
	}

	for {
		line, err := d.lr.Next()
		if errors.Is(err, io.EOF) {
			if err := d.sess.sm.Finish(0); err != nil {
				d.err = err
				return nil, err
			}

			return nil, io.EOF
		}
		if err != nil {
			d.err = err
			return nil, err
		}

		if d.sess.layout.Revision == format.RevisionModern && line != "" && line[0] == escapeMarker {
			continue
		}

		rec, err := d.readRecord(line)
		if err != nil {
			d.err = errs.AtLine(err, d.lr.Line())
			return nil, d.err
		}

		return rec, nil
	}
}

// All returns an iterator over the remaining records. Iteration stops after
// the first error, which is yielded with a nil record; io.EOF is not yielded.
//
// Example:
//
//	for rec, err := range dec.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(rec.Kind())
//	}
func (d *Decompressor) All() iter.Seq2[rinex.Record, error] {
	return func(yield func(rinex.Record, error) bool) {
		for {
			rec, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Stats returns the counters of the stream so far.
func (d *Decompressor) Stats() Stats {
	return d.sess.stats(d.lr.Line())
}

func (d *Decompressor) readRecord(line string) (rinex.Record, error) {
	if rinex.IsCommentLine(line) {
		d.sess.sm.OnComment()
		d.sess.sm.Resume()

		return &rinex.Comment{Text: line}, nil
	}

	layout := d.sess.layout
	if line != "" && line[0] == layout.InitMarker {
		if flag := layout.EpochLineFlag(line); flag.IsEvent() {
			return d.readEvent(flag, line)
		}
	}

	return d.readEpoch(line)
}

func (d *Decompressor) readEvent(flag format.EpochFlag, line string) (*rinex.Event, error) {
	layout := d.sess.layout
	if _, err := d.sess.sm.OnEpoch(flag); err != nil {
		return nil, err
	}

	count, err := layout.EventCount(line)
	if err != nil {
		return nil, err
	}

	n := layout.EventPayloadLines(flag, count, d.sess.legacyTypes())
	ev := &rinex.Event{Flag: flag, Line: layout.RinexEventLine(line), Payload: make([]string, 0, n)}
	for i := range n {
		p, err := d.expect(n-i, "event payload")
		if err != nil {
			return nil, err
		}
		ev.Payload = append(ev.Payload, p)
	}

	if err := d.sess.applyEvent(ev); err != nil {
		return nil, err
	}

	return ev, nil
}

func (d *Decompressor) readEpoch(line string) (*rinex.Epoch, error) {
	eng := d.sess.engine

	desc, err := eng.PeekDescriptor(line)
	if err != nil {
		return nil, errs.AtEpoch(err, eng.Epochs(), engine.SlotDescriptor)
	}
	route, err := d.sess.sm.OnEpoch(desc.Flag)
	if err != nil {
		return nil, errs.AtEpoch(err, eng.Epochs(), engine.SlotDescriptor)
	}
	if route != RouteEngine {
		return nil, errs.AtEpoch(fmt.Errorf("%w: event flag %q on a differenced epoch line",
			errs.ErrUnexpectedEventPayload, byte(desc.Flag)), eng.Epochs(), engine.SlotDescriptor)
	}

	pending := 1 + len(desc.Sats)
	clockLine, err := d.expect(pending, "clock line")
	if err != nil {
		return nil, err
	}
	pending--

	block := &engine.Block{Descriptor: line, Sats: make([]textcodec.SatRecord, len(desc.Sats))}
	if block.Clock, err = textcodec.ParseClockLine(clockLine); err != nil {
		return nil, errs.AtEpoch(err, eng.Epochs(), engine.SlotClock)
	}

	for i, id := range desc.Sats {
		dataLine, err := d.expect(pending, "data line of "+id.String())
		if err != nil {
			return nil, err
		}
		pending--

		n, err := eng.NumTypes(id.System)
		if err != nil {
			return nil, errs.AtEpoch(err, eng.Epochs(), id.String())
		}
		if block.Sats[i], err = textcodec.ParseDataLine(dataLine, n); err != nil {
			return nil, errs.AtEpoch(err, eng.Epochs(), id.String())
		}
	}

	return eng.DecompressEpoch(block)
}

// expect reads a line the current record cannot do without. pending counts
// the lines still owed, this one included.
func (d *Decompressor) expect(pending int, what string) (string, error) {
	line, err := d.lr.Next()
	if errors.Is(err, io.EOF) {
		return "", errs.AtLine(fmt.Errorf("%w: reading %s", d.sess.sm.Finish(pending), what), d.lr.Line()+1)
	}

	return line, err
}
