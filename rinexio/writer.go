package rinexio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/internal/pool"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/textcodec"
)

// Writer writes a RINEX observation file.
type Writer struct {
	w      *bufio.Writer
	rev    format.Revision
	strict bool
	header bool
}

// NewWriter creates a Writer. strict wraps modern records five observables
// per line; legacy records are always wrapped.
func NewWriter(w io.Writer, rev format.Revision, strict bool) *Writer {
	return &Writer{w: bufio.NewWriter(w), rev: rev, strict: strict}
}

// WriteHeader writes the header lines verbatim.
func (w *Writer) WriteHeader(h *rinex.Header) error {
	if w.header {
		return errs.ErrHeaderWritten
	}
	w.header = true

	return w.writeLines(h.Lines)
}

// WriteRecord writes one record.
func (w *Writer) WriteRecord(rec rinex.Record) error {
	if !w.header {
		return errs.ErrHeaderNotWritten
	}

	switch rec := rec.(type) {
	case *rinex.Comment:
		return w.writeLines([]string{rec.Text})
	case *rinex.Event:
		if err := w.writeLines([]string{rec.Line}); err != nil {
			return err
		}

		return w.writeLines(rec.Payload)
	case *rinex.Epoch:
		return w.writeEpoch(rec)
	default:
		return fmt.Errorf("unsupported record %T", rec)
	}
}

func (w *Writer) writeEpoch(ep *rinex.Epoch) error {
	lines, err := textcodec.FormatEpochLines(ep, w.rev)
	if err != nil {
		return err
	}

	bb := pool.GetLineBuffer()
	defer pool.PutLineBuffer(bb)

	for _, line := range lines {
		bb.WriteLine(line)
	}
	for i := range ep.Sats {
		lines, err := textcodec.FormatSatLines(&ep.Sats[i], w.rev, w.strict)
		if err != nil {
			return err
		}
		for _, line := range lines {
			bb.WriteLine(line)
		}
	}

	_, err = bb.WriteTo(w.w)

	return err
}

func (w *Writer) writeLines(lines []string) error {
	for _, line := range lines {
		if _, err := w.w.WriteString(line); err != nil {
			return err
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}

	return nil
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
