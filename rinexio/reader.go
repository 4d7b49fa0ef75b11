package rinexio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/textcodec"
)

// Reader reads a RINEX observation file.
type Reader struct {
	lr     *LineReader
	hdr    *rinex.Header
	layout textcodec.Layout
	// legacyTypes is the shared observable count of legacy files.
	legacyTypes int
}

// NewReader creates a Reader over r. The header is read on first use.
func NewReader(r io.Reader) *Reader {
	return &Reader{lr: NewLineReader(r)}
}

// Header reads and parses the header if it has not been read yet.
func (r *Reader) Header() (*rinex.Header, error) {
	if r.hdr != nil {
		return r.hdr, nil
	}

	lines, err := r.lr.ReadHeader()
	if err != nil {
		return nil, err
	}

	h, err := rinex.ParseHeader(lines)
	if err != nil {
		return nil, errs.AtLine(err, r.lr.Line())
	}

	r.hdr = h
	r.layout = textcodec.LayoutFor(h.Revision)
	if h.Revision == format.RevisionLegacy {
		r.legacyTypes, _ = h.NumTypes(rinex.AllSystems)
	}

	return h, nil
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.lr.Line()
}

// Next returns the next record, or io.EOF after the last one. Empty lines
// between records are skipped.
//
// Returns:
//   - rinex.Record: *rinex.Epoch, *rinex.Event or *rinex.Comment
//   - error: io.EOF at the end, otherwise a *errs.StreamError carrying the line
func (r *Reader) Next() (rinex.Record, error) {
	if _, err := r.Header(); err != nil {
		return nil, err
	}

	var line string
	for {
		var err error
		if line, err = r.lr.Next(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) != "" {
			break
		}
	}

	if rinex.IsCommentLine(line) {
		return &rinex.Comment{Text: line}, nil
	}

	rec, err := r.readEpoch(line)
	if err != nil {
		return nil, errs.AtLine(err, r.lr.Line())
	}

	return rec, nil
}

func (r *Reader) readEpoch(line string) (rinex.Record, error) {
	if r.layout.Revision == format.RevisionModern && line[0] != r.layout.Marker {
		return nil, fmt.Errorf("%w: expected epoch line, got %q", errs.ErrMalformedEpoch, line)
	}

	flag := r.layout.EpochLineFlag(line)
	if flag.IsEvent() {
		return r.readEvent(flag, line)
	}

	if r.layout.Revision == format.RevisionLegacy {
		return r.readLegacyEpoch(line)
	}

	return r.readModernEpoch(line)
}

func (r *Reader) readLegacyEpoch(line string) (*rinex.Epoch, error) {
	joined, err := r.joinSatellites(line)
	if err != nil {
		return nil, err
	}
	d, err := r.layout.ParseDescriptor(joined)
	if err != nil {
		return nil, err
	}

	ep := &rinex.Epoch{Time: d.Time, Flag: d.Flag, Sats: make([]rinex.SatObs, len(d.Sats))}
	if ep.Clock, err = r.parseClock(line); err != nil {
		return nil, err
	}

	var sb strings.Builder
	for i, id := range d.Sats {
		sb.Reset()
		for range textcodec.LegacyLinesPerSat(r.legacyTypes) {
			rec, err := r.lr.Must("observation record")
			if err != nil {
				return nil, err
			}
			sb.WriteString(padRight(rec, textcodec.ObsPerLine*textcodec.ObservationFieldWidth))
		}

		ep.Sats[i].ID = id
		if ep.Sats[i].Obs, err = parseFields(sb.String(), r.legacyTypes, true); err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
	}

	return ep, nil
}

func (r *Reader) readModernEpoch(line string) (*rinex.Epoch, error) {
	d, err := r.layout.ParseEpochHeader(line)
	if err != nil {
		return nil, err
	}

	ep := &rinex.Epoch{Time: d.Time, Flag: d.Flag, Sats: make([]rinex.SatObs, d.Count)}
	if ep.Clock, err = r.parseClock(line); err != nil {
		return nil, err
	}

	for i := range ep.Sats {
		rec, err := r.lr.Must("observation record")
		if err != nil {
			return nil, err
		}
		if len(rec) < rinex.SatIDWidth {
			return nil, fmt.Errorf("%w: record %q has no satellite", errs.ErrMalformedEpoch, rec)
		}

		id, err := rinex.ParseSatID(rec[:rinex.SatIDWidth])
		if err != nil {
			return nil, err
		}
		n, err := r.hdr.NumTypes(id.System)
		if err != nil {
			return nil, err
		}

		fields, err := r.joinModernRecord(rec[rinex.SatIDWidth:], n)
		if err != nil {
			return nil, err
		}

		ep.Sats[i].ID = id
		if ep.Sats[i].Obs, err = parseFields(fields, n, false); err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
	}

	return ep, nil
}

// joinSatellites returns the legacy epoch line with continuation lines
// appended to its satellite list and the clock field removed.
func (r *Reader) joinSatellites(line string) (string, error) {
	head := line[:min(len(line), r.layout.ClockCol)]

	count, err := r.layout.EventCount(line)
	if err != nil || count <= r.layout.SatsPerLine {
		return head, nil
	}

	var sb strings.Builder
	sb.WriteString(head)
	for read := r.layout.SatsPerLine; read < count; read += r.layout.SatsPerLine {
		cont, err := r.lr.Must("satellite list continuation")
		if err != nil {
			return "", err
		}
		end := r.layout.SatStart + rinex.SatIDWidth*min(r.layout.SatsPerLine, count-read)
		if len(cont) < end {
			// not a continuation; ParseDescriptor reports the short list
			r.lr.Unread(cont)
			break
		}
		sb.WriteString(cont[r.layout.SatStart:end])
	}

	return sb.String(), nil
}

func (r *Reader) parseClock(line string) (*rinex.Decimal, error) {
	col := r.layout.ClockCol
	if len(line) <= col {
		return nil, nil
	}

	field := line[col:min(len(line), col+textcodec.ClockWidth(r.layout.Revision))]
	d, ok, err := textcodec.ParseFixed(field, textcodec.ClockPlaces(r.layout.Revision))
	if err != nil {
		return nil, fmt.Errorf("%w: clock offset %q: %w", errs.ErrMalformedEpoch, field, err)
	}
	if !ok {
		return nil, nil
	}

	return &d, nil
}

// joinModernRecord joins strictly wrapped continuation lines, which start
// with three spaces where the first line has the satellite identifier.
func (r *Reader) joinModernRecord(fields string, ntypes int) (string, error) {
	for read := textcodec.ObsPerLine; read < ntypes; read += textcodec.ObsPerLine {
		next, err := r.lr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if !strings.HasPrefix(next, "   ") || rinex.IsCommentLine(next) {
			r.lr.Unread(next)
			break
		}
		fields = padRight(fields, read*textcodec.ObservationFieldWidth) + next[rinex.SatIDWidth:]
	}

	return fields, nil
}

// parseFields splits concatenated 16 column observable fields.
func parseFields(fields string, ntypes int, legacy bool) ([]rinex.Observation, error) {
	if len(strings.TrimRight(fields, " ")) > ntypes*textcodec.ObservationFieldWidth {
		return nil, fmt.Errorf("%w: more than %d observables", errs.ErrTooManyValues, ntypes)
	}

	obs := make([]rinex.Observation, ntypes)
	for j := range obs {
		start := j * textcodec.ObservationFieldWidth
		field := ""
		if start < len(fields) {
			field = fields[start:min(len(fields), start+textcodec.ObservationFieldWidth)]
		}

		var err error
		if obs[j], err = textcodec.ParseObservation(field); err != nil {
			return nil, fmt.Errorf("observable %d: %w", j+1, err)
		}
		if legacy && !obs[j].Valid {
			obs[j].LLI, obs[j].SSI = ' ', ' '
		}
	}

	return obs, nil
}

func (r *Reader) readEvent(flag format.EpochFlag, line string) (*rinex.Event, error) {
	count, err := r.layout.EventCount(line)
	if err != nil {
		return nil, err
	}

	n := r.layout.EventPayloadLines(flag, count, r.legacyTypes)
	ev := &rinex.Event{Flag: flag, Line: line, Payload: make([]string, 0, n)}
	for range n {
		p, err := r.lr.Must("event payload")
		if err != nil {
			return nil, err
		}
		ev.Payload = append(ev.Payload, p)
	}

	if flag == format.FlagHeader {
		updates, err := rinex.ParseTypeUpdates(ev.Payload)
		if err != nil {
			return nil, err
		}
		r.hdr.Apply(updates)
		if r.layout.Revision == format.RevisionLegacy {
			r.legacyTypes, _ = r.hdr.NumTypes(rinex.AllSystems)
		}
	}

	return ev, nil
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}
