package textcodec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
)

// Layout holds the column positions of an epoch line for one revision.
//
// An epoch line is split into three segments that are differenced separately:
// the timestamp segment [0, TimeEnd), the flag/count segment [TimeEnd, SatStart)
// and the satellite list from SatStart.
type Layout struct {
	Revision format.Revision
	// Marker is the first character of an epoch line in RINEX.
	Marker byte
	// InitMarker is the first character of a full (non-differenced) epoch
	// line in CRINEX.
	InitMarker byte
	TimeStart  int
	TimeEnd    int
	FlagCol    int
	CountStart int
	CountEnd   int
	SatStart   int
	// SatsPerLine bounds the satellite list of a RINEX epoch line, 0 for no limit.
	SatsPerLine int
	// ClockCol is where the RINEX epoch line carries the receiver clock offset.
	ClockCol int
}

var (
	legacyLayout = Layout{
		Revision:    format.RevisionLegacy,
		Marker:      ' ',
		InitMarker:  '&',
		TimeStart:   1,
		TimeEnd:     26,
		FlagCol:     28,
		CountStart:  29,
		CountEnd:    32,
		SatStart:    32,
		SatsPerLine: 12,
		ClockCol:    68,
	}
	modernLayout = Layout{
		Revision:   format.RevisionModern,
		Marker:     '>',
		InitMarker: '>',
		TimeStart:  2,
		TimeEnd:    29,
		FlagCol:    31,
		CountStart: 32,
		CountEnd:   35,
		SatStart:   41,
		ClockCol:   41,
	}
)

// LayoutFor returns the epoch line layout of rev.
func LayoutFor(rev format.Revision) Layout {
	if rev == format.RevisionLegacy {
		return legacyLayout
	}

	return modernLayout
}

// Descriptor is the parsed content of an epoch line.
type Descriptor struct {
	Time  rinex.Timestamp
	Flag  format.EpochFlag
	Count int
	Sats  []rinex.SatID
}

// Segments renders the three differencing segments of d.
func (l Layout) Segments(d *Descriptor) (timeSeg, countSeg, satSeg string, err error) {
	if err := d.Time.Validate(l.Revision); err != nil {
		return "", "", "", err
	}
	if d.Count > 999 || d.Count < 0 {
		return "", "", "", fmt.Errorf("%w: satellite count %d", errs.ErrColumnOverflow, d.Count)
	}

	prefix := string(l.Marker)
	if l.Revision != format.RevisionLegacy {
		prefix += " "
	}
	timeSeg = prefix + string(d.Time)

	countSeg = fmt.Sprintf("  %c%3d", byte(d.Flag), d.Count)
	if pad := l.SatStart - l.CountEnd; pad > 0 {
		countSeg += strings.Repeat(" ", pad)
	}

	sats := make([]byte, 0, rinex.SatIDWidth*len(d.Sats))
	for _, id := range d.Sats {
		sats = id.AppendTo(sats)
	}

	return timeSeg, countSeg, string(sats), nil
}

// FormatDescriptor renders the whole epoch line of d with the RINEX marker.
func (l Layout) FormatDescriptor(d *Descriptor) (string, error) {
	t, c, s, err := l.Segments(d)
	if err != nil {
		return "", err
	}

	return t + c + s, nil
}

// ParseEpochHeader parses the timestamp, flag and count of an epoch line,
// ignoring any satellite list. RINEX 3 epoch lines end there.
func (l Layout) ParseEpochHeader(line string) (*Descriptor, error) {
	if len(line) < l.CountEnd {
		return nil, fmt.Errorf("%w: line too short: %q", errs.ErrMalformedEpoch, line)
	}

	d := &Descriptor{
		Time: rinex.Timestamp(line[l.TimeStart:l.TimeEnd]),
		Flag: format.EpochFlag(line[l.FlagCol]),
	}
	if !d.Flag.IsValid() {
		return nil, fmt.Errorf("%w: epoch flag %q", errs.ErrMalformedEpoch, line[l.FlagCol])
	}

	count, err := strconv.Atoi(strings.TrimSpace(line[l.CountStart:l.CountEnd]))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: satellite count %q", errs.ErrMalformedEpoch, line[l.CountStart:l.CountEnd])
	}
	d.Count = count

	return d, nil
}

// ParseDescriptor parses a complete epoch line. The first column is ignored so
// the line may carry either marker.
func (l Layout) ParseDescriptor(line string) (*Descriptor, error) {
	d, err := l.ParseEpochHeader(line)
	if err != nil {
		return nil, err
	}
	count := d.Count

	if d.Flag.IsEvent() {
		return d, nil
	}

	if need := l.SatStart + rinex.SatIDWidth*count; len(line) < need {
		return nil, fmt.Errorf("%w: %d satellites need %d columns, line has %d", errs.ErrMalformedEpoch, count, need, len(line))
	}

	d.Sats = make([]rinex.SatID, count)
	for i := range d.Sats {
		pos := l.SatStart + i*rinex.SatIDWidth
		id, err := rinex.ParseSatID(line[pos : pos+rinex.SatIDWidth])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrMalformedEpoch, err)
		}
		d.Sats[i] = id
	}

	return d, nil
}

// EpochLineFlag returns the flag column of an epoch line, or 0 if the line is
// too short to carry one.
func (l Layout) EpochLineFlag(line string) format.EpochFlag {
	if len(line) <= l.FlagCol {
		return 0
	}

	return format.EpochFlag(line[l.FlagCol])
}

// EventCount parses the record count of an event epoch line.
func (l Layout) EventCount(line string) (int, error) {
	if len(line) <= l.FlagCol {
		return 0, fmt.Errorf("%w: event line too short: %q", errs.ErrUnexpectedEventPayload, line)
	}

	field := ""
	if len(line) > l.CountStart {
		field = strings.TrimSpace(line[l.CountStart:min(len(line), l.CountEnd)])
	}
	if field == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: record count %q", errs.ErrUnexpectedEventPayload, field)
	}

	return n, nil
}

// EventPayloadLines returns how many lines follow an event epoch line.
//
// Flag 6 epochs carry observation-shaped cycle slip records: one line per
// satellite in modern files, and satellite list continuation lines plus
// ceil(types/5) lines per satellite in legacy files. Other events carry count
// lines.
func (l Layout) EventPayloadLines(flag format.EpochFlag, count, legacyTypes int) int {
	if flag != format.FlagCycleSlip || l.Revision != format.RevisionLegacy || count == 0 {
		return count
	}

	continuation := (count - 1) / l.SatsPerLine

	return continuation + count*LegacyLinesPerSat(legacyTypes)
}

// CrinexEventLine converts a RINEX event line into its CRINEX form.
func (l Layout) CrinexEventLine(line string) string {
	if line == "" {
		return string(l.InitMarker)
	}

	return string(l.InitMarker) + line[1:]
}

// RinexEventLine converts a CRINEX event line back into its RINEX form.
func (l Layout) RinexEventLine(line string) string {
	if line == "" {
		return string(l.Marker)
	}

	return string(l.Marker) + line[1:]
}
