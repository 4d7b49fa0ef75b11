package textcodec

import (
	"fmt"
	"strings"

	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
)

const (
	// ObservationFieldWidth is the width of one observable: F14.3 plus LLI and SSI.
	ObservationFieldWidth = ObservationWidth + 2
	// ObsPerLine is the number of observables per legacy record line.
	ObsPerLine = 5
	// wrapIndent prefixes continuation lines of strictly wrapped modern records.
	wrapIndent = "   "
)

// LegacyLinesPerSat returns the number of lines a legacy satellite record spans.
func LegacyLinesPerSat(ntypes int) int {
	if ntypes <= 0 {
		return 1
	}

	return (ntypes + ObsPerLine - 1) / ObsPerLine
}

// ModernLinesPerSat returns the number of lines a modern satellite record spans.
func ModernLinesPerSat(ntypes int, strict bool) int {
	if !strict {
		return 1
	}

	return LegacyLinesPerSat(ntypes)
}

// AppendObservation appends one 16 column observable field.
func AppendObservation(dst []byte, o rinex.Observation) ([]byte, error) {
	if o.Valid {
		var err error
		if dst, err = AppendFixed(dst, o.Value, ObservationWidth); err != nil {
			return dst, err
		}
	} else {
		dst = append(dst, "              "...)
	}

	return append(dst, flagChar(o.LLI), flagChar(o.SSI)), nil
}

// ParseObservation parses one observable field; field may be shorter than 16
// columns when the line was trimmed.
func ParseObservation(field string) (rinex.Observation, error) {
	o := rinex.Blank()

	value := field
	if len(value) > ObservationWidth {
		value = value[:ObservationWidth]
	}
	d, ok, err := ParseFixed(value, rinex.ObservationPlaces)
	if err != nil {
		return rinex.Observation{}, err
	}
	o.Value, o.Valid = d, ok

	if len(field) > ObservationWidth {
		o.LLI = field[ObservationWidth]
	}
	if len(field) > ObservationWidth+1 {
		o.SSI = field[ObservationWidth+1]
	}

	return o, nil
}

// FormatEpochLines renders the RINEX epoch line of ep, with legacy satellite
// list continuation lines.
func FormatEpochLines(ep *rinex.Epoch, rev format.Revision) ([]string, error) {
	l := LayoutFor(rev)
	d := &Descriptor{Time: ep.Time, Flag: ep.Flag, Count: len(ep.Sats)}

	timeSeg, countSeg, _, err := l.Segments(d)
	if err != nil {
		return nil, err
	}

	if rev != format.RevisionLegacy {
		line := []byte(timeSeg + countSeg)
		if ep.Clock != nil {
			if line, err = AppendFixed(line, *ep.Clock, ModernClockWidth); err != nil {
				return nil, fmt.Errorf("clock: %w", err)
			}
		}

		return []string{string(trimRight(line, 0))}, nil
	}

	ids := ep.SatIDs()
	first := []byte(timeSeg + countSeg)
	for _, id := range ids[:min(len(ids), l.SatsPerLine)] {
		first = id.AppendTo(first)
	}
	if ep.Clock != nil {
		for len(first) < l.ClockCol {
			first = append(first, ' ')
		}
		if first, err = AppendFixed(first, *ep.Clock, LegacyClockWidth); err != nil {
			return nil, fmt.Errorf("clock: %w", err)
		}
	}

	lines := []string{string(trimRight(first, 0))}
	for i := l.SatsPerLine; i < len(ids); i += l.SatsPerLine {
		cont := []byte(strings.Repeat(" ", l.SatStart))
		for _, id := range ids[i:min(len(ids), i+l.SatsPerLine)] {
			cont = id.AppendTo(cont)
		}
		lines = append(lines, string(cont))
	}

	return lines, nil
}

// FormatSatLines renders the observation record of one satellite.
//
// Legacy records carry five observables per line. Modern records are a single
// line prefixed with the satellite identifier unless strict is set, in which
// case they are wrapped five observables per line as well.
func FormatSatLines(sat *rinex.SatObs, rev format.Revision, strict bool) ([]string, error) {
	legacy := rev == format.RevisionLegacy
	wrap := legacy || strict

	var (
		lines []string
		line  []byte
		err   error
	)
	if !legacy {
		line = sat.ID.AppendTo(line)
	}

	for i := range sat.Obs {
		if wrap && i > 0 && i%ObsPerLine == 0 {
			lines = append(lines, string(trimRight(line, 0)))
			line = nil
			if !legacy {
				line = append(line, wrapIndent...)
			}
		}
		if line, err = AppendObservation(line, sat.Obs[i]); err != nil {
			return nil, fmt.Errorf("%s observable %d: %w", sat.ID, i+1, err)
		}
	}

	return append(lines, string(trimRight(line, 0))), nil
}

func flagChar(c byte) byte {
	if c == 0 {
		return ' '
	}

	return c
}
