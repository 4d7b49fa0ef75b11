package engine

import (
	"fmt"
	"strings"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/textcodec"
)

// ResolveDescriptor reconstructs the complete epoch line of a CRINEX epoch
// line without changing any state. The result carries the RINEX marker.
//
// Decoders call it to learn the flag and satellite count before reading the
// rest of a block.
func (e *Engine) ResolveDescriptor(line string) (string, error) {
	if line != "" && line[0] == e.layout.InitMarker {
		return string(e.layout.Marker) + line[1:], nil
	}
	if !e.primed {
		return "", fmt.Errorf("%w: differenced epoch line before any complete one", errs.ErrHistoryUnderflow)
	}

	t, c, s := e.split(line)

	return e.timeDiff.Peek(t) + e.countDiff.Peek(c) + e.satDiff.Peek(s), nil
}

// PeekDescriptor resolves and parses a CRINEX epoch line without changing any state.
func (e *Engine) PeekDescriptor(line string) (*textcodec.Descriptor, error) {
	full, err := e.ResolveDescriptor(line)
	if err != nil {
		return nil, err
	}

	return e.layout.ParseDescriptor(full)
}

func (e *Engine) split(line string) (timeSeg, countSeg, satSeg string) {
	cut := func(from, to int) string {
		if from >= len(line) {
			return ""
		}
		if to > len(line) || to < 0 {
			to = len(line)
		}

		return line[from:to]
	}

	return cut(0, e.layout.TimeEnd), cut(e.layout.TimeEnd, e.layout.SatStart), cut(e.layout.SatStart, -1)
}

func (e *Engine) applyDescriptor(line string) string {
	if line != "" && line[0] == e.layout.InitMarker {
		full := string(e.layout.Marker) + line[1:]
		t, c, s := e.split(full)
		e.timeDiff.Reset(t)
		e.countDiff.Reset(c)
		e.satDiff.Reset(s)

		return full
	}

	t, c, s := e.split(line)

	return e.timeDiff.Decompress(t) + e.countDiff.Decompress(c) + e.satDiff.Decompress(s)
}

// DecompressEpoch rebuilds a normal epoch from its CRINEX block.
//
// The block's satellite records must be in the order of the satellite list
// carried by its epoch line.
//
// Parameters:
//   - block: epoch line, clock token and satellite records
//
// Returns:
//   - *rinex.Epoch: the reconstructed epoch
//   - error: a *errs.StreamError carrying the epoch index and slot
func (e *Engine) DecompressEpoch(block *Block) (*rinex.Epoch, error) {
	idx := e.epochs

	d, err := e.PeekDescriptor(block.Descriptor)
	if err != nil {
		return nil, errs.AtEpoch(err, idx, SlotDescriptor)
	}
	if d.Flag.IsEvent() {
		return nil, errs.AtEpoch(fmt.Errorf("%w: event flag %q in epoch block", errs.ErrMalformedEpoch, byte(d.Flag)), idx, SlotDescriptor)
	}
	if len(block.Sats) != d.Count {
		return nil, errs.AtEpoch(fmt.Errorf("%w: %d satellite records for %d satellites",
			errs.ErrMalformedEpoch, len(block.Sats), d.Count), idx, SlotDescriptor)
	}
	if err := checkDuplicates(d.Sats); err != nil {
		return nil, errs.AtEpoch(err, idx, SlotDescriptor)
	}

	full := e.applyDescriptor(block.Descriptor)
	_, _, satSeg := e.split(full)
	e.retireAbsent(strings.TrimRight(satSeg, " "), d.Sats)

	ep := &rinex.Epoch{Time: d.Time, Flag: d.Flag, Sats: make([]rinex.SatObs, len(d.Sats))}

	if ep.Clock, err = e.decompressClock(block.Clock); err != nil {
		return nil, errs.AtEpoch(err, idx, SlotClock)
	}

	for i, id := range d.Sats {
		ep.Sats[i].ID = id
		if ep.Sats[i].Obs, err = e.decompressSat(id, &block.Sats[i]); err != nil {
			return nil, errs.AtEpoch(err, idx, id.String())
		}
	}

	e.primed = true
	e.epochs++

	return ep, nil
}

func (e *Engine) decompressClock(tok textcodec.Token) (*rinex.Decimal, error) {
	if tok.Blank {
		e.clock = nil
		return nil, nil
	}

	if e.clock == nil {
		buf, err := e.newClockBuffer()
		if err != nil {
			return nil, err
		}
		e.clock = buf
	}

	v, err := e.clock.Decode(tok)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (e *Engine) decompressSat(id rinex.SatID, rec *textcodec.SatRecord) ([]rinex.Observation, error) {
	n, err := e.NumTypes(id.System)
	if err != nil {
		return nil, err
	}
	if len(rec.Fields) != n {
		return nil, fmt.Errorf("%w: %d fields, %d types", errs.ErrMalformedDifference, len(rec.Fields), n)
	}
	if err := textcodec.ValidateFlags(rec.Flags, n); err != nil {
		return nil, err
	}

	fd, _, err := e.flags.GetOrCreate(id, e.newFlagDiff(n))
	if err != nil {
		return nil, err
	}
	flags := fd.Decompress(rec.Flags)

	legacy := e.cfg.Revision == format.RevisionLegacy
	obs := make([]rinex.Observation, n)
	for j, tok := range rec.Fields {
		key := SlotKey{Sat: id, Column: j}

		if tok.Blank {
			e.slots.Retire(key)
			obs[j] = rinex.Blank()
		} else {
			buf, _, err := e.slots.GetOrCreate(key, e.newObsBuffer)
			if err != nil {
				return nil, err
			}
			v, err := buf.Decode(tok)
			if err != nil {
				return nil, errs.AtEpoch(err, e.epochs, key.String())
			}
			obs[j] = rinex.Observation{Value: v, Valid: true}
		}

		obs[j].LLI = textcodec.FlagAt(flags, 2*j)
		obs[j].SSI = textcodec.FlagAt(flags, 2*j+1)
		if legacy && !obs[j].Valid {
			obs[j].LLI, obs[j].SSI = ' ', ' '
		}
	}

	return obs, nil
}
