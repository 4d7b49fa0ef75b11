package engine

import (
	"fmt"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/textcodec"
)

// CompressEpoch differences a normal epoch against the stream history.
//
// Slots are created on first use and retired when their satellite leaves the
// epoch or their field turns blank. The first epoch of a stream is emitted
// with a complete epoch line; later ones are differenced.
//
// Parameters:
//   - ep: normal epoch (flag 0 or 1) with observables in header order
//
// Returns:
//   - *Block: tokens of the epoch
//   - error: a *errs.StreamError carrying the epoch index and slot
func (e *Engine) CompressEpoch(ep *rinex.Epoch) (*Block, error) {
	idx := e.epochs
	if ep.Flag.IsEvent() || !ep.Flag.IsValid() {
		return nil, errs.AtEpoch(fmt.Errorf("%w: flag %q is not a normal epoch", errs.ErrMalformedEpoch, byte(ep.Flag)), idx, SlotDescriptor)
	}

	ids := ep.SatIDs()
	if err := checkDuplicates(ids); err != nil {
		return nil, errs.AtEpoch(err, idx, SlotDescriptor)
	}

	d := &textcodec.Descriptor{Time: ep.Time, Flag: ep.Flag, Count: len(ids), Sats: ids}
	timeSeg, countSeg, satSeg, err := e.layout.Segments(d)
	if err != nil {
		return nil, errs.AtEpoch(err, idx, SlotDescriptor)
	}

	block := &Block{Sats: make([]textcodec.SatRecord, 0, len(ep.Sats))}
	if !e.primed {
		e.timeDiff.Reset(timeSeg)
		e.countDiff.Reset(countSeg)
		e.satDiff.Reset(satSeg)
		block.Descriptor = string(e.layout.InitMarker) + (timeSeg + countSeg + satSeg)[1:]
	} else {
		line := e.timeDiff.AppendCompress(nil, timeSeg)
		line = e.countDiff.AppendCompress(line, countSeg)
		line = append(line, e.satDiff.Compress(satSeg)...)
		block.Descriptor = string(trimRight(line))
	}

	e.retireAbsent(satSeg, ids)

	if block.Clock, err = e.compressClock(ep.Clock); err != nil {
		return nil, errs.AtEpoch(err, idx, SlotClock)
	}

	for i := range ep.Sats {
		rec, err := e.compressSat(&ep.Sats[i])
		if err != nil {
			return nil, errs.AtEpoch(err, idx, ep.Sats[i].ID.String())
		}
		block.Sats = append(block.Sats, rec)
	}

	e.primed = true
	e.epochs++

	return block, nil
}

func (e *Engine) compressClock(clock *rinex.Decimal) (textcodec.Token, error) {
	if clock == nil {
		e.clock = nil
		return textcodec.BlankToken(), nil
	}

	if e.clock == nil {
		buf, err := e.newClockBuffer()
		if err != nil {
			return textcodec.Token{}, err
		}
		e.clock = buf
	}

	return e.clock.Encode(*clock)
}

func (e *Engine) compressSat(sat *rinex.SatObs) (textcodec.SatRecord, error) {
	n, err := e.NumTypes(sat.ID.System)
	if err != nil {
		return textcodec.SatRecord{}, err
	}
	if len(sat.Obs) > n {
		return textcodec.SatRecord{}, fmt.Errorf("%w: %d values, %d types", errs.ErrTooManyValues, len(sat.Obs), n)
	}

	legacy := e.cfg.Revision == format.RevisionLegacy
	rec := textcodec.SatRecord{Fields: make([]textcodec.Token, n)}
	flags := make([]byte, 0, 2*n)

	for j := 0; j < n; j++ {
		o := rinex.Blank()
		if j < len(sat.Obs) {
			o = sat.Obs[j]
		}
		key := SlotKey{Sat: sat.ID, Column: j}

		if !o.Valid {
			e.slots.Retire(key)
			rec.Fields[j] = textcodec.BlankToken()
			if legacy {
				o.LLI, o.SSI = ' ', ' '
			}
		} else {
			buf, _, err := e.slots.GetOrCreate(key, e.newObsBuffer)
			if err != nil {
				return textcodec.SatRecord{}, err
			}
			tok, err := buf.Encode(o.Value)
			if err != nil {
				return textcodec.SatRecord{}, errs.AtEpoch(err, e.epochs, key.String())
			}
			rec.Fields[j] = tok
		}

		flags = append(flags, flagChar(o.LLI), flagChar(o.SSI))
	}

	fd, _, err := e.flags.GetOrCreate(sat.ID, e.newFlagDiff(n))
	if err != nil {
		return textcodec.SatRecord{}, err
	}
	rec.Flags = fd.Compress(string(flags))

	return rec, nil
}

func trimRight(b []byte) []byte {
	n := len(b)
	for n > 0 && b[n-1] == ' ' {
		n--
	}

	return b[:n]
}
