package engine

import (
	"fmt"
	"strconv"

	"github.com/arloliu/crinex/diff"
	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/internal/hash"
	"github.com/arloliu/crinex/internal/slot"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/textcodec"
)

// Slot names used in stream errors for the non-observable fields.
const (
	SlotDescriptor = "descriptor"
	SlotClock      = "clock"
)

// Config configures an Engine.
type Config struct {
	// Order is the arc order used when compressing, and the highest arc order
	// accepted when decompressing.
	Order int
	// Revision selects the CRINEX layout. RevisionAuto is not accepted.
	Revision format.Revision
	// TypeCounts maps a constellation letter to its number of observables.
	// Legacy streams use the single key rinex.AllSystems.
	TypeCounts map[byte]int
}

// SlotKey addresses the differencing state of one observable of one satellite.
type SlotKey struct {
	Sat rinex.SatID
	// Column is the zero-based observable index in header order.
	Column int
}

// String renders the key as "G01/3", with a one-based column.
func (k SlotKey) String() string {
	return k.Sat.String() + "/" + strconv.Itoa(k.Column+1)
}

// Block is one CRINEX epoch: the epoch line, the clock field and one data
// record per satellite in epoch order.
type Block struct {
	// Descriptor is the epoch line as written in CRINEX, either complete with
	// the init marker in column 0 or differenced against the previous epoch.
	Descriptor string
	Clock      textcodec.Token
	Sats       []textcodec.SatRecord
}

// Init reports whether the block's epoch line is complete rather than differenced.
func (b *Block) Init(rev format.Revision) bool {
	return b.Descriptor != "" && b.Descriptor[0] == textcodec.LayoutFor(rev).InitMarker
}

// Stats counts slot lifecycle events since the engine was created or reset.
type Stats struct {
	Epochs       int
	SlotsLive    int
	SlotsCreated int
	SlotsRetired int
}

// Engine is the difference engine of one stream.
//
// It owns a DigitBuffer per observable slot, a flag TextDiff per satellite, a
// clock DigitBuffer and three TextDiffs for the epoch line segments. Epochs
// must be fed strictly in stream order; there is no way back except Reset.
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg    Config
	layout textcodec.Layout

	timeDiff  *diff.TextDiff
	countDiff *diff.TextDiff
	satDiff   *diff.TextDiff
	primed    bool

	clock *diff.DigitBuffer
	slots *slot.Table[SlotKey, *diff.DigitBuffer]
	flags *slot.Table[rinex.SatID, *diff.TextDiff]

	satHash  uint64
	hashSeen bool
	epochs   int
}

// New creates an Engine.
//
// Parameters:
//   - cfg: order, revision and per-system observable counts
//
// Returns:
//   - *Engine: engine with no history
//   - error: ErrInvalidOrder or ErrInvalidRevision for an unusable config
func New(cfg Config) (*Engine, error) {
	if cfg.Order < 0 || cfg.Order > diff.MaxOrder {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", errs.ErrInvalidOrder, cfg.Order, diff.MaxOrder)
	}
	if cfg.Revision != format.RevisionLegacy && cfg.Revision != format.RevisionModern {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidRevision, cfg.Revision)
	}

	return &Engine{
		cfg:       cfg,
		layout:    textcodec.LayoutFor(cfg.Revision),
		timeDiff:  diff.NewTextDiff(""),
		countDiff: diff.NewTextDiff(""),
		satDiff:   diff.NewTextDiff(""),
		slots:     slot.NewTable[SlotKey, *diff.DigitBuffer](),
		flags:     slot.NewTable[rinex.SatID, *diff.TextDiff](),
	}, nil
}

// Reset discards all history.
func (e *Engine) Reset() {
	e.timeDiff.Reset("")
	e.countDiff.Reset("")
	e.satDiff.Reset("")
	e.primed = false
	e.clock = nil
	e.slots.Reset()
	e.flags.Reset()
	e.hashSeen = false
	e.epochs = 0
}

// Epochs returns the number of normal epochs processed.
func (e *Engine) Epochs() int {
	return e.epochs
}

// Primed reports whether a normal epoch has been processed, i.e. whether a
// differenced epoch line can be resolved.
func (e *Engine) Primed() bool {
	return e.primed
}

// Stats returns slot lifecycle counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Epochs:       e.epochs,
		SlotsLive:    e.slots.Len(),
		SlotsCreated: e.slots.Created(),
		SlotsRetired: e.slots.Retired(),
	}
}

// Slot returns the live buffer of key, if any.
func (e *Engine) Slot(key SlotKey) (*diff.DigitBuffer, bool) {
	return e.slots.Get(key)
}

// NumTypes returns the number of observables recorded for a satellite system.
func (e *Engine) NumTypes(sys byte) (int, error) {
	key := sys
	if e.cfg.Revision == format.RevisionLegacy {
		key = rinex.AllSystems
	}

	n, ok := e.cfg.TypeCounts[key]
	if !ok || n <= 0 {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownSystem, sys)
	}

	return n, nil
}

// UpdateTypes changes the observable counts of the systems in counts, as a
// header event may. Satellites of a system whose count changed lose their
// slots and flag state and are re-initialised on their next epoch.
func (e *Engine) UpdateTypes(counts map[byte]int) {
	next := make(map[byte]int, len(e.cfg.TypeCounts)+len(counts))
	for sys, n := range e.cfg.TypeCounts {
		next[sys] = n
	}

	changed := make(map[byte]bool, len(counts))
	for sys, n := range counts {
		if next[sys] != n {
			changed[sys] = true
		}
		next[sys] = n
	}
	e.cfg.TypeCounts = next

	if len(changed) == 0 {
		return
	}

	affected := func(id rinex.SatID) bool {
		if e.cfg.Revision == format.RevisionLegacy {
			return changed[rinex.AllSystems]
		}

		return changed[id.System]
	}
	e.slots.RetireUnless(func(k SlotKey) bool { return !affected(k.Sat) })
	e.flags.RetireUnless(func(id rinex.SatID) bool { return !affected(id) })
}

// retireAbsent drops the state of satellites missing from sats. The sweep is
// skipped when the rendered list is unchanged.
func (e *Engine) retireAbsent(satSeg string, sats []rinex.SatID) {
	h := hash.SatList(satSeg)
	if e.hashSeen && h == e.satHash {
		return
	}
	e.satHash, e.hashSeen = h, true

	present := make(map[rinex.SatID]struct{}, len(sats))
	for _, id := range sats {
		present[id] = struct{}{}
	}

	e.slots.RetireUnless(func(k SlotKey) bool {
		_, ok := present[k.Sat]
		return ok
	})
	e.flags.RetireUnless(func(id rinex.SatID) bool {
		_, ok := present[id]
		return ok
	})
}

func (e *Engine) newObsBuffer() (*diff.DigitBuffer, error) {
	return diff.NewDigitBuffer(e.cfg.Order, rinex.ObservationPlaces, textcodec.MaxDigits(textcodec.ObservationWidth))
}

func (e *Engine) newClockBuffer() (*diff.DigitBuffer, error) {
	return diff.NewDigitBuffer(e.cfg.Order, textcodec.ClockPlaces(e.cfg.Revision),
		textcodec.MaxDigits(textcodec.ClockWidth(e.cfg.Revision)))
}

// newFlagDiff returns the flag state of a satellite entering the stream.
// CRINEX 1 starts from blank flags, CRINEX 3 from an empty string.
func (e *Engine) newFlagDiff(ntypes int) func() (*diff.TextDiff, error) {
	return func() (*diff.TextDiff, error) {
		if e.cfg.Revision == format.RevisionLegacy {
			return diff.NewTextDiff(blanks(2 * ntypes)), nil
		}

		return diff.NewTextDiff(""), nil
	}
}

func checkDuplicates(sats []rinex.SatID) error {
	seen := make(map[rinex.SatID]struct{}, len(sats))
	for _, id := range sats {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: satellite %s listed twice", errs.ErrMalformedEpoch, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

func blanks(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}

	return string(b)
}

func flagChar(c byte) byte {
	if c == 0 {
		return ' '
	}

	return c
}
