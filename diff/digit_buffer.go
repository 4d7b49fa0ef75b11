package diff

import (
	"fmt"
	"strconv"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/textcodec"
)

const (
	// MaxOrder is the highest arc order the token syntax can express.
	MaxOrder = 9
	// LegacyMaxOrder is the ceiling hard-coded in the historical CRX2RNX tool.
	// Streams compressed above it are valid here but cannot be read by that tool.
	LegacyMaxOrder = 5
	// DefaultOrder is the compression order used when none is configured.
	DefaultOrder = 4
)

// DigitBuffer holds the differencing state of one numeric field.
//
// The state is the difference table of the last value: diffs[0] is the raw value
// and diffs[k] the k-th order difference, for k up to level. A new value raises
// the level by one until it reaches the arc order.
type DigitBuffer struct {
	order     int
	arc       int
	level     int
	places    uint8
	maxDigits int
	primed    bool
	diffs     [MaxOrder + 1]int64
}

// NewDigitBuffer creates an empty buffer.
//
// Parameters:
//   - order: arc order used by Encode, 0 for literal passthrough
//   - places: decimal places every value of this field must carry
//   - maxDigits: widest token or value text (sign included) the column accepts
//
// Returns:
//   - *DigitBuffer: buffer with no history
//   - error: ErrInvalidOrder if order is outside [0, MaxOrder]
func NewDigitBuffer(order int, places uint8, maxDigits int) (*DigitBuffer, error) {
	if order < 0 || order > MaxOrder {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", errs.ErrInvalidOrder, order, MaxOrder)
	}

	return &DigitBuffer{order: order, places: places, maxDigits: maxDigits}, nil
}

// Order returns the configured order: the arc order used by Encode and the
// highest arc order Decode accepts.
func (b *DigitBuffer) Order() int {
	return b.order
}

// ArcOrder returns the order of the current arc, -1 before the first value.
func (b *DigitBuffer) ArcOrder() int {
	if !b.primed {
		return -1
	}

	return b.arc
}

// Level returns the difference level of the last token, -1 before the first value.
func (b *DigitBuffer) Level() int {
	if !b.primed {
		return -1
	}

	return b.level
}

// Primed reports whether the buffer holds a value.
func (b *DigitBuffer) Primed() bool {
	return b.primed
}

// Reset discards the history so the next value starts a new arc.
func (b *DigitBuffer) Reset() {
	b.primed = false
	b.level = 0
	b.arc = 0
	b.diffs = [MaxOrder + 1]int64{}
}

// Encode pushes v and returns its token.
//
// The first value of an arc is returned as an initial token holding the raw
// units; later values return the difference at level min(n, order).
func (b *DigitBuffer) Encode(v rinex.Decimal) (textcodec.Token, error) {
	if v.Places != b.places {
		return textcodec.Token{}, fmt.Errorf("%w: value has %d places, field has %d", errs.ErrScaleMismatch, v.Places, b.places)
	}
	if err := b.checkWidth(v.Units); err != nil {
		return textcodec.Token{}, err
	}

	if !b.primed {
		b.diffs[0] = v.Units
		b.level = 0
		b.arc = b.order
		b.primed = true

		return textcodec.InitToken(b.order, v.Units), nil
	}

	level := min(b.level+1, b.arc)
	var next [MaxOrder + 1]int64
	next[0] = v.Units
	for k := 1; k <= level; k++ {
		next[k] = next[k-1] - b.diffs[k-1]
	}

	if err := b.checkWidth(next[level]); err != nil {
		return textcodec.Token{}, err
	}

	b.diffs = next
	b.level = level

	return textcodec.DiffToken(next[level]), nil
}

// Decode integrates tok and returns the reconstructed value.
//
// An initial token restarts the arc with its own order, which must not exceed
// the buffer's order. A differenced token with no history fails with
// ErrHistoryUnderflow.
func (b *DigitBuffer) Decode(tok textcodec.Token) (rinex.Decimal, error) {
	if tok.Blank {
		return rinex.Decimal{}, fmt.Errorf("%w: blank token", errs.ErrMalformedDifference)
	}

	if tok.Init {
		if tok.Order > b.order {
			return rinex.Decimal{}, fmt.Errorf("%w: arc order %d exceeds %d", errs.ErrMalformedDifference, tok.Order, b.order)
		}
		if err := b.checkWidth(tok.Value); err != nil {
			return rinex.Decimal{}, err
		}
		b.diffs = [MaxOrder + 1]int64{}
		b.diffs[0] = tok.Value
		b.level = 0
		b.arc = tok.Order
		b.primed = true

		return rinex.NewDecimal(tok.Value, b.places), nil
	}

	if !b.primed {
		return rinex.Decimal{}, errs.ErrHistoryUnderflow
	}
	if err := b.checkWidth(tok.Value); err != nil {
		return rinex.Decimal{}, err
	}

	level := min(b.level+1, b.arc)
	var next [MaxOrder + 1]int64
	next[level] = tok.Value
	for k := level - 1; k >= 0; k-- {
		next[k] = next[k+1] + b.diffs[k]
	}

	if err := b.checkWidth(next[0]); err != nil {
		return rinex.Decimal{}, err
	}

	b.diffs = next
	b.level = level

	return rinex.NewDecimal(next[0], b.places), nil
}

func (b *DigitBuffer) checkWidth(v int64) error {
	if b.maxDigits <= 0 {
		return nil
	}
	if n := len(strconv.FormatInt(v, 10)); n > b.maxDigits {
		return fmt.Errorf("%w: %d needs %d columns, field allows %d", errs.ErrColumnOverflow, v, n, b.maxDigits)
	}

	return nil
}
