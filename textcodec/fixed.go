package textcodec

import (
	"fmt"
	"strconv"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
)

// Fixed-point field widths.
const (
	ObservationWidth = 14 // F14.3
	LegacyClockWidth = 12 // F12.9
	ModernClockWidth = 15 // F15.12
)

// MaxDigits returns the widest signed digit string a fixed field of width
// columns can hold: one column is taken by the decimal point.
func MaxDigits(width int) int {
	return width - 1
}

// ClockPlaces returns the decimal places of the receiver clock field.
func ClockPlaces(rev format.Revision) uint8 {
	if rev == format.RevisionLegacy {
		return rinex.LegacyClockPlaces
	}

	return rinex.ModernClockPlaces
}

// ClockWidth returns the column width of the receiver clock field.
func ClockWidth(rev format.Revision) int {
	if rev == format.RevisionLegacy {
		return LegacyClockWidth
	}

	return ModernClockWidth
}

// AppendFixed appends d right-aligned in width columns.
//
// The layout follows CRX2RNX: the integer part is omitted when it is zero, so
// 0.123 is written ".123" and -0.123 "-.123".
func AppendFixed(dst []byte, d rinex.Decimal, width int) ([]byte, error) {
	var tmp [32]byte
	s := tmp[:0]

	mag := uint64(d.Units)
	if d.Units < 0 {
		mag = uint64(-d.Units)
		s = append(s, '-')
	}

	pow := uint64(1)
	for i := uint8(0); i < d.Places; i++ {
		pow *= 10
	}

	if ip := mag / pow; ip != 0 {
		s = strconv.AppendUint(s, ip, 10)
	}
	s = append(s, '.')
	if d.Places > 0 {
		frac := strconv.AppendUint(nil, mag%pow, 10)
		for i := len(frac); i < int(d.Places); i++ {
			s = append(s, '0')
		}
		s = append(s, frac...)
	}

	if len(s) > width {
		return dst, fmt.Errorf("%w: %s does not fit %d columns", errs.ErrColumnOverflow, d.String(), width)
	}

	for i := len(s); i < width; i++ {
		dst = append(dst, ' ')
	}

	return append(dst, s...), nil
}

// ParseFixed parses a fixed-point field. A blank field returns ok == false.
func ParseFixed(field string, places uint8) (d rinex.Decimal, ok bool, err error) {
	blank := true
	for i := 0; i < len(field); i++ {
		if field[i] != ' ' {
			blank = false
			break
		}
	}
	if blank {
		return rinex.Decimal{}, false, nil
	}

	d, err = rinex.ParseDecimal(field, places)
	if err != nil {
		return rinex.Decimal{}, false, err
	}

	return d, true, nil
}
