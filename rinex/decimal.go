package rinex

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Standard decimal places of RINEX fixed-point fields.
const (
	ObservationPlaces uint8 = 3  // F14.3
	LegacyClockPlaces uint8 = 9  // F12.9
	ModernClockPlaces uint8 = 12 // F15.12
	maxDecimalPlaces  uint8 = 18
)

// Decimal is an exact fixed-point number: Units * 10^-Places.
//
// The differencing arithmetic runs on Units only, so two decimals can only be
// combined when their Places agree.
type Decimal struct {
	Units  int64
	Places uint8
}

// NewDecimal returns the decimal units * 10^-places.
func NewDecimal(units int64, places uint8) Decimal {
	return Decimal{Units: units, Places: places}
}

// ParseDecimal parses s as a decimal scaled to exactly places fractional digits.
//
// Inputs with fewer fractional digits are scaled up ("1.5" with 3 places is 1500
// units). Inputs with more significant fractional digits than places are rejected
// rather than rounded.
func ParseDecimal(s string, places uint8) (Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Decimal{}, fmt.Errorf("parse decimal: empty field")
	}
	if places > maxDecimalPlaces {
		return Decimal{}, fmt.Errorf("parse decimal %q: %d places not supported", s, places)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}

	scaled := d.Shift(int32(places))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Decimal{}, fmt.Errorf("parse decimal %q: more than %d fractional digits", s, places)
	}

	bi := scaled.BigInt()
	if !bi.IsInt64() {
		return Decimal{}, fmt.Errorf("parse decimal %q: out of range", s)
	}

	return Decimal{Units: bi.Int64(), Places: places}, nil
}

// MustParseDecimal is like ParseDecimal but panics on error. Intended for tests
// and constant tables.
func MustParseDecimal(s string, places uint8) Decimal {
	d, err := ParseDecimal(s, places)
	if err != nil {
		panic(err)
	}

	return d
}

// String returns the canonical representation with exactly Places fractional digits.
func (d Decimal) String() string {
	return decimal.New(d.Units, -int32(d.Places)).StringFixed(int32(d.Places))
}

// Float64 returns the nearest float64 to d.
func (d Decimal) Float64() float64 {
	f, _ := decimal.New(d.Units, -int32(d.Places)).Float64()
	return f
}

// Rescale returns d expressed with the given number of places. It fails when
// digits would be lost.
func (d Decimal) Rescale(places uint8) (Decimal, error) {
	if places == d.Places {
		return d, nil
	}

	return ParseDecimal(d.String(), places)
}
