package rinex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/crinex/errs"
)

// SatIDWidth is the column width of a satellite identifier.
const SatIDWidth = 3

// SatID identifies a satellite by constellation letter and PRN.
type SatID struct {
	// System is the constellation letter (G, R, E, C, J, S, I). A blank system
	// is legal in legacy files and is kept as ' '.
	System byte
	PRN    int
	// Spaced records a PRN below 10 written with a space ("G 1"), as legacy
	// writers do; it is rendered back the same way.
	Spaced bool
}

// ParseSatID parses a three column identifier such as "G01", "R 5" or " 12".
func ParseSatID(s string) (SatID, error) {
	if len(s) != SatIDWidth {
		return SatID{}, fmt.Errorf("%w: %q", errs.ErrInvalidSatID, s)
	}

	prn, err := strconv.Atoi(strings.TrimSpace(s[1:]))
	if err != nil || prn < 0 || prn > 99 {
		return SatID{}, fmt.Errorf("%w: %q", errs.ErrInvalidSatID, s)
	}

	return SatID{System: s[0], PRN: prn, Spaced: s[1] == ' ' && prn < 10}, nil
}

// String renders the identifier as constellation letter plus two digit PRN.
func (s SatID) String() string {
	return string(s.AppendTo(make([]byte, 0, SatIDWidth)))
}

// AppendTo appends the three column identifier to dst.
func (s SatID) AppendTo(dst []byte) []byte {
	sys := s.System
	if sys == 0 {
		sys = ' '
	}

	tens := byte('0' + s.PRN/10%10)
	if s.Spaced && tens == '0' {
		tens = ' '
	}

	return append(dst, sys, tens, byte('0'+s.PRN%10))
}
