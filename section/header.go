package section

import (
	"fmt"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/rinex"
)

// Header is the complete header section of a CRINEX file.
type Header struct {
	Crinex *CrinexHeader
	Rinex  *rinex.Header
}

// Lines returns every header line in file order.
func (h *Header) Lines() []string {
	crx := h.Crinex.Lines()
	lines := make([]string, 0, len(crx)+len(h.Rinex.Lines))
	lines = append(lines, crx...)

	return append(lines, h.Rinex.Lines...)
}

// ParseHeader parses a CRINEX header section.
//
// Parameters:
//   - lines: the CRINEX lines followed by the RINEX header, END OF HEADER included
//
// Returns:
//   - *Header: parsed header
//   - error: ErrMalformedHeader if either part is invalid or the versions disagree
func ParseHeader(lines []string) (*Header, error) {
	crx, err := ParseCrinexHeader(lines)
	if err != nil {
		return nil, err
	}

	rnx, err := rinex.ParseHeader(lines[CrinexLines:])
	if err != nil {
		return nil, err
	}

	if err := CheckCompatible(crx, rnx); err != nil {
		return nil, err
	}

	return &Header{Crinex: crx, Rinex: rnx}, nil
}

// Wrap builds the CRINEX header section around a RINEX header.
func Wrap(rnx *rinex.Header, crx *CrinexHeader) (*Header, error) {
	if rnx.Revision != crx.Revision {
		return nil, fmt.Errorf("%w: RINEX %s needs %s, got CRINEX %s",
			errs.ErrMalformedHeader, rnx.Version, rnx.Revision.CrinexVersion(), crx.Version)
	}

	return &Header{Crinex: crx, Rinex: rnx}, nil
}
