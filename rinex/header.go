package rinex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
)

// Header labels understood by the codec. All other labels pass through untouched.
const (
	LabelVersion      = "RINEX VERSION / TYPE"
	LabelLegacyTypes  = "# / TYPES OF OBSERV"
	LabelModernTypes  = "SYS / # / OBS TYPES"
	LabelEndOfHeader  = "END OF HEADER"
	legacyTypesInLine = 9
	modernTypesInLine = 13
)

// AllSystems is the ObsTypes key of the shared legacy observable list.
const AllSystems byte = 0

// Header is a RINEX observation header.
//
// Lines holds every header line verbatim, END OF HEADER included; the parsed
// fields are views on those lines and never rewritten.
type Header struct {
	Lines    []string
	Version  string
	Revision format.Revision
	// ObsTypes maps a constellation letter to its observable codes. Legacy files
	// use the single key AllSystems.
	ObsTypes map[byte][]string
}

// Label returns the header label of line (columns 61-80), trimmed.
func Label(line string) string {
	if len(line) <= labelColumn {
		return ""
	}

	return strings.TrimSpace(line[labelColumn:])
}

// ParseHeader parses the RINEX header lines.
//
// Parameters:
//   - lines: header lines up to and including END OF HEADER
//
// Returns:
//   - *Header: parsed header keeping lines verbatim
//   - error: ErrMalformedHeader if the version or observable declarations are invalid
func ParseHeader(lines []string) (*Header, error) {
	h := &Header{Lines: lines, ObsTypes: make(map[byte][]string)}

	var (
		types       = typeScanner{types: h.ObsTypes}
		seenVersion bool
	)

	for i, line := range lines {
		if Label(line) == LabelVersion {
			if err := h.parseVersion(line); err != nil {
				return nil, fmt.Errorf("header line %d: %w", i+1, err)
			}
			seenVersion = true

			continue
		}
		if err := types.scan(line); err != nil {
			return nil, fmt.Errorf("%w: header line %d: %w", errs.ErrMalformedHeader, i+1, err)
		}
	}

	if !seenVersion {
		return nil, fmt.Errorf("%w: missing %s", errs.ErrMalformedHeader, LabelVersion)
	}
	if len(lines) == 0 || Label(lines[len(lines)-1]) != LabelEndOfHeader {
		return nil, fmt.Errorf("%w: missing %s", errs.ErrMalformedHeader, LabelEndOfHeader)
	}
	for sys, types := range h.ObsTypes {
		if len(types) == 0 {
			return nil, fmt.Errorf("%w: system %q declares no observables", errs.ErrMalformedHeader, sys)
		}
	}

	return h, nil
}

func (h *Header) parseVersion(line string) error {
	raw := strings.TrimSpace(field(line, 0, 9))
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: version %q: %w", errs.ErrMalformedHeader, raw, err)
	}

	h.Version = raw
	switch major := v.Segments()[0]; major {
	case 2:
		h.Revision = format.RevisionLegacy
	case 3, 4:
		h.Revision = format.RevisionModern
	default:
		return fmt.Errorf("%w: unsupported RINEX version %s", errs.ErrMalformedHeader, raw)
	}

	return nil
}

// NumTypes returns the number of observables recorded for a satellite system.
func (h *Header) NumTypes(sys byte) (int, error) {
	key := sys
	if h.Revision == format.RevisionLegacy {
		key = AllSystems
	}

	types, ok := h.ObsTypes[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownSystem, sys)
	}

	return len(types), nil
}

// TypeCounts returns the observable count per ObsTypes key.
func (h *Header) TypeCounts() map[byte]int {
	counts := make(map[byte]int, len(h.ObsTypes))
	for sys, types := range h.ObsTypes {
		counts[sys] = len(types)
	}

	return counts
}

// ParseTypeUpdates returns the observable declarations found in lines, which
// are the payload of a header event (flag 4). Systems not declared there keep
// their types; legacy declarations use the key AllSystems.
func ParseTypeUpdates(lines []string) (map[byte][]string, error) {
	types := typeScanner{types: make(map[byte][]string)}
	for i, line := range lines {
		if err := types.scan(line); err != nil {
			return nil, fmt.Errorf("%w: payload line %d: %w", errs.ErrUnexpectedEventPayload, i+1, err)
		}
	}

	return types.types, nil
}

// Apply replaces the observable types of every system present in updates.
func (h *Header) Apply(updates map[byte][]string) {
	for sys, types := range updates {
		h.ObsTypes[sys] = types
	}
}

// typeScanner collects observable declarations, which may continue over
// several lines.
type typeScanner struct {
	types map[byte][]string
	sys   byte
	count int
}

func (s *typeScanner) scan(line string) error {
	switch Label(line) {
	case LabelLegacyTypes:
		if head := strings.TrimSpace(field(line, 0, 6)); head != "" {
			n, err := strconv.Atoi(head)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid observable count %q", head)
			}
			s.sys, s.count = AllSystems, n
			s.types[s.sys] = nil
		}
		s.types[s.sys] = appendTypes(s.types[s.sys], line, 6, 6, legacyTypesInLine, s.count)
	case LabelModernTypes:
		if line[0] != ' ' {
			head := strings.TrimSpace(field(line, 3, 6))
			n, err := strconv.Atoi(head)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid observable count %q", head)
			}
			s.sys, s.count = line[0], n
			s.types[s.sys] = nil
		}
		s.types[s.sys] = appendTypes(s.types[s.sys], line, 7, 4, modernTypesInLine, s.count)
	}

	return nil
}

func appendTypes(dst []string, line string, start, width, perLine, limit int) []string {
	for i := 0; i < perLine && len(dst) < limit; i++ {
		code := strings.TrimSpace(field(line, start+i*width, start+(i+1)*width))
		if code == "" {
			break
		}
		dst = append(dst, code)
	}

	return dst
}

// field returns line[start:end] clipped to the line length.
func field(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}

	return line[start:end]
}
