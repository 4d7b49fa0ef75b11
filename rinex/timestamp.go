package rinex

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
)

// Timestamp widths, excluding the leading record marker column(s).
const (
	LegacyTimestampWidth = 25 // "yy mm dd hh mm ss.sssssss"
	ModernTimestampWidth = 27 // "yyyy mm dd hh mm ss.sssssss"
)

// Timestamp is the fixed-width epoch time text exactly as written in the file.
//
// Writers disagree on zero padding (" 0" versus "00" hours), so the text itself
// is kept and re-emitted unchanged. Use Time to interpret it.
type Timestamp string

// TimestampWidth returns the timestamp width used by the revision.
func TimestampWidth(rev format.Revision) int {
	if rev == format.RevisionLegacy {
		return LegacyTimestampWidth
	}

	return ModernTimestampWidth
}

// NewTimestamp formats t in the canonical layout of the revision.
func NewTimestamp(t time.Time, rev format.Revision) Timestamp {
	sec := float64(t.Second()) + float64(t.Nanosecond())/1e9
	if rev == format.RevisionLegacy {
		return Timestamp(fmt.Sprintf("%02d %2d %2d %2d %2d%11.7f",
			t.Year()%100, int(t.Month()), t.Day(), t.Hour(), t.Minute(), sec))
	}

	return Timestamp(fmt.Sprintf("%04d %02d %02d %02d %02d%11.7f",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), sec))
}

// Validate checks that the timestamp has the width of the revision.
func (ts Timestamp) Validate(rev format.Revision) error {
	if len(ts) != TimestampWidth(rev) {
		return fmt.Errorf("%w: timestamp %q is not %d columns", errs.ErrMalformedEpoch, string(ts), TimestampWidth(rev))
	}

	return nil
}

// IsBlank reports whether the timestamp carries no time, as allowed for some event epochs.
func (ts Timestamp) IsBlank() bool {
	return strings.TrimSpace(string(ts)) == ""
}

// Time interprets the timestamp as a UTC time. Two digit years map to 1980-2079.
func (ts Timestamp) Time() (time.Time, error) {
	fields := strings.Fields(string(ts))
	if len(fields) != 6 {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", errs.ErrMalformedEpoch, string(ts))
	}

	var parts [5]int
	for i := range parts {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: timestamp %q: %w", errs.ErrMalformedEpoch, string(ts), err)
		}
		parts[i] = v
	}

	sec, err := ParseDecimal(fields[5], 9)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %w", errs.ErrMalformedEpoch, string(ts), err)
	}

	year := parts[0]
	if len(fields[0]) <= 2 {
		if year < 80 {
			year += 2000
		} else {
			year += 1900
		}
	}

	return time.Date(year, time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, time.UTC).
		Add(time.Duration(sec.Units) * time.Nanosecond), nil
}
