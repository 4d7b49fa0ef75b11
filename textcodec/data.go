package textcodec

import (
	"fmt"
	"strings"

	"github.com/arloliu/crinex/errs"
)

// SatRecord is the content of one CRINEX satellite data line: one token per
// observable followed by the difference of the LLI/SSI flag string.
type SatRecord struct {
	Fields []Token
	Flags  string
}

// AppendDataLine appends the data line of rec to dst.
//
// Each field is written followed by one space, so a blank field is a single
// space. The flag difference follows the last separator and trailing spaces
// are removed.
func AppendDataLine(dst []byte, rec SatRecord) []byte {
	start := len(dst)
	for _, tok := range rec.Fields {
		dst = tok.AppendTo(dst)
		dst = append(dst, ' ')
	}
	dst = append(dst, rec.Flags...)

	return trimRight(dst, start)
}

// ParseDataLine splits a data line into ntypes tokens and the flag difference.
// Fields missing at the end of a trimmed line are blank.
func ParseDataLine(line string, ntypes int) (SatRecord, error) {
	rec := SatRecord{Fields: make([]Token, ntypes)}

	pos := 0
	for j := 0; j < ntypes; j++ {
		if pos >= len(line) {
			rec.Fields[j] = BlankToken()
			continue
		}
		if line[pos] == ' ' {
			rec.Fields[j] = BlankToken()
			pos++

			continue
		}

		end := strings.IndexByte(line[pos:], ' ')
		if end < 0 {
			end = len(line)
		} else {
			end += pos
		}

		tok, err := ParseToken(line[pos:end])
		if err != nil {
			return SatRecord{}, fmt.Errorf("field %d: %w", j+1, err)
		}
		rec.Fields[j] = tok
		pos = end + 1
	}

	if pos < len(line) {
		rec.Flags = line[pos:]
	}

	return rec, nil
}

// AppendClockLine appends the clock line for tok. A blank token is an empty line.
func AppendClockLine(dst []byte, tok Token) []byte {
	return tok.AppendTo(dst)
}

// ParseClockLine parses a clock line.
func ParseClockLine(line string) (Token, error) {
	tok, err := ParseToken(strings.TrimSpace(line))
	if err != nil {
		return Token{}, fmt.Errorf("clock: %w", err)
	}

	return tok, nil
}

// FlagAt returns the flag character at column i of flags, ' ' beyond its end.
func FlagAt(flags string, i int) byte {
	if i >= len(flags) {
		return ' '
	}

	return flags[i]
}

// ValidateFlags rejects flag strings longer than two columns per observable.
func ValidateFlags(flags string, ntypes int) error {
	if len(strings.TrimRight(flags, " ")) > 2*ntypes {
		return fmt.Errorf("%w: %d flag columns for %d observables", errs.ErrMalformedDifference, len(flags), ntypes)
	}

	return nil
}

func trimRight(b []byte, start int) []byte {
	n := len(b)
	for n > start && b[n-1] == ' ' {
		n--
	}

	return b[:n]
}
