package textcodec

import (
	"fmt"
	"strconv"

	"github.com/arloliu/crinex/errs"
)

// InitMarker separates the arc order from the raw value of an initial token.
const InitMarker = '&'

// Token is one numeric field of a CRINEX record.
//
// An initial token ("3&20832393682") starts a new arc: Order is the differencing
// order of the arc and Value the raw scaled value. A differenced token ("1500")
// carries the difference at the current level. A blank token is an empty field.
type Token struct {
	Blank bool
	Init  bool
	Order int
	Value int64
}

// BlankToken returns an empty field.
func BlankToken() Token {
	return Token{Blank: true}
}

// InitToken returns an arc-initialising token.
func InitToken(order int, value int64) Token {
	return Token{Init: true, Order: order, Value: value}
}

// DiffToken returns a differenced token.
func DiffToken(value int64) Token {
	return Token{Value: value}
}

// Digits returns the signed decimal digits of the value, without the arc prefix.
func (t Token) Digits() string {
	if t.Blank {
		return ""
	}

	return strconv.FormatInt(t.Value, 10)
}

// String returns the token text as written in a CRINEX record.
func (t Token) String() string {
	return string(t.AppendTo(nil))
}

// AppendTo appends the token text to dst.
func (t Token) AppendTo(dst []byte) []byte {
	if t.Blank {
		return dst
	}
	if t.Init {
		dst = strconv.AppendInt(dst, int64(t.Order), 10)
		dst = append(dst, InitMarker)
	}

	return strconv.AppendInt(dst, t.Value, 10)
}

// ParseToken parses a CRINEX numeric field. An empty string is a blank token.
func ParseToken(s string) (Token, error) {
	if s == "" {
		return BlankToken(), nil
	}

	tok := Token{}
	digits := s
	if len(s) >= 2 && s[1] == InitMarker {
		if s[0] < '0' || s[0] > '9' {
			return Token{}, fmt.Errorf("%w: %q: bad arc order", errs.ErrMalformedDifference, s)
		}
		tok.Init = true
		tok.Order = int(s[0] - '0')
		digits = s[2:]
	}

	if !isSignedDigits(digits) {
		return Token{}, fmt.Errorf("%w: %q", errs.ErrMalformedDifference, s)
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %q: %w", errs.ErrMalformedDifference, s, err)
	}
	tok.Value = v

	return tok, nil
}

func isSignedDigits(s string) bool {
	if s != "" && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
