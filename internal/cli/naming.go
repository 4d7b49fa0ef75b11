package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arloliu/crinex/format"
)

// Direction is the conversion a tool performs.
type Direction uint8

const (
	// ToCrinex converts RINEX to CRINEX.
	ToCrinex Direction = iota + 1
	// ToRinex converts CRINEX back to RINEX.
	ToRinex
)

func (d Direction) String() string {
	switch d {
	case ToCrinex:
		return "rnx2crx"
	case ToRinex:
		return "crx2rnx"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

var framingSuffixes = []format.Framing{
	format.FramingGzip,
	format.FramingZstd,
	format.FramingS2,
	format.FramingLZ4,
}

// SplitFraming removes a compression suffix from name. The framing is
// FramingNone when name has none.
func SplitFraming(name string) (string, format.Framing) {
	lower := strings.ToLower(name)
	for _, f := range framingSuffixes {
		if ext := f.Extension(); strings.HasSuffix(lower, ext) && len(name) > len(ext) {
			return name[:len(name)-len(ext)], f
		}
	}

	return name, format.FramingNone
}

// OutputName derives the converted file name of in.
//
// Short names swap the type letter of the yy? suffix (o and d), long names
// swap rnx and crx. The case of the input is kept. The compression suffix of
// in, if any, is replaced by the extension of framing.
//
// Example:
//
//	OutputName("ABMF00GLP_R_20241230000_01D_30S_MO.rnx.gz", ToCrinex, format.FramingGzip)
//	// "ABMF00GLP_R_20241230000_01D_30S_MO.crx.gz"
//	OutputName("abmf3650.24D", ToRinex, format.FramingNone)
//	// "abmf3650.24O"
func OutputName(in string, dir Direction, framing format.Framing) (string, error) {
	base, _ := SplitFraming(in)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]

	from, to := "rnx", "crx"
	typeFrom, typeTo := byte('o'), byte('d')
	if dir == ToRinex {
		from, to = to, from
		typeFrom, typeTo = typeTo, typeFrom
	}

	var out string
	switch {
	case len(ext) == 4 && strings.EqualFold(ext[1:], from):
		out = stem + "." + matchCase(to, ext[1:])
	case len(ext) == 4 && isDigit(ext[1]) && isDigit(ext[2]) && lowerByte(ext[3]) == typeFrom:
		c := typeTo
		if ext[3] != typeFrom {
			c -= 'a' - 'A'
		}
		out = stem + ext[:3] + string(c)
	default:
		return "", fmt.Errorf("cannot derive the %s output name of %q", dir, in)
	}

	return out + framing.Extension(), nil
}

func matchCase(s, like string) string {
	if strings.ToUpper(like) == like {
		return strings.ToUpper(s)
	}

	return s
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}

	return c
}
