package section

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
)

// CRINEX header labels and fixed fields.
const (
	LabelCrinexVersion = "CRINEX VERS   / TYPE"
	LabelCrinexProg    = "CRINEX PROG / DATE"
	CompactRinexType   = "COMPACT RINEX FORMAT"
	// DateLayout is the time layout of the CRINEX PROG / DATE line.
	DateLayout = "02-Jan-06 15:04"
	// CrinexLines is the number of lines CRINEX puts before the RINEX header.
	CrinexLines = 2

	fieldWidth = 20
)

var (
	legacyCrinex = version.MustConstraints(version.NewConstraint(">= 1.0, < 2.0"))
	modernCrinex = version.MustConstraints(version.NewConstraint(">= 3.0, < 4.0"))
	legacyRinex  = version.MustConstraints(version.NewConstraint(">= 2.0, < 3.0"))
	modernRinex  = version.MustConstraints(version.NewConstraint(">= 3.0, < 5.0"))
)

// CrinexHeader holds the two CRINEX specific header lines.
type CrinexHeader struct {
	// Version is the CRINEX format version as written, "1.0" or "3.0".
	Version  string
	Revision format.Revision
	// Program names the converter that wrote the file.
	Program string
	// Date is the conversion date as written, in DateLayout.
	Date string
}

// NewCrinexHeader creates the header lines a compressor emits.
//
// Parameters:
//   - rev: RevisionLegacy or RevisionModern
//   - program: converter name, truncated to 20 columns
//   - now: conversion time, rendered in UTC
//
// Returns:
//   - *CrinexHeader: header ready to be rendered with Lines
//   - error: ErrInvalidRevision for RevisionAuto or unknown values
func NewCrinexHeader(rev format.Revision, program string, now time.Time) (*CrinexHeader, error) {
	if rev != format.RevisionLegacy && rev != format.RevisionModern {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidRevision, rev)
	}

	return &CrinexHeader{
		Version:  rev.CrinexVersion(),
		Revision: rev,
		Program:  program,
		Date:     now.UTC().Format(DateLayout),
	}, nil
}

// Lines renders the two header lines.
func (h *CrinexHeader) Lines() []string {
	return []string{
		fmt.Sprintf("%-20.20s%-20.20s%-20s%s", h.Version, CompactRinexType, "", LabelCrinexVersion),
		fmt.Sprintf("%-20.20s%-20s%-20.20s%s", h.Program, "", h.Date, LabelCrinexProg),
	}
}

// Parse parses the first two lines of a CRINEX file.
func (h *CrinexHeader) Parse(lines []string) error {
	if len(lines) < CrinexLines {
		return fmt.Errorf("%w: %d lines, CRINEX header needs %d", errs.ErrMalformedHeader, len(lines), CrinexLines)
	}
	if rinex.Label(lines[0]) != LabelCrinexVersion {
		return fmt.Errorf("%w: first line is not %q: %q", errs.ErrMalformedHeader, LabelCrinexVersion, lines[0])
	}
	if rinex.Label(lines[1]) != LabelCrinexProg {
		return fmt.Errorf("%w: second line is not %q: %q", errs.ErrMalformedHeader, LabelCrinexProg, lines[1])
	}

	raw := strings.TrimSpace(field(lines[0], 0, fieldWidth))
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: CRINEX version %q: %w", errs.ErrMalformedHeader, raw, err)
	}

	switch {
	case legacyCrinex.Check(v):
		h.Revision = format.RevisionLegacy
	case modernCrinex.Check(v):
		h.Revision = format.RevisionModern
	default:
		return fmt.Errorf("%w: unsupported CRINEX version %s", errs.ErrMalformedHeader, raw)
	}

	h.Version = raw
	h.Program = strings.TrimSpace(field(lines[1], 0, fieldWidth))
	h.Date = strings.TrimSpace(field(lines[1], 2*fieldWidth, 3*fieldWidth))

	return nil
}

// Time parses Date. Writers that do not follow DateLayout yield an error.
func (h *CrinexHeader) Time() (time.Time, error) {
	return time.Parse(DateLayout, h.Date)
}

// ParseCrinexHeader parses the first two lines of a CRINEX file.
func ParseCrinexHeader(lines []string) (*CrinexHeader, error) {
	h := &CrinexHeader{}
	if err := h.Parse(lines); err != nil {
		return nil, err
	}

	return h, nil
}

// IsCrinexVersionLine reports whether line is a CRINEX VERS / TYPE line.
func IsCrinexVersionLine(line string) bool {
	return rinex.Label(line) == LabelCrinexVersion
}

// CheckCompatible verifies that the RINEX version inside a CRINEX file matches
// the CRINEX version: CRINEX 1.0 carries RINEX 2.x, CRINEX 3.0 RINEX 3.x/4.x.
func CheckCompatible(crx *CrinexHeader, rnx *rinex.Header) error {
	v, err := version.NewVersion(rnx.Version)
	if err != nil {
		return fmt.Errorf("%w: RINEX version %q: %w", errs.ErrMalformedHeader, rnx.Version, err)
	}

	ok := false
	switch crx.Revision {
	case format.RevisionLegacy:
		ok = legacyRinex.Check(v)
	case format.RevisionModern:
		ok = modernRinex.Check(v)
	}
	if !ok {
		return fmt.Errorf("%w: CRINEX %s cannot carry RINEX %s", errs.ErrMalformedHeader, crx.Version, rnx.Version)
	}

	return nil
}

func field(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}

	return line[start:min(end, len(line))]
}
