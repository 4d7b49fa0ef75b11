package format

import (
	"fmt"
	"strings"
)

type (
	Revision  uint8
	Framing   uint8
	EpochFlag byte
)

const (
	RevisionAuto   Revision = 0x0 // RevisionAuto selects the revision from the RINEX header.
	RevisionLegacy Revision = 0x1 // RevisionLegacy is RINEX 2.x compacted as CRINEX 1.0.
	RevisionModern Revision = 0x3 // RevisionModern is RINEX 3.x/4.x compacted as CRINEX 3.0.

	FramingNone Framing = 0x1 // FramingNone represents plain text.
	FramingGzip Framing = 0x2 // FramingGzip represents a gzip member stream.
	FramingZstd Framing = 0x3 // FramingZstd represents a Zstandard frame stream.
	FramingS2   Framing = 0x4 // FramingS2 represents an S2 (snappy compatible) stream.
	FramingLZ4  Framing = 0x5 // FramingLZ4 represents an LZ4 frame stream.

	FlagOK           EpochFlag = '0' // FlagOK marks a normal epoch.
	FlagPowerFailure EpochFlag = '1' // FlagPowerFailure marks a normal epoch after a power failure.
	FlagMoving       EpochFlag = '2' // FlagMoving starts a moving antenna period.
	FlagOccupation   EpochFlag = '3' // FlagOccupation marks a new site occupation.
	FlagHeader       EpochFlag = '4' // FlagHeader is followed by header lines.
	FlagExternal     EpochFlag = '5' // FlagExternal marks an external event.
	FlagCycleSlip    EpochFlag = '6' // FlagCycleSlip is followed by cycle slip records.
)

func (r Revision) String() string {
	switch r {
	case RevisionAuto:
		return "auto"
	case RevisionLegacy:
		return "legacy"
	case RevisionModern:
		return "modern"
	default:
		return "Unknown"
	}
}

// CrinexVersion returns the CRINEX version string written for the revision.
func (r Revision) CrinexVersion() string {
	if r == RevisionLegacy {
		return "1.0"
	}

	return "3.0"
}

// ParseRevision parses "auto", "legacy", "modern", "1", "2", "3" or "4".
func ParseRevision(s string) (Revision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return RevisionAuto, nil
	case "legacy", "1", "2":
		return RevisionLegacy, nil
	case "modern", "3", "4":
		return RevisionModern, nil
	default:
		return RevisionAuto, fmt.Errorf("unknown revision %q", s)
	}
}

func (f Framing) String() string {
	switch f {
	case FramingNone:
		return "None"
	case FramingGzip:
		return "Gzip"
	case FramingZstd:
		return "Zstd"
	case FramingS2:
		return "S2"
	case FramingLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Extension returns the file suffix conventionally used for the framing.
func (f Framing) Extension() string {
	switch f {
	case FramingGzip:
		return ".gz"
	case FramingZstd:
		return ".zst"
	case FramingS2:
		return ".s2"
	case FramingLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseFraming parses a framing name such as "gzip" or "none".
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "plain":
		return FramingNone, nil
	case "gzip", "gz":
		return FramingGzip, nil
	case "zstd", "zst":
		return FramingZstd, nil
	case "s2", "snappy":
		return FramingS2, nil
	case "lz4":
		return FramingLZ4, nil
	default:
		return FramingNone, fmt.Errorf("unknown framing %q", s)
	}
}

// IsEvent reports whether the flag marks an epoch whose payload is opaque text.
func (f EpochFlag) IsEvent() bool {
	return f >= FlagMoving && f <= FlagCycleSlip
}

// IsValid reports whether the flag is one of the defined epoch flags.
func (f EpochFlag) IsValid() bool {
	return f >= FlagOK && f <= FlagCycleSlip
}
