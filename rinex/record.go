package rinex

import (
	"fmt"

	"github.com/arloliu/crinex/format"
)

// Kind identifies the concrete type of a Record.
type Kind uint8

const (
	KindEpoch   Kind = 0x1 // KindEpoch is a normal observation epoch.
	KindEvent   Kind = 0x2 // KindEvent is an event epoch with opaque payload.
	KindComment Kind = 0x3 // KindComment is a COMMENT line between epochs.
)

func (k Kind) String() string {
	switch k {
	case KindEpoch:
		return "Epoch"
	case KindEvent:
		return "Event"
	case KindComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Record is one item of an observation stream: *Epoch, *Event or *Comment.
type Record interface {
	Kind() Kind
}

// Observation is one observable column of one satellite.
type Observation struct {
	Value Decimal
	// Valid is false for a blank field.
	Valid bool
	// LLI is the loss of lock indicator, ' ' when absent.
	LLI byte
	// SSI is the signal strength indicator, ' ' when absent.
	SSI byte
}

// Obs returns a valid observation with blank indicators.
func Obs(units int64) Observation {
	return Observation{Value: NewDecimal(units, ObservationPlaces), Valid: true, LLI: ' ', SSI: ' '}
}

// Blank returns an empty observation field.
func Blank() Observation {
	return Observation{LLI: ' ', SSI: ' '}
}

// SatObs holds the observations of one satellite in header column order.
type SatObs struct {
	ID  SatID
	Obs []Observation
}

// Epoch is a normal observation epoch (flag 0 or 1).
type Epoch struct {
	Time Timestamp
	Flag format.EpochFlag
	// Clock is the receiver clock offset, nil when absent.
	Clock *Decimal
	Sats  []SatObs
}

// Kind implements Record.
func (*Epoch) Kind() Kind { return KindEpoch }

// SatIDs returns the satellite list in epoch order.
func (e *Epoch) SatIDs() []SatID {
	ids := make([]SatID, len(e.Sats))
	for i := range e.Sats {
		ids[i] = e.Sats[i].ID
	}

	return ids
}

// Event is an epoch with flag 2-6. Its lines are carried verbatim.
type Event struct {
	Flag format.EpochFlag
	// Line is the epoch line as it appears in RINEX.
	Line string
	// Payload holds the lines following the epoch line.
	Payload []string
}

// Kind implements Record.
func (*Event) Kind() Kind { return KindEvent }

// Comment is a header-style COMMENT line found in the body.
type Comment struct {
	Text string
}

// Kind implements Record.
func (*Comment) Kind() Kind { return KindComment }

// CommentLabel is the header label that marks a comment line.
const CommentLabel = "COMMENT"

// labelColumn is the first column of a header label.
const labelColumn = 60

// NewComment builds a comment line carrying text in its first 60 columns.
func NewComment(text string) *Comment {
	return &Comment{Text: fmt.Sprintf("%-60.60s%s", text, CommentLabel)}
}

// IsCommentLine reports whether line carries the COMMENT label at column 60.
func IsCommentLine(line string) bool {
	return len(line) >= labelColumn+len(CommentLabel) &&
		line[labelColumn:labelColumn+len(CommentLabel)] == CommentLabel
}
