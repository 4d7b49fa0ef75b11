package crinex

import (
	"fmt"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
)

// State is the position of a stream in the epoch state machine.
type State uint8

const (
	// AwaitingFirstEpoch is the initial state: no record seen yet.
	AwaitingFirstEpoch State = iota
	// Normal follows an observation epoch.
	Normal
	// Event follows an event epoch; its payload bypasses the engine.
	Event
	// CommentPassthrough is entered for a comment line and left by Resume.
	CommentPassthrough
)

func (s State) String() string {
	switch s {
	case AwaitingFirstEpoch:
		return "AwaitingFirstEpoch"
	case Normal:
		return "Normal"
	case Event:
		return "Event"
	case CommentPassthrough:
		return "CommentPassthrough"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Route tells the caller where an epoch goes.
type Route uint8

const (
	// RouteEngine sends the epoch through the difference engine.
	RouteEngine Route = iota + 1
	// RoutePassthrough copies the epoch line and payload verbatim.
	RoutePassthrough
)

// StateMachine classifies the records of one stream.
//
// It holds no differencing state: events leave the engine untouched, so the
// next normal epoch resumes from the history of the last one.
type StateMachine struct {
	state State
	prev  State

	epochs   int
	events   int
	comments int
}

// NewStateMachine returns a machine in AwaitingFirstEpoch.
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// State returns the current state.
func (m *StateMachine) State() State {
	return m.state
}

// OnEpoch moves to Normal or Event according to flag.
func (m *StateMachine) OnEpoch(flag format.EpochFlag) (Route, error) {
	if !flag.IsValid() {
		return 0, fmt.Errorf("%w: epoch flag %q", errs.ErrMalformedEpoch, byte(flag))
	}

	if flag.IsEvent() {
		m.state = Event
		m.events++

		return RoutePassthrough, nil
	}

	m.state = Normal
	m.epochs++

	return RouteEngine, nil
}

// OnComment enters CommentPassthrough from any state.
func (m *StateMachine) OnComment() {
	if m.state != CommentPassthrough {
		m.prev = m.state
	}
	m.state = CommentPassthrough
	m.comments++
}

// Resume returns from CommentPassthrough to the state that preceded it.
func (m *StateMachine) Resume() {
	if m.state == CommentPassthrough {
		m.state = m.prev
	}
}

// Finish validates the end of the stream. pending is the number of lines the
// current record still expects; anything but zero means the input was cut.
func (m *StateMachine) Finish(pending int) error {
	if pending > 0 {
		return fmt.Errorf("%w: %d lines missing in %s state", errs.ErrTruncatedStream, pending, m.state)
	}

	return nil
}

// Counts returns the number of normal epochs, events and comments seen.
func (m *StateMachine) Counts() (epochs, events, comments int) {
	return m.epochs, m.events, m.comments
}
