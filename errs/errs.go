// Package errs defines the sentinel errors returned by the crinex packages.
//
// Every error that aborts a stream is fatal: differencing state cannot be
// recovered once the encoder and decoder disagree, so callers must restart the
// file from the beginning. Stream-level failures are wrapped in *StreamError,
// which records where the failure happened and unwraps to the sentinel.
package errs

import (
	"errors"
	"fmt"
)

// Codec errors.
var (
	// ErrMalformedDifference is returned when a difference token cannot be parsed.
	ErrMalformedDifference = errors.New("malformed difference token")
	// ErrHistoryUnderflow is returned when a differenced token references a slot with no history.
	ErrHistoryUnderflow = errors.New("history underflow")
	// ErrColumnOverflow is returned when a value or difference does not fit its column.
	ErrColumnOverflow = errors.New("column overflow")
	// ErrUnexpectedEventPayload is returned when an event epoch is structurally invalid.
	ErrUnexpectedEventPayload = errors.New("unexpected event payload")
	// ErrTruncatedStream is returned when input ends inside an epoch, payload or continuation.
	ErrTruncatedStream = errors.New("truncated stream")
	// ErrScaleMismatch is returned when a value's decimal places differ from its slot's.
	ErrScaleMismatch = errors.New("decimal scale mismatch")
)

// Format errors.
var (
	ErrMalformedEpoch  = errors.New("malformed epoch descriptor")
	ErrMalformedHeader = errors.New("malformed header")
	ErrUnknownSystem   = errors.New("satellite system has no observation types")
	ErrTooManyValues   = errors.New("more observations than declared types")
	ErrInvalidSatID    = errors.New("invalid satellite identifier")
)

// Configuration errors.
var (
	ErrInvalidOrder       = errors.New("invalid differencing order")
	ErrInvalidRevision    = errors.New("invalid format revision")
	ErrUnsupportedFraming = errors.New("unsupported framing")
	ErrHeaderNotWritten   = errors.New("header must be written before records")
	ErrHeaderWritten      = errors.New("header already written")
	ErrClosed             = errors.New("stream closed")
)

// StreamError describes a fatal error at a position in a stream.
type StreamError struct {
	// Epoch is the zero-based index of the epoch being processed, -1 if none.
	Epoch int
	// Line is the one-based input line number, 0 if unknown.
	Line int
	// Slot identifies the failing slot, e.g. "G01/3", "clock" or "descriptor".
	Slot string
	Err  error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	msg := "crinex"
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Epoch >= 0 {
		msg += fmt.Sprintf(" epoch %d", e.Epoch)
	}
	if e.Slot != "" {
		msg += " slot " + e.Slot
	}

	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// AtEpoch wraps err with the epoch index and slot. A nil err returns nil and an
// err that already carries a position keeps its original one.
func AtEpoch(err error, epoch int, slot string) error {
	if err == nil {
		return nil
	}

	var se *StreamError
	if errors.As(err, &se) {
		if se.Epoch < 0 {
			se.Epoch = epoch
		}
		if se.Slot == "" {
			se.Slot = slot
		}

		return err
	}

	return &StreamError{Epoch: epoch, Slot: slot, Err: err}
}

// AtLine attaches a line number to err, wrapping it if needed.
func AtLine(err error, line int) error {
	if err == nil {
		return nil
	}

	var se *StreamError
	if errors.As(err, &se) {
		if se.Line == 0 {
			se.Line = line
		}

		return err
	}

	return &StreamError{Epoch: -1, Line: line, Err: err}
}
