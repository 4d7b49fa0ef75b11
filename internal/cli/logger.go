package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
)

// Logger prints bracketed level lines tagged with the tool and run id.
type Logger struct {
	l     *log.Logger
	tag   string
	quiet bool
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NewLogger creates a Logger writing to w. Only the first block of runID is
// printed; metrics carry the full id.
func NewLogger(w io.Writer, tool, runID string, quiet bool) *Logger {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}

	return &Logger{
		l:     log.New(w, "", log.LstdFlags),
		tag:   tool + " " + short,
		quiet: quiet,
	}
}

// Infof logs progress. Suppressed in quiet mode.
func (l *Logger) Infof(format string, args ...any) {
	if l.quiet {
		return
	}
	l.printf("info", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.printf("warn", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf("error", format, args...)
}

func (l *Logger) printf(level, format string, args ...any) {
	l.l.Printf("[%s] %s | %s", level, l.tag, fmt.Sprintf(format, args...))
}
