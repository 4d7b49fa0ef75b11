package rinexio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/rinex"
)

// MaxLineLength bounds a single input line. RINEX lines are at most a few
// hundred columns; anything longer is not a RINEX file.
const MaxLineLength = 1 << 20

// LineReader reads text lines, tracks the current line number and lets the
// caller push one line back.
type LineReader struct {
	sc      *bufio.Scanner
	line    int
	pending []string
}

// NewLineReader creates a LineReader over r. Line endings may be LF or CRLF.
func NewLineReader(r io.Reader) *LineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxLineLength)

	return &LineReader{sc: sc}
}

// Next returns the next line without its terminator, or io.EOF.
func (r *LineReader) Next() (string, error) {
	if n := len(r.pending); n > 0 {
		line := r.pending[n-1]
		r.pending = r.pending[:n-1]
		r.line++

		return line, nil
	}

	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}
	r.line++

	return strings.TrimSuffix(r.sc.Text(), "\r"), nil
}

// Unread pushes line back; the next call to Next returns it.
func (r *LineReader) Unread(line string) {
	r.pending = append(r.pending, line)
	r.line--
}

// Line returns the number of the line last returned by Next, starting at 1.
func (r *LineReader) Line() int {
	return r.line
}

// Must returns the next line, turning io.EOF into ErrTruncatedStream. what
// names the expected content in the error.
func (r *LineReader) Must(what string) (string, error) {
	line, err := r.Next()
	if errors.Is(err, io.EOF) {
		return "", errs.AtLine(fmt.Errorf("%w: input ends before %s", errs.ErrTruncatedStream, what), r.line+1)
	}

	return line, err
}

// ReadHeader reads header lines up to and including END OF HEADER.
func (r *LineReader) ReadHeader() ([]string, error) {
	var lines []string
	for {
		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil, errs.AtLine(fmt.Errorf("%w: missing %s", errs.ErrMalformedHeader, rinex.LabelEndOfHeader), r.line+1)
		}
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
		if rinex.Label(line) == rinex.LabelEndOfHeader {
			return lines, nil
		}
	}
}
