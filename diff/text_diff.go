package diff

// Special characters of the text difference syntax.
const (
	unchanged = ' '
	erased    = '&'
)

// TextDiff holds the previous text of a fixed-column field and produces or
// applies column-wise differences against it.
//
// In a difference a space means "column unchanged", '&' means "column becomes a
// space" and any other character replaces the column. The tracked text never
// shrinks: columns beyond a shorter new value are erased to spaces.
type TextDiff struct {
	buf []byte
}

// NewTextDiff returns a TextDiff whose previous text is init.
func NewTextDiff(init string) *TextDiff {
	t := &TextDiff{}
	t.Reset(init)

	return t
}

// Reset replaces the tracked text.
func (t *TextDiff) Reset(init string) {
	t.buf = append(t.buf[:0], init...)
}

// Text returns the tracked text.
func (t *TextDiff) Text() string {
	return string(t.buf)
}

// Len returns the length of the tracked text.
func (t *TextDiff) Len() int {
	return len(t.buf)
}

// Compress returns the difference from the tracked text to s, right-trimmed of
// unchanged columns, and tracks s.
func (t *TextDiff) Compress(s string) string {
	return string(trimUnchanged(t.AppendCompress(nil, s)))
}

// AppendCompress appends the full-width difference from the tracked text to s
// and tracks s. The result spans max(len(s), Len()) columns.
func (t *TextDiff) AppendCompress(dst []byte, s string) []byte {
	n := max(len(s), len(t.buf))
	for i := 0; i < n; i++ {
		var c byte
		switch {
		case i >= len(s):
			if t.buf[i] == ' ' {
				c = unchanged
			} else {
				c = erased
				t.buf[i] = ' '
			}
		case i >= len(t.buf):
			c = s[i]
			if c == ' ' {
				c = erased
			}
			t.buf = append(t.buf, s[i])
		case s[i] == t.buf[i]:
			c = unchanged
		case s[i] == ' ':
			c = erased
			t.buf[i] = ' '
		default:
			c = s[i]
			t.buf[i] = s[i]
		}
		dst = append(dst, c)
	}

	return dst
}

// Decompress applies d to the tracked text and returns the result.
func (t *TextDiff) Decompress(d string) string {
	t.buf = apply(t.buf, d)

	return string(t.buf)
}

// Peek returns the text Decompress(d) would produce without changing state.
func (t *TextDiff) Peek(d string) string {
	return string(apply(append([]byte(nil), t.buf...), d))
}

func apply(buf []byte, d string) []byte {
	for i := 0; i < len(d); i++ {
		c := d[i]
		if i >= len(buf) {
			if c == erased {
				c = ' '
			}
			buf = append(buf, c)

			continue
		}

		switch c {
		case unchanged:
		case erased:
			buf[i] = ' '
		default:
			buf[i] = c
		}
	}

	return buf
}

func trimUnchanged(b []byte) []byte {
	n := len(b)
	for n > 0 && b[n-1] == unchanged {
		n--
	}

	return b[:n]
}
