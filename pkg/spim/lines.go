package spim

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// lineReader splits text into lines without a length limit. A line ends at
// "\n", "\r\n", a lone "\r", U+0085, U+2028 or U+2029, the separators the
// microscope software terminates lines with on the various platforms.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// Next returns the next line without its terminator. It returns io.EOF once
// the input is exhausted; a final line without terminator is still returned.
func (lr *lineReader) Next() (string, error) {
	var b strings.Builder
	pending := false

	for {
		r, size, err := lr.r.ReadRune()
		if err == io.EOF {
			if pending {
				return b.String(), nil
			}
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
		pending = true

		switch {
		case r == '\n', r == '\u0085', r == '\u2028', r == '\u2029':
			return b.String(), nil
		case r == '\r':
			if next, err := lr.r.Peek(1); err == nil && next[0] == '\n' {
				lr.r.ReadByte()
			}
			return b.String(), nil
		case r == utf8.RuneError && size == 1:
			// Keep invalid bytes as they are
			lr.r.UnreadRune()
			c, _ := lr.r.ReadByte()
			b.WriteByte(c)
		default:
			b.WriteRune(r)
		}
	}
}
