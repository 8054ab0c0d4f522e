package exprdiff

import (
	"bufio"
	"io"
	"strings"
)

// QuoteFixReader transparently replaces the invalid \" escape that some
// spreadsheet exports emit with the doubled "" form that encoding/csv
// understands.
type QuoteFixReader struct {
	r        *bufio.Reader
	leftover *strings.Reader
	err      error
}

func NewQuoteFixReader(r io.Reader) *QuoteFixReader {
	return &QuoteFixReader{r: bufio.NewReader(r), leftover: &strings.Reader{}}
}

func (m *QuoteFixReader) Read(p []byte) (n int, err error) {
	for m.leftover.Len() == 0 {
		if m.err != nil {
			return 0, m.err
		}

		line, err := m.r.ReadString('\n')
		if err != nil {
			// Hold the error until any final unterminated line is served.
			m.err = err
		}

		if line != "" {
			m.leftover = strings.NewReader(strings.ReplaceAll(line, "\\\"", "\"\""))
		}
	}

	return m.leftover.Read(p)
}
