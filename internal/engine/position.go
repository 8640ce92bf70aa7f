package engine

import (
	"io"
	"sort"
)

// LineCounter wraps an io.Reader and records the offset of every newline it
// passes through. Tokenizers read ahead, so every offset they report has
// already been observed by the time it is resolved.
type LineCounter struct {
	r        io.Reader
	read     int64
	newlines []int64
}

// NewLineCounter returns a LineCounter reading from r.
func NewLineCounter(r io.Reader) *LineCounter { return &LineCounter{r: r} }

func (c *LineCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == '\n' {
			c.newlines = append(c.newlines, c.read+int64(i))
		}
	}
	c.read += int64(n)
	return n, err
}

// BytesRead reports how many bytes have been consumed from the underlying reader.
func (c *LineCounter) BytesRead() int64 { return c.read }

// Position resolves a byte offset into a 1-based line and column. The column
// counts bytes, not runes.
func (c *LineCounter) Position(offset int64) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	// number of newlines strictly before offset
	n := sort.Search(len(c.newlines), func(i int) bool { return c.newlines[i] >= offset })
	lineStart := int64(0)
	if n > 0 {
		lineStart = c.newlines[n-1] + 1
	}
	return n + 1, int(offset-lineStart) + 1
}
