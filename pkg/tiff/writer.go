package tiff

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// WriteFile creates or truncates path and writes the document bytes to it
func WriteFile(path string, doc *Document) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}
	n, err := Write(f, doc)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %w", ErrIO, cerr)
	}
	return n, err
}

// Write writes the full, possibly mutated, byte stream of doc
func Write(w io.Writer, doc *Document) (int64, error) {
	cw := &CountingWriter{Writer: w}
	if _, err := cw.Write(doc.Data); err != nil {
		return cw.Count.Load(), fmt.Errorf("%w: %w", ErrIO, err)
	}
	return cw.Count.Load(), nil
}

type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	if err == nil {
		c.Count.Add(int64(n))
	}
	return n, err
}
