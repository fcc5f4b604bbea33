package engine

import (
	"io"
	"sync"
)

// Wraps an io.Reader and closes a channel once the wrapped reader reports
// io.EOF. Exec streams stdin through one of these so the process's stdin can
// be closed the moment the payload is fully delivered.
type eofReader struct {
	io.Reader

	once sync.Once
	done chan struct{}
}

func newEOFReader(r io.Reader) *eofReader {
	return &eofReader{Reader: r, done: make(chan struct{})}
}

func (r *eofReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	if err == io.EOF {
		r.once.Do(func() { close(r.done) })
	}
	return n, err
}
