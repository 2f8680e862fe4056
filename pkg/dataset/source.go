package dataset

import (
	"io"
	"os"
	"sync"
)

// Source supplies the raw bytes of an input. It may be called more than
// once and must return the same result each time; [Reader] and [File]
// memoize for that reason.
type Source func() ([]byte, error)

// Bytes returns a Source for in-memory content.
func Bytes(b []byte) Source {
	return func() ([]byte, error) { return b, nil }
}

// File returns a Source that reads path on first use.
func File(path string) Source {
	return sync.OnceValues(func() ([]byte, error) {
		return os.ReadFile(path)
	})
}

// Reader returns a Source that drains r on first use. r is not closed.
func Reader(r io.Reader) Source {
	return sync.OnceValues(func() ([]byte, error) {
		return io.ReadAll(r)
	})
}
