package render

import (
	"net/http"
)

type FlushWriter interface {
	http.ResponseWriter
	http.Flusher
}

func TryFlushWriter(w http.ResponseWriter) FlushWriter {
	if f, ok := w.(FlushWriter); ok {
		return f
	}
	return flusher{w}
}

// flusher is a no-op Flusher for writers that can't flush.
type flusher struct {
	http.ResponseWriter
}

func (f flusher) Flush() {}
