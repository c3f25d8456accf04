package client

import (
	"fmt"
	"io"

	"github.com/c2h5oh/datasize"
)

// ErrIndexTooLarge is returned when the index document exceeds the configured
// maximum size.
type ErrIndexTooLarge struct {
	Max int64
}

func (err ErrIndexTooLarge) StatusCode() int {
	return 502
}

func (err ErrIndexTooLarge) Error() string {
	return fmt.Sprintf(
		"Index too large, maximum size allowed is %s",
		datasize.ByteSize(err.Max).HumanReadable(),
	)
}

// LimitedReader is a reader that errors out instead of silently truncating
// once more than Bytes are read.
type LimitedReader struct {
	reader io.LimitedReader
	Bytes  int64
}

func NewLimitedReader(r io.Reader, max int64) *LimitedReader {
	return &LimitedReader{
		reader: io.LimitedReader{R: r, N: max + 1},
		Bytes:  max,
	}
}

func (r *LimitedReader) Read(b []byte) (int, error) {
	n, err := r.reader.Read(b)

	if r.reader.N <= 0 {
		return n, ErrIndexTooLarge{Max: r.Bytes}
	}

	return n, err
}
