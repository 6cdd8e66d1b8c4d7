package rotor

import (
	"io"
	"sync"
)

const streamBufferSize = 32 * 1024

//nolint:gochecknoglobals
var streamBufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, streamBufferSize)

		return &buf
	},
}

// reader applies the forward transform to everything read through it.
type reader struct {
	r     io.Reader
	stack *Stack
}

// Reader wraps r so that bytes read from it have passed through the stack's forward transform.
func (s *Stack) Reader(r io.Reader) io.Reader {
	return &reader{r: r, stack: s}
}

func (r *reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.stack.ForwardInPlace(p[:n])
	}

	return n, err
}

// writer applies the reverse transform to everything written through it.
// The caller's buffer is never modified.
type writer struct {
	w     io.Writer
	stack *Stack
}

// Writer wraps w so that bytes written to it pass through the stack's reverse transform first.
func (s *Stack) Writer(w io.Writer) io.Writer {
	return &writer{w: w, stack: s}
}

func (w *writer) Write(p []byte) (int, error) {
	bufPtr, _ := streamBufferPool.Get().(*[]byte) //nolint:errcheck // pool only holds *[]byte
	defer streamBufferPool.Put(bufPtr)

	buf := *bufPtr
	written := 0

	for written < len(p) {
		n := copy(buf, p[written:])
		w.stack.ReverseInPlace(buf[:n])

		m, err := w.w.Write(buf[:n])
		written += m

		if err != nil {
			return written, err
		}

		if m < n {
			return written, io.ErrShortWrite
		}
	}

	return written, nil
}
