package encryption

import (
	"sync"
)

const defaultBufferSize = 32 * 1024 // 32KB, a multiple of the AES block size

// bufferPool provides a pool of reusable byte slices for streaming.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, defaultBufferSize)

		return &buf
	},
}

func getBuffer() *[]byte {
	buf, _ := bufferPool.Get().(*[]byte) //nolint:errcheck // pool only holds *[]byte

	return buf
}
