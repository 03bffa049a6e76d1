package codec

import "sync"

// maxPooledFrame is the largest frame buffer returned to the pool.
const maxPooledFrame = 64 * 1024

// frameBuffer wraps a byte slice for pooling.
type frameBuffer struct {
	buf []byte
}

// framePool provides reusable buffers for frames written to an io.Writer.
var framePool = sync.Pool{
	New: func() interface{} {
		return new(frameBuffer)
	},
}

// getFrameBuffer retrieves a buffer with at least the given capacity.
func getFrameBuffer(capacity int) *frameBuffer {
	fb := framePool.Get().(*frameBuffer)
	if cap(fb.buf) < capacity {
		fb.buf = make([]byte, 0, capacity)
	} else {
		fb.buf = fb.buf[:0]
	}
	return fb
}

// putFrameBuffer returns a buffer to the pool.
func putFrameBuffer(fb *frameBuffer) {
	if fb == nil {
		return
	}
	// Only keep reasonably sized buffers
	if cap(fb.buf) <= maxPooledFrame {
		fb.buf = fb.buf[:0]
		framePool.Put(fb)
	}
}
