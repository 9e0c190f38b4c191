// Package pool provides a pooled, growable byte buffer used by the melter
// (output accumulation), so repeated save processing does not churn the
// allocator. A second, smaller TapeBuffer pool is also exposed; no package
// in this module draws from it.
package pool

import (
	"io"
	"sync"
)

// Default and max-retained sizes for the two pools this package exposes.
// MeltBuffer sizing targets the melter's output, which the component design
// (§4.4) bounds at roughly 2x the inflated input; TapeBuffer sizing is a
// small scratch size for scalar bytes.
const (
	TapeBufferDefaultSize  = 4 * 1024
	TapeBufferMaxThreshold = 64 * 1024
	MeltBufferDefaultSize  = 64 * 1024
	MeltBufferMaxThreshold = 4 * 1024 * 1024
)

// ByteBuffer is a reusable, growable byte slice wrapper.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying slice.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Reset empties the buffer but keeps its backing array.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Cap returns the buffer's current capacity.
func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// MustWrite appends data, growing the buffer if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// MustWriteByte appends a single byte, growing the buffer if necessary.
func (bb *ByteBuffer) MustWriteByte(b byte) {
	bb.Grow(1)
	bb.B = append(bb.B, b)
}

// MustWriteString appends a string, growing the buffer if necessary.
func (bb *ByteBuffer) MustWriteString(s string) {
	bb.Grow(len(s))
	bb.B = append(bb.B, s...)
}

// Grow ensures the buffer can accept requiredBytes more bytes without a
// reallocation, using an amortized growth strategy: small buffers grow by a
// fixed chunk, larger ones by 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := MeltBufferDefaultSize
	if cap(bb.B) > 4*MeltBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool pools ByteBuffers, discarding ones that grew past
// maxThreshold instead of retaining them.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize and
// are discarded (not retained) once they exceed maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}
	bb.Reset()
	p.pool.Put(bb)
}

var (
	tapePool = NewByteBufferPool(TapeBufferDefaultSize, TapeBufferMaxThreshold)
	meltPool = NewByteBufferPool(MeltBufferDefaultSize, MeltBufferMaxThreshold)
)

// GetTapeBuffer retrieves a scratch buffer from the tape-parser pool.
func GetTapeBuffer() *ByteBuffer { return tapePool.Get() }

// PutTapeBuffer returns a scratch buffer to the tape-parser pool.
func PutTapeBuffer(bb *ByteBuffer) { tapePool.Put(bb) }

// GetMeltBuffer retrieves an output buffer from the melter pool.
func GetMeltBuffer() *ByteBuffer { return meltPool.Get() }

// PutMeltBuffer returns an output buffer to the melter pool.
func PutMeltBuffer(bb *ByteBuffer) { meltPool.Put(bb) }
