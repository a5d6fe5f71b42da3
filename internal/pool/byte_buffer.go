package pool

import (
	"io"
	"sync"
)

// Growth policy bases shared by the header buffers.
const (
	InitialByteCapacity  = 64 // first allocation of an encoded header buffer, in bytes
	InitialFieldCapacity = 16 // first allocation of a field table, in entries

	// BlockBufferDefaultSize is the default size of block buffers obtained from the pool.
	BlockBufferDefaultSize = 1024 * 64
	// BlockBufferMaxThreshold is the largest buffer the block pool retains.
	BlockBufferMaxThreshold = 1024 * 1024 * 4
)

// GrowCapacity returns the capacity to allocate so that at least required elements fit.
//
// Capacity starts at base when current is zero and is multiplied by 1.5 until it
// reaches required. When current already satisfies required it is returned unchanged.
func GrowCapacity(current, required, base int) int {
	if current >= required {
		return current
	}

	c := current
	if c <= 0 {
		c = base
	}
	for c < required {
		step := c >> 1
		if step == 0 {
			step = 1
		}
		c += step
	}

	return c
}

// ByteBuffer is a length-tracked, capacity-tracked byte buffer.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, capacity),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Release drops the backing storage.
func (bb *ByteBuffer) Release() {
	bb.B = nil
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Reserve ensures the buffer can hold total bytes without reallocating.
//
// Capacity grows by the 1.5x policy of GrowCapacity starting from InitialByteCapacity,
// so a sequence of small appends costs amortized O(1) per byte.
func (bb *ByteBuffer) Reserve(total int) {
	if cap(bb.B) >= total {
		return
	}

	newBuf := make([]byte, len(bb.B), GrowCapacity(cap(bb.B), total, InitialByteCapacity))
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Slice returns a slice of the buffer from start to end.
// Panics if the indices are out of bounds.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > len(bb.B) {
		panic("Slice: invalid indices")
	}

	return bb.B[start:end]
}

// MustWrite appends data to the buffer, growing it by the buffer policy if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Reserve(len(bb.B) + len(data))
	bb.B = append(bb.B, data...)
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers whose capacity grew beyond maxThreshold are dropped on Put instead of
// being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var blockDefaultPool = NewByteBufferPool(BlockBufferDefaultSize, BlockBufferMaxThreshold)

// GetBlockBuffer retrieves a ByteBuffer from the default block pool.
func GetBlockBuffer() *ByteBuffer {
	return blockDefaultPool.Get()
}

// PutBlockBuffer returns a ByteBuffer to the default block pool.
func PutBlockBuffer(bb *ByteBuffer) {
	blockDefaultPool.Put(bb)
}
